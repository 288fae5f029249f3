// Package app holds the session service: login, resume, validation and
// the logout-on-invalid rule.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spreadpad/spreadpad/business/session/domain"
	"github.com/spreadpad/spreadpad/internal/apperror"
	"github.com/spreadpad/spreadpad/internal/logger"
)

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
}

// TokenStore persists the token between runs so settings sync can start
// without a fresh login.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Service holds the current session. Any response marking the session
// invalid clears it; there are no retries.
type Service struct {
	api   AuthAPI
	store TokenStore
	log   logger.LoggerInterface

	mu      sync.RWMutex
	current *domain.Session
}

// NewService creates a session service.
func NewService(api AuthAPI, store TokenStore, log logger.LoggerInterface) *Service {
	return &Service{api: api, store: store, log: log}
}

// Login authenticates and stores the token. The returned error's context
// carries the server message for display.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	sess, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if err := s.store.SaveToken(ctx, sess.Token); err != nil {
		s.log.Warn(ctx, "token save failed", "error", err)
	}
	return sess, nil
}

// Resume restores the session from the stored token at startup. An
// expired or rejected token is cleared and nil is returned; the app then
// runs logged out with local persistence only.
func (s *Service) Resume(ctx context.Context) *domain.Session {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		s.log.Warn(ctx, "token load failed", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	if domain.Expired(token, time.Now()) {
		s.log.Info(ctx, "stored token expired, logging out")
		s.Logout(ctx)
		return nil
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeSessionUnauthorized {
			s.log.Info(ctx, "stored token rejected, logging out")
			s.Logout(ctx)
			return nil
		}
		// Network trouble is not an invalid session: keep the token and
		// run with it; the server will decide on the next request.
		s.log.Warn(ctx, "profile validation unreachable, keeping session", "error", err)
		sess := &domain.Session{Token: token}
		s.mu.Lock()
		s.current = sess
		s.mu.Unlock()
		return sess
	}

	sess := &domain.Session{Token: token, User: *user}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess
}

// Invalidate handles an unauthorized response from any collaborator by
// logging out. Returns true when the error was a session rejection.
func (s *Service) Invalidate(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case apperror.CodeSessionUnauthorized, apperror.CodeSessionExpired:
		s.Logout(ctx)
		return true
	}
	return false
}

// Logout clears the session and the stored token.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.ClearToken(ctx); err != nil {
		s.log.Warn(ctx, "token clear failed", "error", err)
	}
}

// Current returns the active session, or nil when logged out.
func (s *Service) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the active token, or "".
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}
