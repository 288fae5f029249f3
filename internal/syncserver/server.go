// Package syncserver implements the settings sync and auth API the app
// talks to: login, profile validation, and an opaque settings blob per
// user. It is self-hostable through cmd/syncd.
package syncserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spreadpad/spreadpad/internal/health"
	"github.com/spreadpad/spreadpad/internal/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

// maxBlobSize bounds a settings payload.
const maxBlobSize = 1 << 20

// Server is the HTTP API.
type Server struct {
	store  *Storage
	auth   *Auth
	log    logger.LoggerInterface
	router *mux.Router
}

// NewServer wires the routes. version tags the health endpoint.
func NewServer(store *Storage, auth *Auth, log logger.LoggerInterface, version string) *Server {
	s := &Server{
		store: store,
		auth:  auth,
		log:   log,
	}

	healthSrv := health.NewServer(0, version)
	healthSrv.RegisterCheck("database", func(ctx context.Context) (bool, string) {
		if err := store.Ping(ctx); err != nil {
			return false, err.Error()
		}
		return true, ""
	})

	r := mux.NewRouter()
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/register", s.handleRegister).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	authed.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	authed.HandleFunc("/settings", s.handlePutSettings).Methods(http.MethodPut)

	r.PathPrefix("/health").Handler(healthSrv.Handler())
	r.PathPrefix("/ready").Handler(healthSrv.Handler())
	r.PathPrefix("/live").Handler(healthSrv.Handler())
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.router = r
	return s
}

// Router returns the handler for http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.store.UserByUsername(r.Context(), req.Username)
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.log.Error(r.Context(), "user lookup failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.log.Error(r.Context(), "token generation failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || len(req.Password) < 6 {
		s.respondError(w, http.StatusBadRequest, "username and a password of at least 6 characters are required")
		return
	}

	if _, err := s.store.UserByUsername(r.Context(), req.Username); err == nil {
		s.respondError(w, http.StatusConflict, "username already taken")
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error(r.Context(), "password hash failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		s.log.Error(r.Context(), "user creation failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	user, err := s.store.UserByID(r.Context(), claims.UserID)
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	if err != nil {
		s.log.Error(r.Context(), "profile lookup failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	blob, err := s.store.Settings(r.Context(), claims.UserID)
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "no settings saved")
		return
	}
	if err != nil {
		s.log.Error(r.Context(), "settings lookup failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(blob)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	blob, err := io.ReadAll(io.LimitReader(r.Body, maxBlobSize+1))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(blob) > maxBlobSize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "settings blob too large")
		return
	}
	if !json.Valid(blob) {
		s.respondError(w, http.StatusBadRequest, "settings must be valid JSON")
		return
	}

	if err := s.store.SaveSettings(r.Context(), claims.UserID, blob); err != nil {
		s.log.Error(r.Context(), "settings save failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// authMiddleware validates the Bearer token and attaches the claims.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			s.respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(r *http.Request) *Claims {
	claims, _ := r.Context().Value(claimsKey).(*Claims)
	return claims
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
