// Package app implements the settings persistence synchronizer: immediate
// local writes, a debounced remote path keyed on a structural fingerprint,
// and the one-time merge of both copies at startup.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/spreadpad/spreadpad/business/settings/domain"
	"github.com/spreadpad/spreadpad/internal/debounce"
	"github.com/spreadpad/spreadpad/internal/logger"
)

// LocalStore is the device-local snapshot storage.
type LocalStore interface {
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// RemoteStore is the remote settings API.
type RemoteStore interface {
	Fetch(ctx context.Context, token string) (*domain.Snapshot, error)
	Push(ctx context.Context, token string, snap domain.Snapshot) error
}

const remotePushTimeout = 15 * time.Second

// Synchronizer owns the three save paths. Every Apply writes the local
// snapshot immediately; the remote copy is written only when the
// structural fingerprint changed, after a quiet window so edit bursts
// coalesce into one network write. Failures on any path are logged and
// skipped: the in-memory snapshot stays authoritative and nothing retries.
type Synchronizer struct {
	local  LocalStore
	remote RemoteStore
	log    logger.LoggerInterface

	debouncer *debounce.Debouncer[domain.Snapshot]

	mu              sync.Mutex
	token           string
	lastFingerprint string
	onPushError     func(error)
}

// NewSynchronizer creates a synchronizer with the given remote quiet
// window (2s in production).
func NewSynchronizer(local LocalStore, remote RemoteStore, log logger.LoggerInterface, window time.Duration) *Synchronizer {
	s := &Synchronizer{
		local:  local,
		remote: remote,
		log:    log,
	}
	s.debouncer = debounce.New(window, s.push)
	return s
}

// SetToken installs the session token. An empty token disables the
// remote path entirely.
func (s *Synchronizer) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// OnPushError installs a hook observing remote push failures. The caller
// uses it to react to session rejection; the synchronizer itself never
// retries.
func (s *Synchronizer) OnPushError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPushError = fn
}

// LoadMerge runs the one-time startup reconciliation: both copies are
// fetched independently and merged with remote shape and local values.
// Either fetch failing degrades to the other copy alone. The merged
// result is written back locally and primes the fingerprint so loading
// never triggers a remote write by itself.
func (s *Synchronizer) LoadMerge(ctx context.Context) domain.Snapshot {
	local, err := s.local.LoadSnapshot(ctx)
	if err != nil {
		s.log.Warn(ctx, "local snapshot load failed", "error", err)
		local = nil
	}

	var remote *domain.Snapshot
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token != "" {
		remote, err = s.remote.Fetch(ctx, token)
		if err != nil {
			s.log.Warn(ctx, "remote snapshot fetch failed", "error", err)
			remote = nil
		}
	}

	merged := domain.Merge(remote, local)

	s.mu.Lock()
	s.lastFingerprint = merged.Fingerprint()
	s.mu.Unlock()

	if err := s.local.SaveSnapshot(ctx, merged); err != nil {
		s.log.Warn(ctx, "merged snapshot save failed", "error", err)
	}
	return merged
}

// Apply persists a changed snapshot: locally right away, remotely via the
// debounced path when the fingerprint moved and a token is present.
func (s *Synchronizer) Apply(ctx context.Context, snap domain.Snapshot) {
	if err := s.local.SaveSnapshot(ctx, snap); err != nil {
		s.log.Warn(ctx, "local snapshot save failed", "error", err)
	}

	fp := snap.Fingerprint()
	s.mu.Lock()
	changed := fp != s.lastFingerprint
	s.lastFingerprint = fp
	token := s.token
	s.mu.Unlock()

	if changed && token != "" {
		s.debouncer.Trigger(snap)
	}
}

// push delivers the latest payload after the quiet window. It runs on the
// timer goroutine, detached from any UI context.
func (s *Synchronizer) push(snap domain.Snapshot) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), remotePushTimeout)
	defer cancel()

	if err := s.remote.Push(ctx, token, snap); err != nil {
		s.log.Warn(ctx, "remote snapshot push failed", "error", err)
		s.mu.Lock()
		hook := s.onPushError
		s.mu.Unlock()
		if hook != nil {
			hook(err)
		}
	}
}

// PendingRemote reports whether a remote write is scheduled.
func (s *Synchronizer) PendingRemote() bool {
	return s.debouncer.Pending()
}

// Close cancels any scheduled remote write. The pending payload is
// dropped, not flushed; the local copy already holds the latest state.
func (s *Synchronizer) Close() {
	s.debouncer.Close()
}
