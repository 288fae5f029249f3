// Package local persists snapshots, history and the session token in a
// device-local sqlite database, each under a fixed key.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	calc "github.com/spreadpad/spreadpad/business/calc/domain"
	"github.com/spreadpad/spreadpad/business/settings/domain"
	"github.com/spreadpad/spreadpad/internal/apperror"
)

// Fixed storage keys. History lives under its own key so its lifecycle is
// independent of the settings snapshot.
const (
	keySettings = "settings"
	keyHistory  = "history"
	keyToken    = "token"
)

// Store is the device-local key-value store, JSON-encoded per key.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeStorageOpenFailed, path, err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return apperror.Internal(apperror.CodeStorageOpenFailed, "init schema", err)
	}
	return nil
}

// get unmarshals the value under key into out. Absence is reported
// through the bool, not an error.
func (s *Store) get(ctx context.Context, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Internal(apperror.CodeStorageReadFailed, key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, apperror.Internal(apperror.CodeSnapshotCorrupt, key, err)
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperror.Internal(apperror.CodeStorageWriteFailed, key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(raw))
	if err != nil {
		return apperror.Internal(apperror.CodeStorageWriteFailed, key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return apperror.Internal(apperror.CodeStorageWriteFailed, key, err)
	}
	return nil
}

// LoadSnapshot returns the persisted snapshot, or nil when none exists.
func (s *Store) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	ok, err := s.get(ctx, keySettings, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// SaveSnapshot writes the snapshot immediately.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	return s.set(ctx, keySettings, snap)
}

// LoadHistory returns the persisted calculation history. Absence yields
// an empty history.
func (s *Store) LoadHistory(ctx context.Context) (calc.History, error) {
	var h calc.History
	_, err := s.get(ctx, keyHistory, &h)
	return h, err
}

// SaveHistory writes the history immediately, independent of the snapshot.
func (s *Store) SaveHistory(ctx context.Context, h calc.History) error {
	return s.set(ctx, keyHistory, h)
}

// LoadToken returns the stored session token, or "" when none exists.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	var token string
	_, err := s.get(ctx, keyToken, &token)
	return token, err
}

// SaveToken stores the session token so settings sync can run on the
// next start without a fresh login.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.set(ctx, keyToken, token)
}

// ClearToken removes the stored token on logout.
func (s *Store) ClearToken(ctx context.Context) error {
	return s.delete(ctx, keyToken)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
