package syncserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a user or blob does not exist.
var ErrNotFound = errors.New("not found")

// User is a registered account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// Storage persists users and their settings blobs in sqlite.
type Storage struct {
	db *sql.DB
}

// OpenStorage opens (or creates) the database at path.
func OpenStorage(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT,
			password_hash TEXT NOT NULL,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS settings (
			user_id    TEXT PRIMARY KEY REFERENCES users(id),
			blob       TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// CreateUser inserts a new account with an already-hashed password.
func (s *Storage) CreateUser(ctx context.Context, username, email, passwordHash string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// UserByUsername looks an account up for login.
func (s *Storage) UserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, COALESCE(email, ''), password_hash FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// UserByID looks an account up for profile validation.
func (s *Storage) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, COALESCE(email, ''), password_hash FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Settings returns the user's settings blob.
func (s *Storage) Settings(ctx context.Context, userID string) ([]byte, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM settings WHERE user_id = ?`, userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(blob), nil
}

// SaveSettings replaces the user's settings blob.
func (s *Storage) SaveSettings(ctx context.Context, userID string, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP
	`, userID, string(blob))
	return err
}

// Ping verifies the database connection, for health checks.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}
