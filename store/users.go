package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gemini-chat/models"
)

// ErrUserNotFound is returned when no row exists for the given email.
var ErrUserNotFound = errors.New("user not found")

const schema = `
CREATE TABLE IF NOT EXISTS users (
    email      TEXT PRIMARY KEY,
    full_name  TEXT NOT NULL DEFAULT '',
    chats      JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store wraps access to the users table. Each user's conversations live in
// a single JSONB document keyed by conversation title.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the users table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// GetUser loads a user row by email.
func (s *Store) GetUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	var chats []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT email, full_name, chats, created_at FROM users WHERE email = $1", email).
		Scan(&user.Email, &user.FullName, &chats, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := json.Unmarshal(chats, &user.Chats); err != nil {
		return nil, fmt.Errorf("failed to decode chats document: %w", err)
	}
	if user.Chats == nil {
		user.Chats = models.Chats{}
	}
	return &user, nil
}

// CreateUser inserts a new user with an empty chats document. Inserting an
// email that already exists is a no-op, so concurrent syncs for the same
// email never create two rows.
func (s *Store) CreateUser(ctx context.Context, email, fullName string) (*models.User, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, full_name) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING",
		email, fullName)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.GetUser(ctx, email)
}

// SaveChats writes back a user's entire chats document.
func (s *Store) SaveChats(ctx context.Context, email string, chats models.Chats) error {
	doc, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to encode chats document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET chats = $1 WHERE email = $2", doc, email)
	if err != nil {
		return fmt.Errorf("failed to save chats: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}
