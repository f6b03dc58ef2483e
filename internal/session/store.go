// Package session persists the signed-in user's identity. Exactly one
// session exists at a time; its presence decides which root screen renders.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"washlog/internal/core"
)

// Store is the session lifecycle: save overwrites, load returns nil when
// signed out, clear is idempotent.
type Store interface {
	Save(ctx context.Context, s core.Session) error
	Load(ctx context.Context) (*core.Session, error)
	Clear(ctx context.Context) error
}

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save serializes the session and overwrites any prior record.
func (s *SQLiteStore) Save(ctx context.Context, sess core.Session) error {
	if sess.ID == "" {
		return errors.New("session id is required")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, payload, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	slog.InfoContext(ctx, "Session saved", "user_id", sess.ID)
	return nil
}

// Load returns the stored session, or nil when none exists. Read and decode
// failures are logged and degrade to the logged-out state; they are the one
// class of error this app deliberately swallows.
func (s *SQLiteStore) Load(ctx context.Context) (*core.Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM session WHERE id = 1`).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		slog.WarnContext(ctx, "Session read failed, treating as signed out", "error", err)
		return nil, nil
	}

	var sess core.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil || sess.ID == "" {
		slog.WarnContext(ctx, "Malformed session record, treating as signed out", "error", err)
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	slog.InfoContext(ctx, "Session cleared")
	return nil
}
