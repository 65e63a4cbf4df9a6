package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"multiuser_blog/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

var _ SessionStore = (*SessionSQLite)(nil)

// Timestamps are unix seconds.
const (
	insertSessionSQL = `INSERT INTO sessions (digest, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	lookupSessionSQL = `SELECT user_id FROM sessions WHERE digest = ? AND revoked_at IS NULL AND expires_at > ?`
	revokeSessionSQL = `UPDATE sessions SET revoked_at = ? WHERE digest = ? AND revoked_at IS NULL`
)

func (r *SessionSQLite) Create(ctx context.Context, s models.Session) error {
	_, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.Digest, s.UserID, s.CreatedAt.Unix(), s.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("insert session for user %d: %w", s.UserID, err)
	}
	return nil
}

// Lookup returns the owner of a live session.
func (r *SessionSQLite) Lookup(ctx context.Context, digest string, now time.Time) (int, error) {
	var userID int
	err := r.db.QueryRowContext(ctx, lookupSessionSQL, digest, now.Unix()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("select session: %w", err)
	}
	return userID, nil
}

// Revoke is idempotent; revoking an unknown digest is not an error.
func (r *SessionSQLite) Revoke(ctx context.Context, digest string, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, revokeSessionSQL, now.Unix(), digest); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
