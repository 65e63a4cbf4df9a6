package repository

import (
	"context"
	"database/sql"
	"time"

	"multiuser_blog/internal/models"
)

type UserRepo interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// PostRepo mutations take the acting author and fail with models.ErrNotOwner
// or models.ErrNotFound without touching the row.
type PostRepo interface {
	Create(ctx context.Context, authorID int, title, body string) (int, error)
	GetByID(ctx context.Context, id int) (models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, id, authorID int, title, body string) error
	Delete(ctx context.Context, id, authorID int) error
}

// SessionStore keeps server-side session records keyed by token digest.
// Lookup returns models.ErrNotFound for unknown, expired or revoked records.
type SessionStore interface {
	Create(ctx context.Context, s models.Session) error
	Lookup(ctx context.Context, digest string, now time.Time) (int, error)
	Revoke(ctx context.Context, digest string, now time.Time) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, f EventFilter) ([]models.Event, error)
}

// EventFilter narrows an event listing. Zero values disable a condition.
type EventFilter struct {
	UserID int
	From   time.Time
	To     time.Time
	Type   string
}

type Repository struct {
	Users    UserRepo
	Posts    PostRepo
	Sessions SessionStore
	Events   EventRepo
}

// NewRepository wires the SQLite repositories. A nil sessions store falls
// back to the SQLite one.
func NewRepository(db *sql.DB, sessions SessionStore) *Repository {
	if sessions == nil {
		sessions = NewSessionSQLite(db)
	}
	return &Repository{
		Users:    NewUserSQLite(db),
		Posts:    NewPostSQLite(db),
		Sessions: sessions,
		Events:   NewEventSQLite(db),
	}
}
