package service

import (
	"context"
	"time"

	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"
)

// CredentialStore registers and verifies username/password pairs.
type CredentialStore interface {
	Register(ctx context.Context, username, password string) (int, error)
	Verify(ctx context.Context, username, password string) (int, error)
	Lookup(ctx context.Context, id int) (models.User, error)
}

// SessionManager issues, resolves and revokes session tokens.
type SessionManager interface {
	Start(ctx context.Context, userID int) (string, error)
	Resolve(ctx context.Context, token string) (models.Identity, error)
	End(ctx context.Context, token string) error
}

// Authenticator is the login surface used by the HTTP layer.
type Authenticator interface {
	RegisterAndLogin(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, id models.Identity, token string) error
}

// Posts exposes the feed. Mutations take the resolved identity explicitly.
type Posts interface {
	Create(ctx context.Context, id models.Identity, title, body string) (int, error)
	Get(ctx context.Context, postID int) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, id models.Identity, postID int, title, body string) (models.Post, error)
	Delete(ctx context.Context, id models.Identity, postID int) error
}

// EventLog exposes the per-user audit trail with filtering access.
type EventLog interface {
	List(ctx context.Context, id models.Identity, f LogFilter) ([]models.Event, error)
}

// FeedPublisher receives committed feed changes. Publish must not block.
type FeedPublisher interface {
	Publish(e models.FeedEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.FeedEvent) {}

// Options carries the tunables taken from configuration.
type Options struct {
	Secret     string
	SessionTTL time.Duration
	BcryptCost int
}

// Service aggregates all sub-services.
type Service struct {
	Auth     Authenticator
	Sessions SessionManager
	Users    CredentialStore
	Posts    Posts
	EventLog EventLog
}

func NewService(repos *repository.Repository, feed FeedPublisher, log *logger.Logger, opts Options) *Service {
	creds := NewCredentialService(repos.Users, opts.BcryptCost)
	sessions := NewSessionService(repos.Sessions, repos.Users, opts.Secret, opts.SessionTTL)

	return &Service{
		Auth:     NewAuthService(creds, sessions, repos.Events, log),
		Sessions: sessions,
		Users:    creds,
		Posts:    NewPostService(repos.Posts, feed, repos.Events, log),
		EventLog: NewEventLogService(repos.Events),
	}
}
