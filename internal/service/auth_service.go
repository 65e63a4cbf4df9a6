package service

import (
	"context"
	"errors"

	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"
)

// AuthService turns credentials into sessions.
type AuthService struct {
	creds    CredentialStore
	sessions SessionManager
	audit    auditor
	log      *logger.Logger
}

func NewAuthService(creds CredentialStore, sessions SessionManager, events repository.EventRepo, log *logger.Logger) *AuthService {
	return &AuthService{
		creds:    creds,
		sessions: sessions,
		audit:    auditor{events: events, log: log},
		log:      log,
	}
}

// RegisterAndLogin creates the account and opens its first session.
func (s *AuthService) RegisterAndLogin(ctx context.Context, username, password string) (string, error) {
	id, err := s.creds.Register(ctx, username, password)
	if err != nil {
		return "", err
	}
	s.audit.record(ctx, id, models.EventRegister, "user registered", nil)

	token, err := s.sessions.Start(ctx, id)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Login returns models.ErrInvalidCredentials for every credential failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	id, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, models.ErrUnknownUser) || errors.Is(err, models.ErrBadPassword) {
			s.log.Infow("auth_login_failed", "reason", err.Error())
			s.audit.record(ctx, 0, models.EventLoginFailed, "login failed", nil)
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	token, err := s.sessions.Start(ctx, id)
	if err != nil {
		return "", err
	}
	s.audit.record(ctx, id, models.EventLogin, "user logged in", nil)
	return token, nil
}

// Logout revokes token. The identity is only used for the audit record.
func (s *AuthService) Logout(ctx context.Context, id models.Identity, token string) error {
	if err := s.sessions.End(ctx, token); err != nil {
		return err
	}
	if id.Authenticated {
		s.audit.record(ctx, id.UserID, models.EventLogout, "user logged out", nil)
	}
	return nil
}
