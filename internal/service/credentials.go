package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// bcrypt ignores input past this many bytes.
const maxPasswordBytes = 72

// CredentialService stores usernames with bcrypt password digests.
type CredentialService struct {
	users repository.UserRepo
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewCredentialService(users repository.UserRepo, cost int) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{users: users, cost: cost}
}

// normalizeUsername folds compatibility forms so that visually identical
// names map to one account.
func normalizeUsername(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Register creates a user and returns its id.
func (s *CredentialService) Register(ctx context.Context, username, password string) (int, error) {
	username = normalizeUsername(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return 0, models.ErrEmptyField
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.users.Create(ctx, username, hash)
}

// Verify returns the user id for matching credentials. The two failure
// modes stay distinct here for logging; callers must not surface them.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (int, error) {
	u, err := s.users.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return 0, err
	}
	if u == nil {
		// Same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return 0, models.ErrUnknownUser
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return 0, models.ErrBadPassword
	}
	return u.ID, nil
}

// Lookup returns the stored user for id or models.ErrNotFound.
func (s *CredentialService) Lookup(ctx context.Context, id int) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return *u, nil
}

func (s *CredentialService) hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", models.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", models.ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *CredentialService) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), s.cost)
		if err != nil {
			panic("service: dummy bcrypt hash: " + err.Error())
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// verifyPassword compares in constant time inside bcrypt.
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
