package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

const (
	defaultSessionTTL = 24 * time.Hour
	digestContext     = "multiuser_blog 2025 session id digest"
)

// SessionService issues signed tokens and tracks them server-side so that
// logout revokes a token for good.
type SessionService struct {
	store repository.SessionStore
	users repository.UserRepo

	signingKey []byte
	digestKey  [32]byte
	ttl        time.Duration

	now func() time.Time
}

func NewSessionService(store repository.SessionStore, users repository.UserRepo, secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &SessionService{
		store:      store,
		users:      users,
		signingKey: []byte(secret),
		ttl:        ttl,
		now:        time.Now,
	}
	blake3.DeriveKey(digestContext, []byte(secret), s.digestKey[:])
	return s
}

// Start issues a new token for userID. Every call yields a distinct token.
func (s *SessionService) Start(ctx context.Context, userID int) (string, error) {
	now := s.now().Truncate(time.Second)
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err := s.store.Create(ctx, models.Session{
		Digest:    s.digest(jti),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}); err != nil {
		return "", err
	}
	return signed, nil
}

// Resolve maps a token to an identity. Anything short of a live session for
// an existing user is anonymous; only storage failures are errors.
func (s *SessionService) Resolve(ctx context.Context, token string) (models.Identity, error) {
	claims, ok := s.parse(token)
	if !ok {
		return models.Anonymous, nil
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return models.Anonymous, nil
	}

	owner, err := s.store.Lookup(ctx, s.digest(claims.ID), s.now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Anonymous, nil
		}
		return models.Anonymous, err
	}
	if owner != userID {
		return models.Anonymous, nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Anonymous, err
	}
	if u == nil {
		return models.Anonymous, nil
	}
	return models.AuthenticatedAs(userID), nil
}

// End revokes the session behind token. Unusable tokens are ignored.
func (s *SessionService) End(ctx context.Context, token string) error {
	claims, ok := s.parse(token)
	if !ok {
		return nil
	}
	return s.store.Revoke(ctx, s.digest(claims.ID), s.now())
}

func (s *SessionService) parse(token string) (*jwt.RegisteredClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

// digest is the storage key for a token id; raw ids never reach the store.
func (s *SessionService) digest(jti string) string {
	h, err := blake3.NewKeyed(s.digestKey[:])
	if err != nil {
		panic("service: blake3 keyed hash: " + err.Error())
	}
	_, _ = h.Write([]byte(jti))
	return hex.EncodeToString(h.Sum(nil))
}
