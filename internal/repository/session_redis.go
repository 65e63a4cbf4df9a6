package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"multiuser_blog/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRedis stores live sessions as expiring keys. Revocation deletes the
// key, so an ended session can never be looked up again.
type SessionRedis struct {
	client *redis.Client
}

func NewSessionRedis(client *redis.Client) *SessionRedis {
	return &SessionRedis{client: client}
}

var _ SessionStore = (*SessionRedis)(nil)

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func sessionKey(digest string) string {
	return sessionKeyPrefix + digest
}

func (r *SessionRedis) Create(ctx context.Context, s models.Session) error {
	ttl := s.ExpiresAt.Sub(s.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("session for user %d already expired", s.UserID)
	}
	if err := r.client.Set(ctx, sessionKey(s.Digest), s.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("store session for user %d: %w", s.UserID, err)
	}
	return nil
}

// Lookup relies on the key TTL for expiry; now is unused.
func (r *SessionRedis) Lookup(ctx context.Context, digest string, _ time.Time) (int, error) {
	val, err := r.client.Get(ctx, sessionKey(digest)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse session owner %q: %w", val, err)
	}
	return userID, nil
}

func (r *SessionRedis) Revoke(ctx context.Context, digest string, _ time.Time) error {
	if err := r.client.Del(ctx, sessionKey(digest)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
