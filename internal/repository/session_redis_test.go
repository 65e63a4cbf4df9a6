package repository

import (
	"errors"
	"testing"
	"time"

	"multiuser_blog/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*SessionRedis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRedis(client), mr
}

func TestSessionRedis_CreateLookup(t *testing.T) {
	store, mr := newTestRedisStore(t)

	now := time.Now()
	err := store.Create(ctx(t), models.Session{Digest: "d1", UserID: 12, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !mr.Exists("session:d1") {
		t.Fatalf("expected key session:d1 to exist")
	}
	if ttl := mr.TTL("session:d1"); ttl != time.Hour {
		t.Fatalf("ttl = %v; want 1h", ttl)
	}

	id, err := store.Lookup(ctx(t), "d1", now)
	if err != nil || id != 12 {
		t.Fatalf("Lookup = (%d, %v); want (12, nil)", id, err)
	}
}

func TestSessionRedis_Expiry(t *testing.T) {
	store, mr := newTestRedisStore(t)

	now := time.Now()
	if err := store.Create(ctx(t), models.Session{Digest: "d1", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.Lookup(ctx(t), "d1", now); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestSessionRedis_Revoke(t *testing.T) {
	store, _ := newTestRedisStore(t)

	now := time.Now()
	if err := store.Create(ctx(t), models.Session{Digest: "d1", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Revoke(ctx(t), "d1", now); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := store.Revoke(ctx(t), "d1", now); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if _, err := store.Lookup(ctx(t), "d1", now); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}

func TestSessionRedis_RejectsExpiredRecord(t *testing.T) {
	store, _ := newTestRedisStore(t)

	now := time.Now()
	err := store.Create(ctx(t), models.Session{Digest: "d1", UserID: 1, CreatedAt: now, ExpiresAt: now})
	if err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func TestSessionRedis_ServerDown(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.Lookup(ctx(t), "d1", time.Now())
	if err == nil || errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
