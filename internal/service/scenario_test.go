package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"
	"multiuser_blog/internal/repository/db"

	"golang.org/x/crypto/bcrypt"
)

func newSQLiteService(t *testing.T) *Service {
	t.Helper()

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewService(repository.NewRepository(conn, nil), nil, logger.Nop(), Options{
		Secret:     testSecret,
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func resolve(t *testing.T, svc *Service, token string) models.Identity {
	t.Helper()
	id, err := svc.Sessions.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return id
}

func TestScenario_AliceAndBob(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	if _, err := svc.Auth.RegisterAndLogin(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	aliceTok, err := svc.Auth.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login alice: %v", err)
	}
	postID, err := svc.Posts.Create(ctx, resolve(t, svc, aliceTok), "Hello", "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Auth.RegisterAndLogin(ctx, "bob", "pw2"); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	bobTok, err := svc.Auth.Login(ctx, "bob", "pw2")
	if err != nil {
		t.Fatalf("login bob: %v", err)
	}

	if _, err := svc.Posts.Update(ctx, resolve(t, svc, bobTok), postID, "Hijacked", "x"); !errors.Is(err, models.ErrNotOwner) {
		t.Fatalf("bob update: expected ErrNotOwner, got %v", err)
	}
	if err := svc.Posts.Delete(ctx, resolve(t, svc, bobTok), postID); !errors.Is(err, models.ErrNotOwner) {
		t.Fatalf("bob delete: expected ErrNotOwner, got %v", err)
	}

	aliceTok, err = svc.Auth.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("login alice again: %v", err)
	}
	if _, err := svc.Posts.Update(ctx, resolve(t, svc, aliceTok), postID, "Hello, world", "edited"); err != nil {
		t.Fatalf("alice update: %v", err)
	}

	got, err := svc.Posts.Get(ctx, postID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hello, world" || got.Body != "edited" || got.Author != "alice" {
		t.Fatalf("post = %+v", got)
	}

	events, err := svc.EventLog.List(ctx, resolve(t, svc, bobTok), LogFilter{Type: models.EventMutationDenied})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 denied mutations for bob, got %d", len(events))
	}
}

func TestScenario_AnonymousCannotMutate(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	tok, err := svc.Auth.RegisterAndLogin(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	postID, err := svc.Posts.Create(ctx, resolve(t, svc, tok), "Hello", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Auth.Logout(ctx, resolve(t, svc, tok), tok); err != nil {
		t.Fatalf("logout: %v", err)
	}

	anon := resolve(t, svc, tok)
	if anon.Authenticated {
		t.Fatalf("logged out token still resolves")
	}
	if _, err := svc.Posts.Create(ctx, anon, "Nope", ""); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("create: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.Posts.Update(ctx, anon, postID, "Nope", ""); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("update: expected ErrNotAuthenticated, got %v", err)
	}
	if err := svc.Posts.Delete(ctx, anon, postID); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("delete: expected ErrNotAuthenticated, got %v", err)
	}

	feed, err := svc.Posts.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(feed) != 1 || feed[0].Title != "Hello" {
		t.Fatalf("storage changed: %+v", feed)
	}
}

func TestScenario_ConcurrentRegistration(t *testing.T) {
	svc := newSQLiteService(t)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Auth.RegisterAndLogin(context.Background(), "carol", "pw")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, models.ErrDuplicateUsername):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Fatalf("ok=%d dup=%d; want exactly one of each", ok, dup)
	}
}
