package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"multiuser_blog/internal/repository/db"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

// newSQLiteRepository opens a real database in a temp dir.
func newSQLiteRepository(t *testing.T) *Repository {
	t.Helper()

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn, nil)
}
