package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"multiuser_blog/internal/models"
)

type PostSQLite struct {
	db *sql.DB
}

func NewPostSQLite(db *sql.DB) *PostSQLite {
	return &PostSQLite{db: db}
}

var _ PostRepo = (*PostSQLite)(nil)

const (
	insertPostSQL = `INSERT INTO posts (author_id, title, body, created_at) VALUES (?, ?, ?, ?)`

	selectPostColumns = `SELECT p.id, p.author_id, u.username, p.title, p.body, p.created_at
		FROM posts p JOIN users u ON u.id = p.author_id`

	selectPostByIDSQL = selectPostColumns + ` WHERE p.id = ?`
	selectFeedSQL     = selectPostColumns + ` ORDER BY p.created_at DESC, p.id DESC`

	// Ownership is part of the predicate: the check and the write are one statement.
	updatePostSQL = `UPDATE posts SET title = ?, body = ? WHERE id = ? AND author_id = ?`
	deletePostSQL = `DELETE FROM posts WHERE id = ? AND author_id = ?`

	selectPostOwnerSQL = `SELECT author_id FROM posts WHERE id = ?`
)

// Create inserts a post owned by authorID and returns its id.
func (r *PostSQLite) Create(ctx context.Context, authorID int, title, body string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertPostSQL, authorID, title, body, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert post for user %d: %w", authorID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for post: %w", err)
	}
	return int(id), nil
}

// GetByID returns models.ErrNotFound when no post has the given id.
func (r *PostSQLite) GetByID(ctx context.Context, id int) (models.Post, error) {
	var p models.Post
	err := r.db.QueryRowContext(ctx, selectPostByIDSQL, id).
		Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Body, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
		}
		return models.Post{}, fmt.Errorf("select post %d: %w", id, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// ListAll returns every post, newest first.
func (r *PostSQLite) ListAll(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectFeedSQL)
	if err != nil {
		return nil, fmt.Errorf("select feed: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 32)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Body, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feed row: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed: %w", err)
	}
	return out, nil
}

// Update rewrites title and body of a post owned by authorID.
func (r *PostSQLite) Update(ctx context.Context, id, authorID int, title, body string) error {
	return r.mutateOwned(ctx, id, "update", updatePostSQL, title, body, id, authorID)
}

// Delete removes a post owned by authorID.
func (r *PostSQLite) Delete(ctx context.Context, id, authorID int) error {
	return r.mutateOwned(ctx, id, "delete", deletePostSQL, id, authorID)
}

// mutateOwned runs an ownership-scoped statement. When it touches no row the
// same transaction tells a missing post (ErrNotFound) from a foreign one
// (ErrNotOwner), so the answer cannot race with a concurrent write.
func (r *PostSQLite) mutateOwned(ctx context.Context, id int, op, query string, args ...any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s post %d: %w", op, id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s post %d: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s post %d rows affected: %w", op, id, err)
	}
	if n == 0 {
		return classifyMiss(ctx, tx, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s post %d: %w", op, id, err)
	}
	return nil
}

func classifyMiss(ctx context.Context, tx *sql.Tx, id int) error {
	var owner int
	err := tx.QueryRowContext(ctx, selectPostOwnerSQL, id).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("post %d: %w", id, models.ErrNotFound)
	case err != nil:
		return fmt.Errorf("select owner of post %d: %w", id, err)
	default:
		return fmt.Errorf("post %d: %w", id, models.ErrNotOwner)
	}
}
