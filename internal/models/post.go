package models

import "time"

// Post is a single entry of the public feed. AuthorID is fixed at creation.
type Post struct {
	ID        int       `json:"id"`
	AuthorID  int       `json:"author_id"`
	Author    string    `json:"author,omitempty"` // username, filled by feed queries
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed event types pushed to live subscribers.
const (
	FeedPostCreated = "post_created"
	FeedPostUpdated = "post_updated"
	FeedPostDeleted = "post_deleted"
)

// FeedEvent announces a committed change of the public feed.
type FeedEvent struct {
	Type   string `json:"type"`
	PostID int    `json:"post_id"`
	Post   *Post  `json:"post,omitempty"` // nil for deletions
}
