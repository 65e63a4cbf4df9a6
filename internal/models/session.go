package models

import "time"

// Session is the server-side record of an issued session token. Digest is the
// keyed hash of the token id; the token itself is never stored.
type Session struct {
	Digest    string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
