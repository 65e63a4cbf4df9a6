package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // don’t expose hash
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the requester as resolved from its session. The zero value is
// the anonymous requester.
type Identity struct {
	UserID        int  `json:"user_id,omitempty"`
	Authenticated bool `json:"authenticated"`
}

// Anonymous is the identity of a request without a usable session.
var Anonymous = Identity{}

// AuthenticatedAs returns the identity of a request whose session resolved to userID.
func AuthenticatedAs(userID int) Identity {
	return Identity{UserID: userID, Authenticated: true}
}
