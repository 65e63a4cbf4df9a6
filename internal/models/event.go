package models

import "time"

// Audit event types.
const (
	EventRegister       = "REGISTER"
	EventLogin          = "LOGIN"
	EventLoginFailed    = "LOGIN_FAILED"
	EventLogout         = "LOGOUT"
	EventPostCreate     = "POST_CREATE"
	EventPostUpdate     = "POST_UPDATE"
	EventPostDelete     = "POST_DELETE"
	EventMutationDenied = "MUTATION_DENIED"
)

// Event is a single audit trail entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	UserID      *int      `json:"user_id,omitempty"` // nil when no user could be attributed
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
