package service

import (
	"context"

	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"
)

// auditor appends audit events. Failures are logged, never returned: the
// trail must not decide whether a user action succeeds.
type auditor struct {
	events repository.EventRepo
	log    *logger.Logger
}

func (a auditor) record(ctx context.Context, userID int, typ, description string, meta any) {
	if a.events == nil {
		return
	}
	e := models.Event{Type: typ, Description: description, Metadata: meta}
	if userID > 0 {
		e.UserID = &userID
	}
	if err := a.events.Append(ctx, e); err != nil {
		a.log.Warnw("audit_append_failed", "type", typ, "error", err)
	}
}
