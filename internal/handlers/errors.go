package handlers

import (
	"errors"
	"net/http"

	"multiuser_blog/internal/models"

	"github.com/gin-gonic/gin"
)

const errInternal = "internal server error"

// errorStatuses maps domain errors to responses. The sentinel text is what
// the requester sees, never the wrapped detail.
var errorStatuses = []struct {
	err    error
	status int
}{
	{models.ErrEmptyField, http.StatusBadRequest},
	{models.ErrEmptyTitle, http.StatusBadRequest},
	{models.ErrPasswordTooLong, http.StatusBadRequest},
	{models.ErrInvalidTimeRange, http.StatusBadRequest},
	{models.ErrDuplicateUsername, http.StatusConflict},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
	{models.ErrNotOwner, http.StatusForbidden},
	{models.ErrNotFound, http.StatusNotFound},
}

// statusFor returns the HTTP status and public message for err.
func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, errInternal
}

// respondError writes err. ErrNotAuthenticated becomes a redirect to login;
// unexpected errors are logged under logKey.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	if errors.Is(err, models.ErrNotAuthenticated) {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(status, gin.H{"error": msg})
}
