package handlers

import (
	"net/http"
	"strings"

	"multiuser_blog/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	tokenKey    = "sessionToken"

	loginPath = "/auth/login"
)

// identityMiddleware resolves the session once per request. Handlers read the
// result through identityFrom and never look at the token again.
func (h *Handler) identityMiddleware(c *gin.Context) {
	token := h.tokenFromRequest(c)

	id := models.Anonymous
	if token != "" {
		resolved, err := h.services.Sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			h.log.Errorw("session_resolve_failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
			return
		}
		id = resolved
	}

	c.Set(identityKey, id)
	c.Set(tokenKey, token)
	c.Next()
}

// requireIdentity sends anonymous requesters to the login page.
func (h *Handler) requireIdentity(c *gin.Context) {
	if !identityFrom(c).Authenticated {
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
		return
	}
	c.Next()
}

// tokenFromRequest prefers the session cookie and falls back to a Bearer header.
func (h *Handler) tokenFromRequest(c *gin.Context) string {
	if token := h.cookies.Token(c); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func identityFrom(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Anonymous
}

func sessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
