package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultSessionCookie = "session"

type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// CookieHelper manages the session cookie.
type CookieHelper struct {
	config CookieConfig
}

func NewCookieHelper(config CookieConfig) *CookieHelper {
	if config.Name == "" {
		config.Name = defaultSessionCookie
	}
	return &CookieHelper{config: config}
}

// SetSession attaches token to the response.
func (h *CookieHelper) SetSession(c *gin.Context, token string) {
	h.setCookie(c, token, int(h.config.MaxAge.Seconds()))
}

// Clear instructs the client to drop the session cookie.
func (h *CookieHelper) Clear(c *gin.Context) {
	h.setCookie(c, "", -1)
}

// Token retrieves the session token from the cookie.
func (h *CookieHelper) Token(c *gin.Context) string {
	token, err := c.Cookie(h.config.Name)
	if err != nil {
		return ""
	}
	return token
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.config.Name,
		value,
		maxAge,
		"/",
		"",
		h.config.Secure,
		true, // httpOnly - always true for session cookies
	)
}
