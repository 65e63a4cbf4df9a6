package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for register and login. Accepts a form
// or a JSON body; emptiness is judged by the credential store.
type authCredentials struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

const feedPath = "/"

// bindOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// @Summary      Register
// @Description  Creates the account, attaches a session cookie and redirects to the login page.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        input  body  authCredentials  true  "username and password"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Auth.RegisterAndLogin(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.log.Infow("auth_register_failed", "username", input.Username, "err", err)
		h.respondError(c, err, "auth_register_error")
		return
	}

	h.cookies.SetSession(c, token)
	c.Redirect(http.StatusSeeOther, loginPath)
}

// @Summary      Login
// @Description  Attaches a session cookie and redirects to the feed.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        input  body  authCredentials  true  "username and password"
// @Success      303
// @Failure      401  {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_login_error")
		return
	}

	h.cookies.SetSession(c, token)
	c.Redirect(http.StatusSeeOther, feedPath)
}

// @Summary      Logout
// @Description  Revokes the current session and clears the cookie.
// @Tags         auth
// @Success      303
// @Router       /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := h.services.Auth.Logout(c.Request.Context(), identityFrom(c), token); err != nil {
			h.respondError(c, err, "auth_logout_error")
			return
		}
	}
	h.cookies.Clear(c)
	c.Redirect(http.StatusSeeOther, feedPath)
}
