package handlers

import (
	"net/http"

	_ "multiuser_blog/docs"
	"multiuser_blog/internal/feed"
	"multiuser_blog/internal/logger"
	"multiuser_blog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// FeedSource hands out live feed subscriptions.
type FeedSource interface {
	Subscribe() *feed.Subscription
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	feed     FeedSource
	cookies  *CookieHelper
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, source FeedSource, cookies *CookieHelper, log *logger.Logger) *Handler {
	if source == nil {
		source = feed.NewHub(feed.DefaultBuffer)
	}
	if cookies == nil {
		cookies = NewCookieHelper(CookieConfig{})
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, feed: source, cookies: cookies, log: log}
}

// route is one entry of the dispatch table. Protected routes run
// requireIdentity before the handler.
type route struct {
	method    string
	path      string
	protected bool
	handle    gin.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodGet, "/health", false, h.health},

		{http.MethodPost, "/auth/register", false, h.register},
		{http.MethodPost, "/auth/login", false, h.login},
		{http.MethodPost, "/auth/logout", false, h.logout},

		{http.MethodGet, "/", false, h.listPosts},
		{http.MethodGet, "/posts", false, h.listPosts},
		{http.MethodGet, "/posts/:id", false, h.getPost},
		{http.MethodPost, "/posts", true, h.createPost},
		{http.MethodPut, "/posts/:id", true, h.updatePost},
		{http.MethodPost, "/posts/:id/update", true, h.updatePost},
		{http.MethodDelete, "/posts/:id", true, h.deletePost},
		{http.MethodPost, "/posts/:id/delete", true, h.deletePost},

		{http.MethodGet, "/api/v1/me", true, h.getMe},
		{http.MethodGet, "/api/v1/me/events", true, h.getMyEvents},

		{http.MethodGet, "/ws/feed", false, h.wsFeed},
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(h.log))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Every other route sees the identity resolved once here.
	app := router.Group("/", h.identityMiddleware)
	for _, rt := range h.routes() {
		chain := make([]gin.HandlerFunc, 0, 2)
		if rt.protected {
			chain = append(chain, h.requireIdentity)
		}
		app.Handle(rt.method, rt.path, append(chain, rt.handle)...)
	}

	return router
}

const statusOK = "ok"

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
