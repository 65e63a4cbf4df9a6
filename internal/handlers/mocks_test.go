package handlers

import (
	"context"
	"net/http"

	"multiuser_blog/internal/feed"
	"multiuser_blog/internal/models"
	"multiuser_blog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerToken string
	registerErr   error
	loginToken    string
	loginErr      error
	logoutErr     error

	lastUsername    string
	lastPassword    string
	lastLogoutToken string
	lastLogoutID    models.Identity
	logoutCalls     int
}

func (m *mockAuth) RegisterAndLogin(_ context.Context, username, password string) (string, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.registerToken, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) Logout(_ context.Context, id models.Identity, token string) error {
	m.logoutCalls++
	m.lastLogoutID, m.lastLogoutToken = id, token
	return m.logoutErr
}

// mockSessions resolves tokens from a fixed table.
type mockSessions struct {
	tokens     map[string]int
	resolveErr error

	resolveCalls int
}

func (m *mockSessions) Start(context.Context, int) (string, error) { return "", nil }
func (m *mockSessions) End(context.Context, string) error          { return nil }

func (m *mockSessions) Resolve(_ context.Context, token string) (models.Identity, error) {
	m.resolveCalls++
	if m.resolveErr != nil {
		return models.Anonymous, m.resolveErr
	}
	if uid, ok := m.tokens[token]; ok {
		return models.AuthenticatedAs(uid), nil
	}
	return models.Anonymous, nil
}

type mockUsers struct {
	user models.User
	err  error
}

func (m *mockUsers) Register(context.Context, string, string) (int, error) { return 0, nil }
func (m *mockUsers) Verify(context.Context, string, string) (int, error)   { return 0, nil }
func (m *mockUsers) Lookup(_ context.Context, id int) (models.User, error) {
	if m.err != nil {
		return models.User{}, m.err
	}
	u := m.user
	u.ID = id
	return u, nil
}

type mockPosts struct {
	posts  []models.Post
	post   models.Post
	id     int
	err    error
	called int

	lastID     models.Identity
	lastPostID int
	lastTitle  string
	lastBody   string
}

func (m *mockPosts) Create(_ context.Context, id models.Identity, title, body string) (int, error) {
	m.called++
	m.lastID, m.lastTitle, m.lastBody = id, title, body
	return m.id, m.err
}

func (m *mockPosts) Get(_ context.Context, postID int) (models.Post, error) {
	m.lastPostID = postID
	return m.post, m.err
}

func (m *mockPosts) List(context.Context) ([]models.Post, error) {
	return m.posts, m.err
}

func (m *mockPosts) Update(_ context.Context, id models.Identity, postID int, title, body string) (models.Post, error) {
	m.called++
	m.lastID, m.lastPostID, m.lastTitle, m.lastBody = id, postID, title, body
	return m.post, m.err
}

func (m *mockPosts) Delete(_ context.Context, id models.Identity, postID int) error {
	m.called++
	m.lastID, m.lastPostID = id, postID
	return m.err
}

type mockEventLog struct {
	resp   []models.Event
	err    error
	lastID models.Identity
	lastF  service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, id models.Identity, f service.LogFilter) ([]models.Event, error) {
	m.lastID, m.lastF = id, f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

// newTestServices returns a Service whose sessions know alice (1) and bob (2).
func newTestServices() (*service.Service, *mockSessions) {
	sessions := &mockSessions{tokens: map[string]int{aliceToken: 1, bobToken: 2}}
	return &service.Service{
		Auth:     &mockAuth{},
		Sessions: sessions,
		Users:    &mockUsers{},
		Posts:    &mockPosts{},
		EventLog: &mockEventLog{},
	}, sessions
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWithFeed(s, feed.NewHub(feed.DefaultBuffer))
}

func newTestRouterWithFeed(s *service.Service, hub *feed.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, hub, NewCookieHelper(CookieConfig{Name: "session"}), nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
