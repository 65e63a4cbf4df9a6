package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"multiuser_blog/internal/models"
	"multiuser_blog/internal/repository"
)

// memUsers is an in-memory repository.UserRepo.
type memUsers struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int

	getErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, username, hash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return 0, models.ErrDuplicateUsername
	}
	m.nextID++
	m.byName[username] = &models.User{ID: m.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	return m.nextID, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// memSessions is an in-memory repository.SessionStore.
type memSessions struct {
	mu      sync.Mutex
	records map[string]models.Session

	lookupErr error
}

func newMemSessions() *memSessions {
	return &memSessions{records: map[string]models.Session{}}
}

func (m *memSessions) Create(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[s.Digest] = s
	return nil
}

func (m *memSessions) Lookup(_ context.Context, digest string, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return 0, m.lookupErr
	}
	s, ok := m.records[digest]
	if !ok || s.RevokedAt != nil || !now.Before(s.ExpiresAt) {
		return 0, models.ErrNotFound
	}
	return s.UserID, nil
}

func (m *memSessions) Revoke(_ context.Context, digest string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.records[digest]; ok && s.RevokedAt == nil {
		s.RevokedAt = &now
		m.records[digest] = s
	}
	return nil
}

// memPosts is an in-memory repository.PostRepo with the same ownership
// semantics as the SQLite one.
type memPosts struct {
	mu     sync.Mutex
	posts  map[int]models.Post
	nextID int

	writes int
}

func newMemPosts() *memPosts {
	return &memPosts{posts: map[int]models.Post{}}
}

func (m *memPosts) Create(_ context.Context, authorID int, title, body string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.writes++
	m.posts[m.nextID] = models.Post{
		ID: m.nextID, AuthorID: authorID, Title: title, Body: body,
		CreatedAt: time.Unix(int64(m.nextID), 0).UTC(),
	}
	return m.nextID, nil
}

func (m *memPosts) GetByID(_ context.Context, id int) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.Post{}, models.ErrNotFound
	}
	return p, nil
}

func (m *memPosts) ListAll(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memPosts) Update(_ context.Context, id, authorID int, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.ErrNotFound
	}
	if p.AuthorID != authorID {
		return models.ErrNotOwner
	}
	m.writes++
	p.Title, p.Body = title, body
	m.posts[id] = p
	return nil
}

func (m *memPosts) Delete(_ context.Context, id, authorID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return models.ErrNotFound
	}
	if p.AuthorID != authorID {
		return models.ErrNotOwner
	}
	m.writes++
	delete(m.posts, id)
	return nil
}

// memEvents records appended events.
type memEvents struct {
	mu     sync.Mutex
	events []models.Event

	appendErr error
	gotFilter repository.EventFilter
	calls     int
}

func (m *memEvents) Append(_ context.Context, e models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memEvents) List(_ context.Context, f repository.EventFilter) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotFilter = f
	return m.events, nil
}

func (m *memEvents) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// recordingFeed captures published feed events.
type recordingFeed struct {
	mu     sync.Mutex
	events []models.FeedEvent
}

func (r *recordingFeed) Publish(e models.FeedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

var errStorage = errors.New("storage unavailable")
