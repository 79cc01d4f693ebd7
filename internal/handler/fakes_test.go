package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/middleware"
	"github.com/gatehouse/gatehouse/internal/model"
	"github.com/gatehouse/gatehouse/internal/repository"
	"github.com/gatehouse/gatehouse/internal/service"
)

// memUserStore is an in-memory service.UserStore for handler tests.
type memUserStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*model.User
	events []*model.AuthEvent
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*model.User)}
}

func (m *memUserStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return repository.ErrUsernameExists
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Username == username })
}

func (m *memUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *memUserStore) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return m.find(func(u *model.User) bool {
		return u.Username == identifier || u.Email == identifier
	})
}

func (m *memUserStore) find(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserStore) UpdateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, existing := range m.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) InsertAuthEvent(ctx context.Context, event *model.AuthEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *event
	m.events = append(m.events, &clone)
	return nil
}

func (m *memUserStore) ListAuthEventsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.AuthEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.AuthEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		event := m.events[i]
		if event.UserID != nil && *event.UserID == userID {
			clone := *event
			out = append(out, &clone)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

var errNoSuchSession = errors.New("session not found")

// memSessionStore is an in-memory service.SessionStore for handler tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*model.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[uuid.UUID]*model.Session)}
}

func (m *memSessionStore) CreateSession(ctx context.Context, userID uuid.UUID, csrfToken string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	session := &model.Session{
		ID:             uuid.New(),
		UserID:         userID,
		CSRFToken:      csrfToken,
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
		LastActivityAt: now,
	}
	m.sessions[session.ID] = session

	clone := *session
	return &clone, nil
}

func (m *memSessionStore) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, errNoSuchSession
	}
	clone := *session
	return &clone, nil
}

func (m *memSessionStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *memSessionStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// testEnv bundles the fakes and handlers behind one setup call.
type testEnv struct {
	users    *memUserStore
	sessions *memSessionStore
	authSvc  *service.AuthService
	auth     *AuthHandler
	user     *UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := newMemUserStore()
	sessions := newMemSessionStore()

	authSvc := service.NewAuthService(users, sessions, nil, logger)
	userSvc := service.NewUserService(users, logger)

	cookie := middleware.CookieConfig{
		Name:     "gatehouse_session",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   24 * time.Hour,
	}

	return &testEnv{
		users:    users,
		sessions: sessions,
		authSvc:  authSvc,
		auth:     NewAuthHandler(authSvc, cookie, logger),
		user:     NewUserHandler(userSvc, authSvc, cookie, logger),
	}
}
