package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/model"
	"github.com/gatehouse/gatehouse/internal/repository"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*model.User
	events []*model.AuthEvent

	// forced errors
	createErr error
	insertErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[uuid.UUID]*model.User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	for _, existing := range f.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return repository.ErrUsernameExists
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.findUser(func(u *model.User) bool { return u.Username == username })
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.findUser(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUserStore) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return f.findUser(func(u *model.User) bool {
		return u.Username == identifier || u.Email == identifier
	})
}

func (f *fakeUserStore) findUser(match func(*model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}

	for id, existing := range f.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) InsertAuthEvent(ctx context.Context, event *model.AuthEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}

	clone := *event
	f.events = append(f.events, &clone)
	return nil
}

func (f *fakeUserStore) ListAuthEventsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.AuthEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.AuthEvent
	// newest first
	for i := len(f.events) - 1; i >= 0; i-- {
		event := f.events[i]
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

func (f *fakeUserStore) eventTypes() []model.AuthEventType {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]model.AuthEventType, len(f.events))
	for i, event := range f.events {
		types[i] = event.EventType
	}
	return types
}

var errSessionMissing = errors.New("session not found")

// fakeSessionStore is an in-memory SessionStore for service tests.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*model.Session

	createErr error
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[uuid.UUID]*model.Session),
	}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, userID uuid.UUID, csrfToken string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:             uuid.New(),
		UserID:         userID,
		CSRFToken:      csrfToken,
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
		LastActivityAt: now,
	}
	f.sessions[session.ID] = session

	clone := *session
	return &clone, nil
}

func (f *fakeSessionStore) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[id]
	if !ok {
		return nil, errSessionMissing
	}
	clone := *session
	return &clone, nil
}

func (f *fakeSessionStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// discardLogger returns a logger that swallows everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
