// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/gatehouse/gatehouse/internal/model"
)

// Service errors.
var (
	ErrUsernameTaken        = errors.New("username already registered")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrIncorrectCredentials = errors.New("invalid username/email or password")
	ErrSessionExpired       = errors.New("session has expired")
)

// UserStore is the persistence interface the services depend on.
// *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	InsertAuthEvent(ctx context.Context, event *model.AuthEvent) error
	ListAuthEventsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.AuthEvent, error)
}

// SessionStore manages server-side session records.
// *cache.SessionStore satisfies it.
type SessionStore interface {
	CreateSession(ctx context.Context, userID uuid.UUID, csrfToken string) (*model.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// RequestMeta carries per-request context recorded in the audit trail.
type RequestMeta struct {
	IP        string
	RequestID string
}

// generateULID returns a new time-sortable event ID.
func generateULID() string {
	return ulid.Make().String()
}

// newAuthEvent builds an audit event for the given user and type.
func newAuthEvent(eventType model.AuthEventType, userID *uuid.UUID, identifier string, meta RequestMeta) *model.AuthEvent {
	return &model.AuthEvent{
		ID:         generateULID(),
		UserID:     userID,
		EventType:  eventType,
		Identifier: identifier,
		IP:         meta.IP,
		RequestID:  meta.RequestID,
		OccurredAt: time.Now().UTC(),
	}
}
