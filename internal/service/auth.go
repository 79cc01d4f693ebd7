package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/metrics"
	"github.com/gatehouse/gatehouse/internal/model"
	"github.com/gatehouse/gatehouse/internal/repository"

	"github.com/google/uuid"
)

// AuthService handles registration, login, and logout.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions SessionStore, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Meta     RequestMeta
}

// Register creates a new user with a unique username and email.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := model.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := model.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique constraints are authoritative; no pre-check read, so
	// concurrent registrations cannot race past each other.
	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	s.metrics.IncRegistration()
	s.recordEvent(ctx, newAuthEvent(model.AuthEventRegister, &user.ID, user.Username, input.Meta))

	s.logger.Info("user_registered",
		"user_id", user.ID.String(),
		"username", user.Username,
	)

	return user, nil
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Identifier string // username or email
	Password   string
	Meta       RequestMeta
}

// Login authenticates a user and creates a new session.
// Failures are indistinguishable between unknown identifier and wrong
// password to prevent account enumeration.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*model.Session, *model.User, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLoginDuration(time.Since(start))
	}()

	user, err := s.users.GetUserByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.loginFailed(ctx, input)
			return nil, nil, ErrIncorrectCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !match {
		s.loginFailed(ctx, input)
		return nil, nil, ErrIncorrectCredentials
	}

	csrfToken, err := auth.GenerateCSRFToken()
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.CreateSession(ctx, user.ID, csrfToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.IncLoginSuccess()
	s.metrics.IncSessionCreated()
	s.recordEvent(ctx, newAuthEvent(model.AuthEventLogin, &user.ID, input.Identifier, input.Meta))

	s.logger.Info("user_logged_in",
		"user_id", user.ID.String(),
		"session_id", session.ID.String(),
	)

	return session, user, nil
}

// Logout deletes the session, invalidating the caller's cookie.
func (s *AuthService) Logout(ctx context.Context, session *model.Session, meta RequestMeta) error {
	if err := s.sessions.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.metrics.IncLogout()
	s.recordEvent(ctx, newAuthEvent(model.AuthEventLogout, &session.UserID, "", meta))

	s.logger.Info("user_logged_out",
		"user_id", session.UserID.String(),
		"session_id", session.ID.String(),
	)

	return nil
}

// UserFromSession resolves the user behind a session.
// A session pointing at a deleted user is destroyed and treated as
// unauthenticated.
func (s *AuthService) UserFromSession(ctx context.Context, session *model.Session) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.sessions.DeleteSession(ctx, session.ID)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

// loginFailed records metrics and the audit event for a failed login.
func (s *AuthService) loginFailed(ctx context.Context, input LoginInput) {
	s.metrics.IncLoginFailure()
	s.recordEvent(ctx, newAuthEvent(model.AuthEventLoginFailed, nil, input.Identifier, input.Meta))

	s.logger.Warn("login_failed", "identifier", input.Identifier)
}

// recordEvent persists an audit event. Failures are logged, never fatal -
// auditing must not block authentication.
func (s *AuthService) recordEvent(ctx context.Context, event *model.AuthEvent) {
	if err := s.users.InsertAuthEvent(ctx, event); err != nil {
		s.logger.Warn("failed to record auth event",
			"event_type", string(event.EventType),
			"error", err.Error(),
		)
	}
}
