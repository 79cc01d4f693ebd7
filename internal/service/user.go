package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/model"
	"github.com/gatehouse/gatehouse/internal/repository"
)

// UserService handles user profile business logic.
type UserService struct {
	users  UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Profile retrieves a user's profile by ID.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable profile fields.
// Nil fields are left unchanged; the username is immutable.
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Email    *string
	Password *string
}

// UpdateProfile updates the user's email and/or password.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	changed := false

	if input.Email != nil && *input.Email != user.Email {
		if err := model.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = *input.Email
		changed = true
	}

	if input.Password != nil {
		if err := model.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
		changed = true
	}

	if !changed {
		return user, nil
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	s.logger.Info("profile_updated", "user_id", user.ID.String())

	return user, nil
}

// DeleteAccount removes the user. Audit events keep their rows with the
// user reference nulled by the schema.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("account_deleted", "user_id", userID.String())

	return nil
}

// RecentEvents returns the user's latest auth events, newest first.
func (s *UserService) RecentEvents(ctx context.Context, userID uuid.UUID, limit int) ([]*model.AuthEvent, error) {
	events, err := s.users.ListAuthEventsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth events: %w", err)
	}
	return events, nil
}
