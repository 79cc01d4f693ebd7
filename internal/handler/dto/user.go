// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/gatehouse/gatehouse/internal/model"
)

// RegisterRequest represents the request body for registering a user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
// The identifier accepts either a username or an email address.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// UpdateProfileRequest represents the request body for updating a profile.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// MessageResponse is a generic response for simple confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standardized error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserResponse represents a user profile in API responses.
// The password hash is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthEventResponse represents an audit trail entry in API responses.
type AuthEventResponse struct {
	ID         string    `json:"id"`
	EventType  string    `json:"event_type"`
	IP         string    `json:"ip,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuthEventListResponse wraps a list of audit trail entries.
type AuthEventListResponse struct {
	Data []AuthEventResponse `json:"data"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToAuthEventListResponse converts audit events to their response form.
// The identifier and request ID stay internal.
func ToAuthEventListResponse(events []*model.AuthEvent) *AuthEventListResponse {
	responses := make([]AuthEventResponse, len(events))
	for i, event := range events {
		responses[i] = AuthEventResponse{
			ID:         event.ID,
			EventType:  string(event.EventType),
			IP:         event.IP,
			OccurredAt: event.OccurredAt,
		}
	}
	return &AuthEventListResponse{Data: responses}
}
