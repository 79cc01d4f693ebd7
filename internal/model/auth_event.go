package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthEventType classifies entries in the authentication audit trail.
type AuthEventType string

// Auth event types.
const (
	AuthEventRegister    AuthEventType = "register"
	AuthEventLogin       AuthEventType = "login"
	AuthEventLoginFailed AuthEventType = "login_failed"
	AuthEventLogout      AuthEventType = "logout"
)

// AuthEvent records a single authentication action for auditing.
// IDs are ULIDs so events sort chronologically by primary key.
type AuthEvent struct {
	ID         string        `json:"id"`
	UserID     *uuid.UUID    `json:"user_id,omitempty"`
	EventType  AuthEventType `json:"event_type"`
	Identifier string        `json:"identifier,omitempty"`
	IP         string        `json:"ip,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
