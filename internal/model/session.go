package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side session record stored in Redis.
//
// The record lives under an idle TTL so inactivity expires it naturally.
// ExpiresAt is the absolute lifetime cap and is enforced on every read,
// since idle refreshes would otherwise keep a session alive forever.
type Session struct {
	ID             uuid.UUID `json:"session_id"`
	UserID         uuid.UUID `json:"user_id"`
	CSRFToken      string    `json:"csrf_token"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Expired reports whether the session passed its absolute lifetime.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
