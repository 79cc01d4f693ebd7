// Package model defines domain entities for the application.
package model

import (
	"errors"
	"net/mail"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Validation limits for user fields.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 64
	MaxEmailLength    = 254
)

// Validation errors.
var (
	ErrUsernameTooShort = errors.New("username is too short")
	ErrUsernameTooLong  = errors.New("username exceeds maximum length")
	ErrUsernameInvalid  = errors.New("username contains invalid characters")
	ErrEmailInvalid     = errors.New("email address is invalid")
	ErrEmailTooLong     = errors.New("email address exceeds maximum length")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length")
)

// usernameRegex allows alphanumerics, underscore, hyphen and dot.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// User represents a registered account.
// PasswordHash holds the Argon2id PHC string, never the plaintext.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidateUsername checks length and character set.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// ValidateEmail checks the address parses as a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword checks length bounds on the plaintext password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
