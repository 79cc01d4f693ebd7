package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gatehouse/gatehouse/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for session records.
const sessionKeyPrefix = "session:"

// Common session store errors.
var (
	// ErrSessionNotFound indicates the session does not exist or its idle
	// window lapsed (Redis TTL removed the key).
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates the session passed its absolute lifetime.
	ErrSessionExpired = errors.New("session expired")
)

// SessionStore manages server-side sessions in Redis.
//
// Each session lives under its idle timeout as the Redis TTL; reads refresh
// the TTL (sliding window) while the absolute lifetime is checked explicitly.
type SessionStore struct {
	cache           *Cache
	idleTimeout     time.Duration
	absoluteTimeout time.Duration
}

// NewSessionStore creates a SessionStore with the given timeouts.
func NewSessionStore(cache *Cache, idleTimeout, absoluteTimeout time.Duration) *SessionStore {
	return &SessionStore{
		cache:           cache,
		idleTimeout:     idleTimeout,
		absoluteTimeout: absoluteTimeout,
	}
}

// CreateSession creates a new session for the user and stores it in Redis.
func (s *SessionStore) CreateSession(ctx context.Context, userID uuid.UUID, csrfToken string) (*model.Session, error) {
	now := time.Now().UTC()

	session := &model.Session{
		ID:             uuid.New(),
		UserID:         userID,
		CSRFToken:      csrfToken,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.absoluteTimeout),
		LastActivityAt: now,
	}

	if err := s.put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// GetSession retrieves a session and refreshes its idle window.
// Returns ErrSessionNotFound for missing/idle-expired sessions and
// ErrSessionExpired once the absolute lifetime has passed (the record is
// deleted in that case).
func (s *SessionStore) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	data, err := s.cache.client.Get(ctx, sessionKeyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupted record - drop it and treat as missing
		_ = s.DeleteSession(ctx, id)
		return nil, ErrSessionNotFound
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		_ = s.DeleteSession(ctx, id)
		return nil, ErrSessionExpired
	}

	// Slide the idle window
	session.LastActivityAt = now
	if err := s.put(ctx, &session); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	return &session, nil
}

// DeleteSession removes a session from Redis.
func (s *SessionStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.client.Del(ctx, sessionKeyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// put writes the session record under the idle TTL, capped so the key never
// outlives the absolute expiry.
func (s *SessionStore) put(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := s.idleTimeout
	if remaining := time.Until(session.ExpiresAt); remaining < ttl {
		if remaining <= 0 {
			return ErrSessionExpired
		}
		ttl = remaining
	}

	return s.cache.client.SetEx(ctx, sessionKeyPrefix+session.ID.String(), data, ttl).Err()
}
