package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/model"
)

// InsertAuthEvent records an authentication audit event.
// Inserts are idempotent on the event ID so retries cannot duplicate rows.
func (r *Repository) InsertAuthEvent(ctx context.Context, event *model.AuthEvent) error {
	query := `
		INSERT INTO auth_events (id, user_id, event_type, identifier, ip, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.EventType,
		nullableString(event.Identifier),
		nullableString(event.IP),
		nullableString(event.RequestID),
		event.OccurredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert auth event: %w", err)
	}

	return nil
}

// ListAuthEventsByUser returns the most recent auth events for a user,
// newest first. ULID primary keys sort chronologically.
func (r *Repository) ListAuthEventsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.AuthEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, user_id, event_type, identifier, ip, request_id, occurred_at
		FROM auth_events
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth events: %w", err)
	}
	defer rows.Close()

	var events []*model.AuthEvent
	for rows.Next() {
		var event model.AuthEvent
		var identifier, ip, requestID *string

		err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.EventType,
			&identifier,
			&ip,
			&requestID,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auth event: %w", err)
		}

		event.Identifier = derefString(identifier)
		event.IP = derefString(ip)
		event.RequestID = derefString(requestID)

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auth events: %w", err)
	}

	return events, nil
}

// nullableString converts an empty string to nil for nullable columns.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
