package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSession_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future expiry", now.Add(time.Hour), false},
		{"past expiry", now.Add(-time.Minute), true},
		{"exactly now", now, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &Session{
				ID:        uuid.New(),
				UserID:    uuid.New(),
				ExpiresAt: tt.expiresAt,
			}

			if got := s.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
