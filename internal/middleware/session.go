package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/cache"
	"github.com/gatehouse/gatehouse/internal/metrics"
	"github.com/gatehouse/gatehouse/internal/model"
)

// SessionLoader reads and invalidates session records.
// *cache.SessionStore satisfies it.
type SessionLoader interface {
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	// MaxAge should match the session's absolute lifetime.
	MaxAge time.Duration
}

// Set writes the session cookie for the given session.
// The cookie carries only the opaque session ID; it is always HttpOnly.
func (c CookieConfig) Set(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    session.ID.String(),
		Path:     "/",
		Domain:   c.Domain,
		Expires:  session.ExpiresAt,
		MaxAge:   int(c.MaxAge.Seconds()),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}

// Clear expires the session cookie in the client.
func (c CookieConfig) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   -1,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Sessions SessionLoader
	Cookie   CookieConfig
	Metrics  metrics.Recorder
}

// Session returns a middleware that loads the session referenced by the
// request cookie into the context. Reading the session also slides its idle
// window. Invalid, idle-expired, or absolutely-expired cookies are cleared
// on the response; the request continues unauthenticated so public routes
// keep working and RequireSession decides what to reject.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.Cookie.Name)
			if err != nil {
				// No cookie - unauthenticated request
				next.ServeHTTP(w, r)
				return
			}

			sessionID, err := uuid.Parse(cookie.Value)
			if err != nil {
				cfg.Logger.Warn("malformed session cookie",
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Cookie.Clear(w)
				next.ServeHTTP(w, r)
				return
			}

			session, err := cfg.Sessions.GetSession(r.Context(), sessionID)
			switch {
			case err == nil:
				ctx := auth.ContextWithSession(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
				return

			case errors.Is(err, cache.ErrSessionExpired):
				recorder.IncSessionExpired()
				cfg.Logger.Info("session expired",
					slog.String("session_id", sessionID.String()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				cfg.Cookie.Clear(w)
				ctx := auth.ContextWithExpiredSession(r.Context())
				next.ServeHTTP(w, r.WithContext(ctx))
				return

			case errors.Is(err, cache.ErrSessionNotFound):
				cfg.Cookie.Clear(w)
				next.ServeHTTP(w, r)
				return

			default:
				// Redis trouble - treat as unauthenticated but keep the
				// cookie so a transient outage doesn't log everyone out.
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}
		})
	}
}

// RequireSession returns a middleware that rejects unauthenticated requests.
// Must be applied after Session.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.SessionFromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			if auth.SessionExpiredFromContext(r.Context()) {
				writeAuthError(w, "SESSION_EXPIRED", "Session has expired. Please log in again.")
				return
			}

			writeAuthError(w, "UNAUTHORIZED", "Not authenticated. Please log in.")
		})
	}
}
