package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/metrics"
)

// CSRFHeader is the request header carrying the double-submit token.
const CSRFHeader = "X-CSRF-Token"

// CSRFConfig holds configuration for the CSRF guard.
type CSRFConfig struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// CSRF returns a middleware enforcing the double-submit pattern: mutating
// requests must echo the session's CSRF token in the X-CSRF-Token header.
// Safe methods (GET, HEAD, OPTIONS) pass through. Must be applied after
// Session; unauthenticated requests pass through for RequireSession to
// reject.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			session := auth.SessionFromContext(r.Context())
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			received := r.Header.Get(CSRFHeader)
			if received == "" {
				recorder.IncCSRFRejected()
				cfg.Logger.Warn("csrf token missing",
					slog.String("user_id", session.UserID.String()),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusForbidden, "CSRF_TOKEN_MISMATCH", "CSRF token is missing.")
				return
			}

			if !auth.ValidateCSRFToken(session.CSRFToken, received) {
				recorder.IncCSRFRejected()
				cfg.Logger.Warn("csrf token mismatch",
					slog.String("user_id", session.UserID.String()),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusForbidden, "CSRF_TOKEN_MISMATCH", "CSRF token validation failed.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
