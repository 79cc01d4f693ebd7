package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/handler/dto"
	"github.com/gatehouse/gatehouse/internal/middleware"
	"github.com/gatehouse/gatehouse/internal/service"
)

// UserHandler handles HTTP requests for the authenticated user's profile.
type UserHandler struct {
	users   *service.UserService
	authSvc *service.AuthService
	cookie  middleware.CookieConfig
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, authSvc *service.AuthService, cookie middleware.CookieConfig, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		authSvc: authSvc,
		cookie:  cookie,
		logger:  logger,
	}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeAuthChallenge(w, "UNAUTHORIZED", "Not authenticated. Please log in.")
		return
	}

	// Resolves through the session so a stale session over a deleted
	// account is destroyed rather than answered.
	user, err := h.authSvc.UserFromSession(r.Context(), session)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.cookie.Clear(w)
			writeAuthChallenge(w, "UNAUTHORIZED", "Authenticated user record missing.")
			return
		}
		h.handleUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateMe handles PUT /api/users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeAuthChallenge(w, "UNAUTHORIZED", "Not authenticated. Please log in.")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateProfileInput{
		UserID:   session.UserID,
		Email:    req.Email,
		Password: req.Password,
	}

	user, err := h.users.UpdateProfile(r.Context(), input)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	h.logger.Info("profile_update_handled",
		"user_id", user.ID.String(),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// DeleteMe handles DELETE /api/users/me.
// Destroys the session before removing the account so the logout audit
// event still references a live user row.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeAuthChallenge(w, "UNAUTHORIZED", "Not authenticated. Please log in.")
		return
	}

	if err := h.authSvc.Logout(r.Context(), session, requestMeta(r)); err != nil {
		h.handleUserError(w, err)
		return
	}

	if err := h.users.DeleteAccount(r.Context(), session.UserID); err != nil {
		h.handleUserError(w, err)
		return
	}

	h.cookie.Clear(w)

	h.logger.Info("account_delete_handled",
		"user_id", session.UserID.String(),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Account deleted successfully!"})
}

// Events handles GET /api/users/me/events.
func (h *UserHandler) Events(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeAuthChallenge(w, "UNAUTHORIZED", "Not authenticated. Please log in.")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	events, err := h.users.RecentEvents(r.Context(), session.UserID, limit)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAuthEventListResponse(events))
}

// handleUserError maps service errors to HTTP responses.
func (h *UserHandler) handleUserError(w http.ResponseWriter, err error) {
	if validationError(w, err) {
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found.")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "USER_ALREADY_EXISTS", "Username or email already registered.")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
