package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/handler/dto"
	"github.com/gatehouse/gatehouse/internal/middleware"
	"github.com/gatehouse/gatehouse/internal/service"
)

// AuthHandler handles HTTP requests for registration, login, and logout.
type AuthHandler struct {
	svc    *service.AuthService
	cookie middleware.CookieConfig
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookie middleware.CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Meta:     requestMeta(r),
	}

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.logger.Info("register_handled",
		"user_id", user.ID.String(),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "User registered successfully!"})
}

// Login handles POST /api/auth/login.
// On success the session ID is set as an HttpOnly cookie and the CSRF token
// is returned in the X-CSRF-Token response header.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.LoginInput{
		Identifier: req.UsernameOrEmail,
		Password:   req.Password,
		Meta:       requestMeta(r),
	}

	session, user, err := h.svc.Login(r.Context(), input)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.cookie.Set(w, session)
	w.Header().Set(middleware.CSRFHeader, session.CSRFToken)

	h.logger.Info("login_handled",
		"user_id", user.ID.String(),
		"session_id", session.ID.String(),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Login successful!"})
}

// Logout handles POST /api/auth/logout.
// Requires a valid session cookie and CSRF token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeAuthChallenge(w, "UNAUTHORIZED", "Not authenticated. Please log in.")
		return
	}

	if err := h.svc.Logout(r.Context(), session, requestMeta(r)); err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.cookie.Clear(w)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully!"})
}

// handleAuthError maps service errors to HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	if validationError(w, err) {
		return
	}

	switch {
	case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
		// Single code and message for both so responses don't reveal
		// which half of the pair is taken.
		writeError(w, http.StatusConflict, "USER_ALREADY_EXISTS", "Username or email already registered.")
	case errors.Is(err, service.ErrIncorrectCredentials):
		writeAuthChallenge(w, "INCORRECT_CREDENTIALS", "Invalid username/email or password.")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// requestMeta extracts audit metadata from the request.
func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IP:        middleware.ClientIP(r),
		RequestID: middleware.GetRequestID(r.Context()),
	}
}
