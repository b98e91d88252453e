package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/nestboxd/internal/observability/metrics"
	"github.com/yourorg/nestboxd/internal/security/audit"
	"github.com/yourorg/nestboxd/internal/service"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the opaque session token
type LoginResponse struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
	Session  string `json:"session"`
}

// LoginHandler handles user authentication
type LoginHandler struct {
	auth     *service.AuthService
	auditLog *audit.Logger
	logger   *slog.Logger
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(auth *service.AuthService, auditLog *audit.Logger, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{auth: auth, auditLog: auditLog, logger: logger}
}

// ServeHTTP handles POST /login requests. A failed attempt revokes any
// live session for the username, so a bad re-authentication never leaves
// a stale token usable.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode login request", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, reasonBadRequest)
		return
	}

	user := h.auth.Login(r.Context(), req.Username, req.Password)
	if user == nil {
		if err := h.auth.RemoveSessionByUsername(r.Context(), req.Username); err != nil {
			h.logger.Error("failed to revoke session after failed login",
				slog.String("username", req.Username),
				slog.String("error", err.Error()),
			)
		}
		metrics.ObserveLogin("failure")
		h.auditLog.LogLogin(r.Context(), req.Username, "failed")
		writeError(w, http.StatusUnauthorized, reasonUnauthorized)
		return
	}

	token, err := h.auth.CreateSession(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to create session",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		metrics.ObserveLogin("error")
		writeError(w, http.StatusInternalServerError, reasonInternal)
		return
	}

	metrics.ObserveLogin("success")
	h.auditLog.LogLogin(r.Context(), req.Username, "succeeded")
	h.logger.Info("user logged in", slog.String("username", user.Username))

	writeJSON(w, http.StatusOK, LoginResponse{
		Username: user.Username,
		Success:  true,
		Session:  token,
	})
}
