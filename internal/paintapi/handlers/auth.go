package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/middleware"
	"paint-backend/internal/paintapi/service"
	"paint-backend/pkg/logging"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, userID int, accessToken, refreshToken string)
}

type AuthHandler struct {
	service AuthService
	logger  *logging.ZapLogger
}

func NewAuthHandler(service AuthService, logger *logging.ZapLogger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login expects a form-encoded body with username and password fields.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	pair, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.logger.DebugCtx(r.Context(), "invalid credentials", zap.String("username", username))
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
		default:
			h.logger.ErrorCtx(r.Context(), "login handler error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if err := tryWriteResponseJSON(w, tokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	}); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing login response", zap.Error(err))
	}
}

// Refresh exchanges a valid refresh token for a new access token. The
// submitted refresh token stays valid and is echoed back so clients can
// replace their stored pair wholesale.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}
	refreshToken := r.PostFormValue("refresh_token")
	if refreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			h.logger.ErrorCtx(r.Context(), "refresh handler error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if err := tryWriteResponseJSON(w, tokenResponse{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: refreshToken,
	}); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing refresh response", zap.Error(err))
	}
}

// Logout revokes the session's access token plus an optional refresh token
// from the form body. Always answers 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	account, ok := middleware.AccountFromCtx(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	accessToken, _ := middleware.TokenFromCtx(r.Context())

	refreshToken := ""
	if err := r.ParseForm(); err == nil {
		refreshToken = r.PostFormValue("refresh_token")
	}

	h.service.Logout(r.Context(), account.ID, accessToken, refreshToken)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated admin.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromCtx(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err := tryWriteResponseJSON(w, toAdminResponse(account)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing me response", zap.Error(err))
	}
}
