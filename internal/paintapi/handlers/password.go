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

type PasswordService interface {
	Reset(ctx context.Context, userID int, oldPassword, newPassword string) error
	EmergencyReset(ctx context.Context, adminUsername, newPassword, superadminKey string) error
}

type PasswordHandler struct {
	service PasswordService
	logger  *logging.ZapLogger
}

func NewPasswordHandler(service PasswordService, logger *logging.ZapLogger) *PasswordHandler {
	return &PasswordHandler{
		service: service,
		logger:  logger,
	}
}

type passwordResetInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	account, ok := middleware.AccountFromCtx(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	input, err := decodeJSON[passwordResetInput](r.Body)
	if err != nil || input.OldPassword == "" || input.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}

	if err := h.service.Reset(r.Context(), account.ID, input.OldPassword, input.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			writeError(w, http.StatusBadRequest, "incorrect current password")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		default:
			h.logger.ErrorCtx(r.Context(), "password reset handler error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type emergencyResetInput struct {
	Username      string `json:"username"`
	NewPassword   string `json:"new_password"`
	SuperadminKey string `json:"superadmin_key"`
}

// EmergencyReset is unauthenticated; the pre-shared key is the credential.
func (h *PasswordHandler) EmergencyReset(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[emergencyResetInput](r.Body)
	if err != nil || input.Username == "" || input.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "username and new_password are required")
		return
	}

	if err := h.service.EmergencyReset(r.Context(), input.Username, input.NewPassword, input.SuperadminKey); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSuperadminKey):
			h.logger.WarnCtx(r.Context(), "emergency reset with invalid key", zap.String("username", input.Username))
			writeError(w, http.StatusUnauthorized, "invalid superadmin key")
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		default:
			h.logger.ErrorCtx(r.Context(), "emergency reset handler error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
