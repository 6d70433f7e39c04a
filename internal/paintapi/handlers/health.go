package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"paint-backend/pkg/logging"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	checker HealthChecker
	logger  *logging.ZapLogger
}

func NewHealthHandler(checker HealthChecker, logger *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.HealthCheck(r.Context()); err != nil {
		h.logger.ErrorCtx(r.Context(), "health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	_ = tryWriteResponseJSON(w, map[string]string{"status": "ok"})
}
