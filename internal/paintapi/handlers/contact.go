package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/logging"
)

type ContactService interface {
	Submit(ctx context.Context, submission data.ContactSubmission) (data.ContactSubmission, error)
	ListSubmissions(ctx context.Context, skip, limit int) ([]data.ContactSubmission, error)
	MarkRead(ctx context.Context, id int, read bool) error
	DeleteSubmission(ctx context.Context, id int) error
	Info(ctx context.Context) (data.ContactInfo, error)
	UpdateInfo(ctx context.Context, info data.ContactInfo) (data.ContactInfo, error)
}

type ContactHandler struct {
	service ContactService
	logger  *logging.ZapLogger
}

func NewContactHandler(service ContactService, logger *logging.ZapLogger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger,
	}
}

type contactSubmissionInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Submit takes a public contact form submission.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[contactSubmissionInput](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if input.FullName == "" || input.Message == "" || !strings.Contains(input.Email, "@") {
		writeError(w, http.StatusBadRequest, "full_name, email and message are required")
		return
	}

	created, err := h.service.Submit(r.Context(), data.ContactSubmission{
		FullName: input.FullName,
		Email:    input.Email,
		Message:  input.Message,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, toContactSubmissionResponse(created)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing submission response", zap.Error(err))
	}
}

func (h *ContactHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	items, err := h.service.ListSubmissions(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	out := make([]contactSubmissionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toContactSubmissionResponse(item))
	}
	if err := tryWriteResponseJSON(w, out); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing submissions response", zap.Error(err))
	}
}

type markReadInput struct {
	Read bool `json:"read"`
}

func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed submission id")
		return
	}
	input, err := decodeJSON[markReadInput](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := h.service.MarkRead(r.Context(), id, input.Read); err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed submission id")
		return
	}
	if err := h.service.DeleteSubmission(r.Context(), id); err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toContactInfoResponse(info)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing contact info response", zap.Error(err))
	}
}

type contactInfoInput struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *ContactHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[contactInfoInput](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	updated, err := h.service.UpdateInfo(r.Context(), data.ContactInfo{
		ID:      1,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toContactInfoResponse(updated)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing contact info response", zap.Error(err))
	}
}
