package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/logging"
)

type NewsEventsService interface {
	Create(ctx context.Context, event data.NewsEvent) (data.NewsEvent, error)
	Get(ctx context.Context, id int) (data.NewsEvent, error)
	List(ctx context.Context, filter data.NewsEventFilter) ([]data.NewsEvent, int, error)
	Update(ctx context.Context, id int, changes data.NewsEventChanges) (data.NewsEvent, error)
	Delete(ctx context.Context, id int) error
}

// NewsEventsHandler serves the admin news/events CRUD. Entries carry no
// image, so the bodies are plain JSON.
type NewsEventsHandler struct {
	service NewsEventsService
	logger  *logging.ZapLogger
}

func NewNewsEventsHandler(service NewsEventsService, logger *logging.ZapLogger) *NewsEventsHandler {
	return &NewsEventsHandler{
		service: service,
		logger:  logger,
	}
}

type newsEventInput struct {
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Content     string     `json:"content"`
	Date        *time.Time `json:"date"`
	EndDate     *time.Time `json:"end_date"`
	Highlighted *bool      `json:"highlighted"`
}

func parseNewsEventType(raw string) (data.NewsEventType, error) {
	switch data.NewsEventType(raw) {
	case data.NewsType, data.EventType:
		return data.NewsEventType(raw), nil
	default:
		return "", fmt.Errorf("unknown entry type %q", raw)
	}
}

func (h *NewsEventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[newsEventInput](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if input.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	entryType, err := parseNewsEventType(input.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event := data.NewsEvent{
		Title:   input.Title,
		Type:    entryType,
		Content: input.Content,
		EndDate: input.EndDate,
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Highlighted != nil {
		event.Highlighted = *input.Highlighted
	}

	created, err := h.service.Create(r.Context(), event)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, toNewsEventResponse(created)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing news event response", zap.Error(err))
	}
}

func (h *NewsEventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed entry id")
		return
	}
	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toNewsEventResponse(event)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing news event response", zap.Error(err))
	}
}

func (h *NewsEventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := newsEventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toPage(items, total, filter.Skip, filter.Limit, toNewsEventResponse)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing news events page", zap.Error(err))
	}
}

func (h *NewsEventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed entry id")
		return
	}
	input, err := decodeJSON[newsEventInput](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	changes := data.NewsEventChanges{
		Date:        input.Date,
		EndDate:     input.EndDate,
		Highlighted: input.Highlighted,
	}
	if input.Title != "" {
		changes.Title = &input.Title
	}
	if input.Content != "" {
		changes.Content = &input.Content
	}
	if input.Type != "" {
		entryType, err := parseNewsEventType(input.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		changes.Type = &entryType
	}

	updated, err := h.service.Update(r.Context(), id, changes)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toNewsEventResponse(updated)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing news event response", zap.Error(err))
	}
}

func (h *NewsEventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed entry id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func newsEventFilterFromQuery(r *http.Request) (data.NewsEventFilter, error) {
	skip, limit := pagination(r)
	filter := data.NewsEventFilter{Skip: skip, Limit: limit}

	if raw := r.URL.Query().Get("type"); raw != "" {
		entryType, err := parseNewsEventType(raw)
		if err != nil {
			return data.NewsEventFilter{}, err
		}
		filter.Type = &entryType
	}
	if raw := r.URL.Query().Get("highlighted"); raw != "" {
		highlighted, err := strconv.ParseBool(raw)
		if err != nil {
			return data.NewsEventFilter{}, errors.New("malformed highlighted parameter")
		}
		filter.Highlighted = &highlighted
	}
	return filter, nil
}
