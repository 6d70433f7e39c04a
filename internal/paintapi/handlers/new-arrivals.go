package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/media"
	"paint-backend/pkg/logging"
)

const newArrivalsSection = "new-arrivals"

type NewArrivalsService interface {
	Create(ctx context.Context, arrival data.NewArrival) (data.NewArrival, error)
	Get(ctx context.Context, id int) (data.NewArrival, error)
	List(ctx context.Context, skip, limit int) ([]data.NewArrival, error)
	Update(ctx context.Context, id int, changes data.NewArrivalChanges) (data.NewArrival, error)
	Delete(ctx context.Context, id int) error
}

type NewArrivalsHandler struct {
	service NewArrivalsService
	images  media.Storage
	logger  *logging.ZapLogger
}

func NewNewArrivalsHandler(service NewArrivalsService, images media.Storage, logger *logging.ZapLogger) *NewArrivalsHandler {
	return &NewArrivalsHandler{
		service: service,
		images:  images,
		logger:  logger,
	}
}

func (h *NewArrivalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	name, err := formRequired(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	releaseDate, err := formTime(r, "release_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	arrival := data.NewArrival{
		Name:        name,
		Description: r.FormValue("description"),
	}
	if releaseDate != nil {
		arrival.ReleaseDate = *releaseDate
	}

	imageURL, err := saveUploadedImage(r, h.images, newArrivalsSection)
	switch {
	case err == nil:
		arrival.ImageURL = &imageURL
	case errors.Is(err, errNoFile):
	default:
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), arrival)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, toNewArrivalResponse(created)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing new arrival response", zap.Error(err))
	}
}

func (h *NewArrivalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed new arrival id")
		return
	}
	arrival, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toNewArrivalResponse(arrival)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing new arrival response", zap.Error(err))
	}
}

func (h *NewArrivalsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	items, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	out := make([]newArrivalResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toNewArrivalResponse(item))
	}
	if err := tryWriteResponseJSON(w, out); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing new arrivals response", zap.Error(err))
	}
}

func (h *NewArrivalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed new arrival id")
		return
	}
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	releaseDate, err := formTime(r, "release_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	changes := data.NewArrivalChanges{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
		ReleaseDate: releaseDate,
	}

	var replacedImage *string
	imageURL, err := saveUploadedImage(r, h.images, newArrivalsSection)
	switch {
	case err == nil:
		previous, err := h.service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(r.Context(), w, err, h.logger)
			return
		}
		replacedImage = previous.ImageURL
		changes.ImageURL = &imageURL
	case errors.Is(err, errNoFile):
	default:
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, changes)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	deleteStoredImage(r.Context(), h.images, h.logger, replacedImage)
	if err := tryWriteResponseJSON(w, toNewArrivalResponse(updated)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing new arrival response", zap.Error(err))
	}
}

func (h *NewArrivalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed new arrival id")
		return
	}
	arrival, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	deleteStoredImage(r.Context(), h.images, h.logger, arrival.ImageURL)
	w.WriteHeader(http.StatusNoContent)
}
