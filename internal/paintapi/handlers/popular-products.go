package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/media"
	"paint-backend/pkg/logging"
)

const popularProductsSection = "popular-products"

type PopularProductsService interface {
	Create(ctx context.Context, product data.PopularProduct) (data.PopularProduct, error)
	Get(ctx context.Context, id int) (data.PopularProduct, error)
	List(ctx context.Context, skip, limit int) ([]data.PopularProduct, error)
	Update(ctx context.Context, id int, changes data.PopularProductChanges) (data.PopularProduct, error)
	Delete(ctx context.Context, id int) error
}

type PopularProductsHandler struct {
	service PopularProductsService
	images  media.Storage
	logger  *logging.ZapLogger
}

func NewPopularProductsHandler(service PopularProductsService, images media.Storage, logger *logging.ZapLogger) *PopularProductsHandler {
	return &PopularProductsHandler{
		service: service,
		images:  images,
		logger:  logger,
	}
}

func (h *PopularProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	product, err := popularProductFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imageURL, err := saveUploadedImage(r, h.images, popularProductsSection)
	switch {
	case err == nil:
		product.ImageURL = &imageURL
	case errors.Is(err, errNoFile):
	default:
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := tryWriteResponseJSON(w, toPopularProductResponse(created)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing popular product response", zap.Error(err))
	}
}

func (h *PopularProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed popular product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toPopularProductResponse(product)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing popular product response", zap.Error(err))
	}
}

func (h *PopularProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	items, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	out := make([]popularProductResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toPopularProductResponse(item))
	}
	if err := tryWriteResponseJSON(w, out); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing popular products response", zap.Error(err))
	}
}

func (h *PopularProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed popular product id")
		return
	}
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	changes, err := popularProductChangesFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var replacedImage *string
	imageURL, err := saveUploadedImage(r, h.images, popularProductsSection)
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
	if err := tryWriteResponseJSON(w, toPopularProductResponse(updated)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing popular product response", zap.Error(err))
	}
}

func (h *PopularProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed popular product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	deleteStoredImage(r.Context(), h.images, h.logger, product.ImageURL)
	w.WriteHeader(http.StatusNoContent)
}

func parseProductType(raw string) (data.ProductType, error) {
	switch data.ProductType(raw) {
	case data.InteriorProduct, data.ExteriorProduct, data.OtherProduct:
		return data.ProductType(raw), nil
	default:
		return "", fmt.Errorf("unknown product type %q", raw)
	}
}

func popularProductFromForm(r *http.Request) (data.PopularProduct, error) {
	name, err := formRequired(r, "name")
	if err != nil {
		return data.PopularProduct{}, err
	}
	rawType, err := formRequired(r, "type")
	if err != nil {
		return data.PopularProduct{}, err
	}
	productType, err := parseProductType(rawType)
	if err != nil {
		return data.PopularProduct{}, err
	}
	rating, err := formFloat(r, "rating")
	if err != nil {
		return data.PopularProduct{}, err
	}
	features, err := formFeatures(r)
	if err != nil {
		return data.PopularProduct{}, err
	}

	product := data.PopularProduct{
		Name:        name,
		Type:        productType,
		Description: r.FormValue("description"),
		Features:    features,
	}
	if rating != nil {
		product.Rating = *rating
	}
	return product, nil
}

func popularProductChangesFromForm(r *http.Request) (data.PopularProductChanges, error) {
	changes := data.PopularProductChanges{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
	}
	if rawType := formString(r, "type"); rawType != nil {
		productType, err := parseProductType(*rawType)
		if err != nil {
			return data.PopularProductChanges{}, err
		}
		changes.Type = &productType
	}
	rating, err := formFloat(r, "rating")
	if err != nil {
		return data.PopularProductChanges{}, err
	}
	changes.Rating = rating

	features, err := formFeatures(r)
	if err != nil {
		return data.PopularProductChanges{}, err
	}
	changes.Features = features
	return changes, nil
}
