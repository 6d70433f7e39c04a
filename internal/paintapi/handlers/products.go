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

const productsSection = "products"

type ProductsService interface {
	Create(ctx context.Context, product data.Product) (data.Product, error)
	Get(ctx context.Context, id int) (data.Product, error)
	List(ctx context.Context, filter data.ProductFilter) ([]data.Product, int, error)
	Update(ctx context.Context, id int, changes data.ProductChanges) (data.Product, error)
	Delete(ctx context.Context, id int) error
}

// ProductsHandler serves the admin product CRUD. Create and Update accept
// multipart forms so an image can ride along with the fields.
type ProductsHandler struct {
	service ProductsService
	images  media.Storage
	logger  *logging.ZapLogger
}

func NewProductsHandler(service ProductsService, images media.Storage, logger *logging.ZapLogger) *ProductsHandler {
	return &ProductsHandler{
		service: service,
		images:  images,
		logger:  logger,
	}
}

func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	product, err := productFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imageURL, err := saveUploadedImage(r, h.images, productsSection)
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
	if err := tryWriteResponseJSON(w, toProductResponse(created)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing product response", zap.Error(err))
	}
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toProductResponse(product)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing product response", zap.Error(err))
	}
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	filter := data.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Skip:     skip,
		Limit:    limit,
	}
	items, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toPage(items, total, skip, limit, toProductResponse)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing products page", zap.Error(err))
	}
}

func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed product id")
		return
	}
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	changes, err := productChangesFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var replacedImage *string
	imageURL, err := saveUploadedImage(r, h.images, productsSection)
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
	if err := tryWriteResponseJSON(w, toProductResponse(updated)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing product response", zap.Error(err))
	}
}

func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed product id")
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

func productFromForm(r *http.Request) (data.Product, error) {
	name, err := formRequired(r, "name")
	if err != nil {
		return data.Product{}, err
	}
	category, err := formRequired(r, "category")
	if err != nil {
		return data.Product{}, err
	}
	features, err := formFeatures(r)
	if err != nil {
		return data.Product{}, err
	}
	prices, err := formPrices(r)
	if err != nil {
		return data.Product{}, err
	}
	return data.Product{
		Name:        name,
		Category:    category,
		Description: r.FormValue("description"),
		Stock:       r.FormValue("stock"),
		Features:    features,
		Prices:      prices,
	}, nil
}

func productChangesFromForm(r *http.Request) (data.ProductChanges, error) {
	features, err := formFeatures(r)
	if err != nil {
		return data.ProductChanges{}, err
	}
	prices, err := formPrices(r)
	if err != nil {
		return data.ProductChanges{}, err
	}
	return data.ProductChanges{
		Name:        formString(r, "name"),
		Category:    formString(r, "category"),
		Description: formString(r, "description"),
		Stock:       formString(r, "stock"),
		Features:    features,
		Prices:      prices,
	}, nil
}
