package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/service"
	"paint-backend/pkg/logging"
)

type CatalogService interface {
	Products(ctx context.Context, filter data.ProductFilter) (service.ProductPage, error)
	PopularProducts(ctx context.Context, skip, limit int) ([]data.PopularProduct, error)
	NewArrivals(ctx context.Context, skip, limit int) ([]data.NewArrival, error)
	NewsEvents(ctx context.Context, filter data.NewsEventFilter) (service.NewsEventPage, error)
	ContactInfo(ctx context.Context) (data.ContactInfo, error)
}

// PublicHandler serves the unauthenticated site endpoints.
type PublicHandler struct {
	catalog CatalogService
	logger  *logging.ZapLogger
}

func NewPublicHandler(catalog CatalogService, logger *logging.ZapLogger) *PublicHandler {
	return &PublicHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *PublicHandler) Products(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	page, err := h.catalog.Products(r.Context(), data.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toPage(page.Items, page.Total, skip, limit, toProductResponse)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing products page", zap.Error(err))
	}
}

func (h *PublicHandler) PopularProducts(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	items, err := h.catalog.PopularProducts(r.Context(), skip, limit)
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

func (h *PublicHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	items, err := h.catalog.NewArrivals(r.Context(), skip, limit)
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

func (h *PublicHandler) NewsEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := newsEventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.catalog.NewsEvents(r.Context(), filter)
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toPage(page.Items, page.Total, filter.Skip, filter.Limit, toNewsEventResponse)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing news events page", zap.Error(err))
	}
}

func (h *PublicHandler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.ContactInfo(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err, h.logger)
		return
	}
	if err := tryWriteResponseJSON(w, toContactInfoResponse(info)); err != nil {
		h.logger.ErrorCtx(r.Context(), "error writing contact info response", zap.Error(err))
	}
}
