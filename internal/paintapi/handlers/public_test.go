package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/service"
	"paint-backend/pkg/logging"
)

type fakeCatalog struct {
	page       service.ProductPage
	gotFilter  data.ProductFilter
	info       data.ContactInfo
	newsPage   service.NewsEventPage
	newsFilter data.NewsEventFilter
}

func (f *fakeCatalog) Products(_ context.Context, filter data.ProductFilter) (service.ProductPage, error) {
	f.gotFilter = filter
	return f.page, nil
}

func (f *fakeCatalog) PopularProducts(_ context.Context, _, _ int) ([]data.PopularProduct, error) {
	return nil, nil
}

func (f *fakeCatalog) NewArrivals(_ context.Context, _, _ int) ([]data.NewArrival, error) {
	return nil, nil
}

func (f *fakeCatalog) NewsEvents(_ context.Context, filter data.NewsEventFilter) (service.NewsEventPage, error) {
	f.newsFilter = filter
	return f.newsPage, nil
}

func (f *fakeCatalog) ContactInfo(_ context.Context) (data.ContactInfo, error) {
	return f.info, nil
}

func TestPublicProducts(t *testing.T) {
	catalog := &fakeCatalog{page: service.ProductPage{
		Items: []data.Product{{
			ID:       1,
			Name:     "Matte White",
			Category: "interior",
			Prices:   map[string]decimal.Decimal{"1l": decimal.NewFromInt(25)},
		}},
		Total: 11,
	}}
	handler := NewPublicHandler(catalog, logging.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/products?skip=10&limit=5&category=interior&search=matte", nil)
	w := httptest.NewRecorder()
	handler.Products(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, data.ProductFilter{
		Category: "interior",
		Search:   "matte",
		Skip:     10,
		Limit:    5,
	}, catalog.gotFilter)

	var page pageResponse[productResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Matte White", page.Items[0].Name)
	assert.True(t, page.Items[0].Prices["1l"].Equal(decimal.NewFromInt(25)))
}

func TestPublicProductsPaginationBounds(t *testing.T) {
	catalog := &fakeCatalog{}
	handler := NewPublicHandler(catalog, logging.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/products?skip=-3&limit=9999", nil)
	w := httptest.NewRecorder()
	handler.Products(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, catalog.gotFilter.Skip)
	assert.Equal(t, maxPageLimit, catalog.gotFilter.Limit)
}

func TestPublicNewsEventsFilter(t *testing.T) {
	catalog := &fakeCatalog{}
	handler := NewPublicHandler(catalog, logging.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/news-events?type=event&highlighted=true", nil)
	w := httptest.NewRecorder()
	handler.NewsEvents(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, catalog.newsFilter.Type)
	assert.Equal(t, data.EventType, *catalog.newsFilter.Type)
	require.NotNil(t, catalog.newsFilter.Highlighted)
	assert.True(t, *catalog.newsFilter.Highlighted)
}

func TestPublicNewsEventsRejectsUnknownType(t *testing.T) {
	handler := NewPublicHandler(&fakeCatalog{}, logging.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/news-events?type=announcement", nil)
	w := httptest.NewRecorder()
	handler.NewsEvents(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicContactInfo(t *testing.T) {
	catalog := &fakeCatalog{info: data.ContactInfo{
		ID:      1,
		Email:   "contact@paints.example",
		Phone:   "+1 555 0000",
		Address: "1 Brush Lane",
	}}
	handler := NewPublicHandler(catalog, logging.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/api/contact-info", nil)
	w := httptest.NewRecorder()
	handler.ContactInfo(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp contactInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "contact@paints.example", resp.Email)
}
