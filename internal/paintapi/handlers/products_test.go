package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/service"
	"paint-backend/pkg/logging"
)

type fakeProductsService struct {
	created    data.Product
	gotProduct data.Product
	gotChanges data.ProductChanges
	updateErr  error
	deleteErr  error
}

func (f *fakeProductsService) Create(_ context.Context, product data.Product) (data.Product, error) {
	f.gotProduct = product
	f.created = product
	f.created.ID = 42
	return f.created, nil
}

func (f *fakeProductsService) Get(_ context.Context, id int) (data.Product, error) {
	if id != 42 {
		return data.Product{}, service.ErrNotFound
	}
	return f.created, nil
}

func (f *fakeProductsService) List(_ context.Context, _ data.ProductFilter) ([]data.Product, int, error) {
	return []data.Product{f.created}, 1, nil
}

func (f *fakeProductsService) Update(_ context.Context, _ int, changes data.ProductChanges) (data.Product, error) {
	f.gotChanges = changes
	if f.updateErr != nil {
		return data.Product{}, f.updateErr
	}
	return f.created, nil
}

func (f *fakeProductsService) Delete(_ context.Context, _ int) error {
	return f.deleteErr
}

type fakeImageStorage struct {
	savedSections []string
	deleted       []string
	url           string
	deleteErr     error
}

func (f *fakeImageStorage) Save(_ context.Context, section, _ string, content io.Reader) (string, error) {
	_, _ = io.ReadAll(content)
	f.savedSections = append(f.savedSections, section)
	return f.url, nil
}

func (f *fakeImageStorage) Delete(_ context.Context, url string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func multipartBody(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if imageName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+imageName+`"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestProductsHandlerCreate(t *testing.T) {
	svc := &fakeProductsService{}
	images := &fakeImageStorage{url: "/static/uploads/products/abc.png"}
	handler := NewProductsHandler(svc, images, logging.NewNop())

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Matte White",
		"category":    "interior",
		"description": "A calm matte finish",
		"stock":       "in_stock",
		"features":    `["washable","low odour"]`,
		"prices":      `{"1l":"25.50","4l":"89.90"}`,
	}, "matte.png")

	r := httptest.NewRequest(http.MethodPost, "/api/admin/products/", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"products"}, images.savedSections)

	assert.Equal(t, "Matte White", svc.gotProduct.Name)
	assert.Equal(t, []string{"washable", "low odour"}, svc.gotProduct.Features)
	require.NotNil(t, svc.gotProduct.ImageURL)
	assert.Equal(t, "/static/uploads/products/abc.png", *svc.gotProduct.ImageURL)
	assert.True(t, svc.gotProduct.Prices["1l"].Equal(decimal.RequireFromString("25.50")))

	var resp productResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.ID)
}

func TestProductsHandlerCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{
			name:   "missing name",
			fields: map[string]string{"category": "interior"},
		},
		{
			name: "unknown container size",
			fields: map[string]string{
				"name":     "Matte White",
				"category": "interior",
				"prices":   `{"3l":"10"}`,
			},
		},
		{
			name: "malformed features",
			fields: map[string]string{
				"name":     "Matte White",
				"category": "interior",
				"features": "washable",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewProductsHandler(&fakeProductsService{}, &fakeImageStorage{}, logging.NewNop())
			body, contentType := multipartBody(t, tt.fields, "")

			r := httptest.NewRequest(http.MethodPost, "/api/admin/products/", body)
			r.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			handler.Create(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestProductsHandlerUpdatePartial(t *testing.T) {
	svc := &fakeProductsService{}
	handler := NewProductsHandler(svc, &fakeImageStorage{}, logging.NewNop())

	body, contentType := multipartBody(t, map[string]string{"stock": "out_of_stock"}, "")
	r := httptest.NewRequest(http.MethodPut, "/api/admin/products/42", body)
	r.Header.Set("Content-Type", contentType)
	r = withURLParam(r, "id", "42")
	w := httptest.NewRecorder()
	handler.Update(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotChanges.Stock)
	assert.Equal(t, "out_of_stock", *svc.gotChanges.Stock)
	assert.Nil(t, svc.gotChanges.Name)
	assert.Nil(t, svc.gotChanges.ImageURL)
}

func TestProductsHandlerUpdateReplacesImage(t *testing.T) {
	oldURL := "/static/uploads/products/old.png"
	svc := &fakeProductsService{}
	svc.created = data.Product{ID: 42, Name: "Matte White", ImageURL: &oldURL}
	images := &fakeImageStorage{url: "/static/uploads/products/new.png"}
	handler := NewProductsHandler(svc, images, logging.NewNop())

	body, contentType := multipartBody(t, map[string]string{"name": "Matte White"}, "new.png")
	r := httptest.NewRequest(http.MethodPut, "/api/admin/products/42", body)
	r.Header.Set("Content-Type", contentType)
	r = withURLParam(r, "id", "42")
	w := httptest.NewRecorder()
	handler.Update(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotChanges.ImageURL)
	assert.Equal(t, "/static/uploads/products/new.png", *svc.gotChanges.ImageURL)
	assert.Equal(t, []string{oldURL}, images.deleted)
}

func TestProductsHandlerUpdateKeepsImageWithoutNewFile(t *testing.T) {
	oldURL := "/static/uploads/products/old.png"
	svc := &fakeProductsService{}
	svc.created = data.Product{ID: 42, Name: "Matte White", ImageURL: &oldURL}
	images := &fakeImageStorage{}
	handler := NewProductsHandler(svc, images, logging.NewNop())

	body, contentType := multipartBody(t, map[string]string{"stock": "out_of_stock"}, "")
	r := httptest.NewRequest(http.MethodPut, "/api/admin/products/42", body)
	r.Header.Set("Content-Type", contentType)
	r = withURLParam(r, "id", "42")
	w := httptest.NewRecorder()
	handler.Update(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.gotChanges.ImageURL)
	assert.Empty(t, images.deleted)
}

func TestProductsHandlerUpdateNotFound(t *testing.T) {
	svc := &fakeProductsService{updateErr: service.ErrNotFound}
	handler := NewProductsHandler(svc, &fakeImageStorage{}, logging.NewNop())

	body, contentType := multipartBody(t, map[string]string{"name": "Renamed"}, "")
	r := httptest.NewRequest(http.MethodPut, "/api/admin/products/7", body)
	r.Header.Set("Content-Type", contentType)
	r = withURLParam(r, "id", "7")
	w := httptest.NewRecorder()
	handler.Update(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsHandlerDelete(t *testing.T) {
	handler := NewProductsHandler(&fakeProductsService{}, &fakeImageStorage{}, logging.NewNop())

	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/products/42", nil), "id", "42")
	w := httptest.NewRecorder()
	handler.Delete(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProductsHandlerDeleteRemovesImage(t *testing.T) {
	oldURL := "/static/uploads/products/old.png"
	svc := &fakeProductsService{}
	svc.created = data.Product{ID: 42, Name: "Matte White", ImageURL: &oldURL}
	images := &fakeImageStorage{}
	handler := NewProductsHandler(svc, images, logging.NewNop())

	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/products/42", nil), "id", "42")
	w := httptest.NewRecorder()
	handler.Delete(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{oldURL}, images.deleted)
}

func TestProductsHandlerDeleteToleratesImageCleanupFailure(t *testing.T) {
	oldURL := "/static/uploads/products/old.png"
	svc := &fakeProductsService{}
	svc.created = data.Product{ID: 42, Name: "Matte White", ImageURL: &oldURL}
	images := &fakeImageStorage{deleteErr: errors.New("storage unreachable")}
	handler := NewProductsHandler(svc, images, logging.NewNop())

	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/admin/products/42", nil), "id", "42")
	w := httptest.NewRecorder()
	handler.Delete(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
