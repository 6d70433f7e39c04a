package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/media"
	"paint-backend/pkg/logging"
)

var errNoFile = errors.New("no file in form")

// formString returns nil when the field is absent, so optional update
// fields can distinguish "clear" from "leave as is".
func formString(r *http.Request, name string) *string {
	values, ok := r.Form[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formRequired(r *http.Request, name string) (string, error) {
	value := r.FormValue(name)
	if value == "" {
		return "", fmt.Errorf("missing required field %q", name)
	}
	return value, nil
}

func formFloat(r *http.Request, name string) (*float64, error) {
	raw := formString(r, name)
	if raw == nil {
		return nil, nil
	}
	value, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed field %q: %w", name, err)
	}
	return &value, nil
}

func formBool(r *http.Request, name string) (*bool, error) {
	raw := formString(r, name)
	if raw == nil {
		return nil, nil
	}
	value, err := strconv.ParseBool(*raw)
	if err != nil {
		return nil, fmt.Errorf("malformed field %q: %w", name, err)
	}
	return &value, nil
}

func formTime(r *http.Request, name string) (*time.Time, error) {
	raw := formString(r, name)
	if raw == nil {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if value, err := time.Parse(layout, *raw); err == nil {
			return &value, nil
		}
	}
	return nil, fmt.Errorf("malformed field %q: expected RFC 3339 or YYYY-MM-DD", name)
}

// formFeatures decodes the "features" field, a JSON array of strings.
func formFeatures(r *http.Request) ([]string, error) {
	raw := formString(r, "features")
	if raw == nil {
		return nil, nil
	}
	var features []string
	if err := json.Unmarshal([]byte(*raw), &features); err != nil {
		return nil, fmt.Errorf("malformed field %q: %w", "features", err)
	}
	return features, nil
}

// formPrices decodes the "prices" field, a JSON object keyed by container
// size. Unknown sizes are rejected.
func formPrices(r *http.Request) (map[string]decimal.Decimal, error) {
	raw := formString(r, "prices")
	if raw == nil {
		return nil, nil
	}
	var prices map[string]decimal.Decimal
	if err := json.Unmarshal([]byte(*raw), &prices); err != nil {
		return nil, fmt.Errorf("malformed field %q: %w", "prices", err)
	}
	for size := range prices {
		if !slices.Contains(data.PriceSizes, size) {
			return nil, fmt.Errorf("unknown container size %q", size)
		}
	}
	return prices, nil
}

// saveUploadedImage stores the "image" part of a multipart form and returns
// the public URL. errNoFile means the form had no image part.
func saveUploadedImage(r *http.Request, storage media.Storage, section string) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", errNoFile
		}
		return "", fmt.Errorf("error reading image part: %w", err)
	}
	defer func(file multipart.File) { _ = file.Close() }(file)

	return storage.Save(r.Context(), section, header.Header.Get("Content-Type"), file)
}

// deleteStoredImage removes an upload that no longer backs any row, after a
// replacement or an entity delete. Cleanup is best effort: failures are
// logged and do not fail the request.
func deleteStoredImage(ctx context.Context, storage media.Storage, logger *logging.ZapLogger, url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := storage.Delete(ctx, *url); err != nil {
		logger.WarnCtx(ctx, "failed to delete stored image", zap.String("url", *url), zap.Error(err))
	}
}
