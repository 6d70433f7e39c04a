// Package media stores uploaded images either on local disk or in
// Cloudinary, behind a single Storage interface.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const MaxUploadSize = 5 << 20 // 5 MiB

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = fmt.Errorf("image exceeds %d bytes", MaxUploadSize)
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Storage persists an uploaded image and returns a URL the public site can
// serve. Delete is best-effort cleanup keyed by the URL Save returned.
type Storage interface {
	Save(ctx context.Context, section, contentType string, content io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// extensionFor validates the declared content type against the whitelist.
func extensionFor(contentType string) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return ext, nil
}

// readCapped drains the upload into memory, failing once it passes the
// size cap instead of buffering an unbounded body.
func readCapped(content io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(content, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	if len(buf) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	return buf, nil
}
