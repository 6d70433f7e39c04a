package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir, "/static/uploads")

	url, err := storage.Save(context.Background(), "products", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/uploads/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "/static/uploads/")
	saved, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(saved))

	require.NoError(t, storage.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsBadUploads(t *testing.T) {
	storage := NewLocalStorage(t.TempDir(), "/static/uploads")

	tests := []struct {
		name        string
		contentType string
		content     string
		wantErr     error
	}{
		{
			name:        "unsupported type",
			contentType: "application/pdf",
			content:     "not an image",
			wantErr:     ErrUnsupportedType,
		},
		{
			name:        "oversized upload",
			contentType: "image/jpeg",
			content:     strings.Repeat("x", MaxUploadSize+1),
			wantErr:     ErrTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.Save(context.Background(), "products", tt.contentType, strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLocalStorageDeleteIgnoresForeignURLs(t *testing.T) {
	storage := NewLocalStorage(t.TempDir(), "/static/uploads")

	assert.NoError(t, storage.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/v1/x.png"))
	assert.NoError(t, storage.Delete(context.Background(), "/static/uploads/../../etc/passwd"))
}

func TestCloudinaryPublicIDFromURL(t *testing.T) {
	storage := NewCloudinaryStorage(CloudinaryConfig{CloudName: "demo", Folder: "paint-website"}, nil)

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "versioned delivery url",
			url:    "https://res.cloudinary.com/demo/image/upload/v1712345/paint-website/products/abc.png",
			wantID: "paint-website/products/abc",
			wantOK: true,
		},
		{
			name:   "unversioned url",
			url:    "https://res.cloudinary.com/demo/image/upload/paint-website/products/abc.jpg",
			wantID: "paint-website/products/abc",
			wantOK: true,
		},
		{
			name:   "foreign cloud",
			url:    "https://res.cloudinary.com/other/image/upload/v1/x.png",
			wantOK: false,
		},
		{
			name:   "local upload",
			url:    "/static/uploads/products/abc.png",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := storage.publicIDFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestCloudinarySignature(t *testing.T) {
	storage := NewCloudinaryStorage(CloudinaryConfig{CloudName: "demo", APISecret: "abcd"}, nil)

	got := storage.sign(map[string]string{
		"timestamp": "1315060510",
		"public_id": "sample",
	})
	sum := sha1.Sum([]byte("public_id=sample&timestamp=1315060510abcd"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}
