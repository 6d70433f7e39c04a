package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage writes uploads under baseDir/<section>/ and serves them from
// urlPrefix, which the HTTP server must expose as a static file route.
type LocalStorage struct {
	baseDir   string
	urlPrefix string
}

func NewLocalStorage(baseDir, urlPrefix string) *LocalStorage {
	return &LocalStorage{
		baseDir:   baseDir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

func (s *LocalStorage) Save(_ context.Context, section, contentType string, content io.Reader) (string, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return "", err
	}
	buf, err := readCapped(content)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, section)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), buf, 0o644); err != nil {
		return "", fmt.Errorf("error writing upload: %w", err)
	}
	return s.urlPrefix + "/" + path.Join(section, name), nil
}

// Delete removes the file behind a URL previously returned by Save. URLs
// outside urlPrefix are ignored, so foreign links are never unlinked.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing upload: %w", err)
	}
	return nil
}
