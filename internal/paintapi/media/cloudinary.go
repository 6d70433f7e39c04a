package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paint-backend/pkg/logging"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	// Folder is prepended to every public id, e.g. "paint-website".
	Folder string
}

// CloudinaryStorage uploads images through the Cloudinary REST API using
// signed requests.
type CloudinaryStorage struct {
	cfg    CloudinaryConfig
	client *resty.Client
	logger *logging.ZapLogger
	now    func() time.Time
}

func NewCloudinaryStorage(cfg CloudinaryConfig, logger *logging.ZapLogger) *CloudinaryStorage {
	return &CloudinaryStorage{
		cfg:    cfg,
		client: resty.New().SetBaseURL("https://api.cloudinary.com/v1_1/" + cfg.CloudName),
		logger: logger,
		now:    time.Now,
	}
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

func (s *CloudinaryStorage) Save(ctx context.Context, section, contentType string, content io.Reader) (string, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return "", err
	}
	buf, err := readCapped(content)
	if err != nil {
		return "", err
	}

	publicID := path.Join(s.cfg.Folder, section, uuid.NewString())
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", "upload"+ext, bytes.NewReader(buf)).
		SetFormData(map[string]string{
			"api_key":   s.cfg.APIKey,
			"public_id": publicID,
			"timestamp": timestamp,
			"signature": s.sign(params),
		}).
		Post("/image/upload")
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("unexpected status code %v from upload", resp.StatusCode())
	}

	var uploaded cloudinaryUploadResponse
	if err := json.Unmarshal(resp.Body(), &uploaded); err != nil {
		s.logger.ErrorCtx(ctx, "Error unmarshalling upload response", zap.Error(err))
		return "", fmt.Errorf("error unmarshalling upload response: %w", err)
	}
	return uploaded.SecureURL, nil
}

// Delete destroys the asset behind a Cloudinary delivery URL. URLs that do
// not point at this cloud are ignored.
func (s *CloudinaryStorage) Delete(ctx context.Context, url string) error {
	publicID, ok := s.publicIDFromURL(url)
	if !ok {
		return nil
	}

	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"api_key":   s.cfg.APIKey,
			"public_id": publicID,
			"timestamp": timestamp,
			"signature": s.sign(params),
		}).
		Post("/image/destroy")
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("unexpected status code %v from destroy", resp.StatusCode())
	}
	return nil
}

// sign hashes the parameters sorted by name with the API secret appended,
// as the Cloudinary signed-request scheme requires.
func (s *CloudinaryStorage) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.cfg.APISecret))
	return hex.EncodeToString(sum[:])
}

// publicIDFromURL recovers the public id from a delivery URL of the form
// https://res.cloudinary.com/<cloud>/image/upload/v123/<public_id>.<ext>.
func (s *CloudinaryStorage) publicIDFromURL(url string) (string, bool) {
	marker := "/" + s.cfg.CloudName + "/image/upload/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	rest := url[idx+len(marker):]
	if version, tail, found := strings.Cut(rest, "/"); found && strings.HasPrefix(version, "v") {
		rest = tail
	}
	return strings.TrimSuffix(rest, path.Ext(rest)), rest != ""
}
