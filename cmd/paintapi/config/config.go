package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"paint-backend/internal/paintapi"
	"paint-backend/internal/paintapi/data/database"
	"paint-backend/internal/paintapi/media"
	"paint-backend/internal/paintapi/service"
	"paint-backend/internal/paintapi/tokensweeper"
)

const (
	serverAddressFlag         = "a"
	serverAddressEnv          = "RUN_ADDRESS"
	serverAddressDefault      = "localhost:8080"
	dbConnectionStringFlag    = "d"
	dbConnectionStringEnv     = "DATABASE_URL"
	dbConnectionStringDefault = ""
	logLevelFlag              = "l"
	logLevelEnv               = "LOG_LEVEL"
	logLevelDefault           = "info"

	secretKeyEnv         = "SECRET_KEY"
	superadminKeyEnv     = "SUPERADMIN_RESET_KEY"
	accessTTLEnv         = "ACCESS_TOKEN_TTL"
	refreshTTLEnv        = "REFRESH_TOKEN_TTL"
	useCloudinaryEnv     = "USE_CLOUDINARY"
	cloudinaryNameEnv    = "CLOUDINARY_CLOUD_NAME"
	cloudinaryKeyEnv     = "CLOUDINARY_API_KEY"
	cloudinarySecretEnv  = "CLOUDINARY_API_SECRET"
	uploadsDirEnv        = "UPLOADS_DIR"
	authRateLimitEnv     = "AUTH_RATE_LIMIT"
	apiRateLimitEnv      = "API_RATE_LIMIT"
	uploadsDirDefault    = "static/uploads"
	authRateLimitDefault = 5
	apiRateLimitDefault  = 60
)

type JWTConfig struct {
	Algorithm  string
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Config struct {
	Server        paintapi.Config
	JWTConfig     JWTConfig
	DB            database.Config
	Catalog       service.CatalogConfig
	Sweeper       tokensweeper.Config
	Cloudinary    media.CloudinaryConfig
	SuperadminKey string
	LogLevel      string
	UploadsDir    string
	UseCloudinary bool
	AuthRateLimit int
	APIRateLimit  int
}

// Load reads flags, .env and environment variables, in ascending priority.
func Load() (*Config, error) {
	// missing .env is fine, env vars may come from the actual environment
	_ = godotenv.Load()

	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	dbConnectionString := flag.String(
		dbConnectionStringFlag,
		dbConnectionStringDefault,
		"PostgreSQL connection string",
	)

	logLevel := flag.String(
		logLevelFlag,
		logLevelDefault,
		"Log level (debug, info, warn, error)",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}
	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}
	if valStr, ok := os.LookupEnv(logLevelEnv); ok {
		*logLevel = valStr
	}

	secret := os.Getenv(secretKeyEnv)
	if secret == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	accessTTL, err := durationEnv(accessTTLEnv, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := durationEnv(refreshTTLEnv, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	authRateLimit, err := intEnv(authRateLimitEnv, authRateLimitDefault)
	if err != nil {
		return nil, err
	}
	apiRateLimit, err := intEnv(apiRateLimitEnv, apiRateLimitDefault)
	if err != nil {
		return nil, err
	}

	useCloudinary := os.Getenv(useCloudinaryEnv) == "true"
	if useCloudinary {
		for _, name := range []string{cloudinaryNameEnv, cloudinaryKeyEnv, cloudinarySecretEnv} {
			if os.Getenv(name) == "" {
				return nil, fmt.Errorf("%s is required when %s=true", name, useCloudinaryEnv)
			}
		}
	}

	uploadsDir := uploadsDirDefault
	if valStr, ok := os.LookupEnv(uploadsDirEnv); ok {
		uploadsDir = valStr
	}

	return &Config{
		Server: paintapi.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
		},
		JWTConfig: JWTConfig{
			Algorithm:  "HS256",
			Secret:     secret,
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
			ConnectTimeout:   time.Second * 10,
			StatementTimeout: time.Second * 30,
		},
		Catalog: service.CatalogConfig{
			CacheTTL:      time.Minute * 5,
			RetryBackoff:  time.Millisecond * 500,
			RetryAttempts: 3,
		},
		Sweeper: tokensweeper.Config{
			TickPeriod: time.Hour,
		},
		Cloudinary: media.CloudinaryConfig{
			CloudName: os.Getenv(cloudinaryNameEnv),
			APIKey:    os.Getenv(cloudinaryKeyEnv),
			APISecret: os.Getenv(cloudinarySecretEnv),
			Folder:    "paint-website",
		},
		SuperadminKey: os.Getenv(superadminKeyEnv),
		LogLevel:      *logLevel,
		UploadsDir:    uploadsDir,
		UseCloudinary: useCloudinary,
		AuthRateLimit: authRateLimit,
		APIRateLimit:  apiRateLimit,
	}, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	valStr, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	value, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("malformed %s: %w", name, err)
	}
	return value, nil
}

func intEnv(name string, fallback int) (int, error) {
	valStr, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	value, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("malformed %s: %w", name, err)
	}
	return value, nil
}
