package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paint-backend/cmd/paintapi/config"
	"paint-backend/internal/paintapi"
	"paint-backend/internal/paintapi/data/database"
	"paint-backend/internal/paintapi/data/dbrepository"
	"paint-backend/internal/paintapi/media"
	"paint-backend/internal/paintapi/service"
	"paint-backend/internal/paintapi/tokensweeper"
	"paint-backend/pkg/jwtfactory"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/pgxstorage"
	"paint-backend/pkg/threadsafe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewZapLogger(level)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB)
	storage, err := pgxstorage.New(dbFactory)
	if err != nil {
		log.Fatal(err)
	}
	repository := dbrepository.New(storage, logger)
	transactionManager := pgxstorage.NewTxManager(storage, logger)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)
	tokenFactory := jwtfactory.New(tokenAuth, cfg.JWTConfig.AccessTTL, cfg.JWTConfig.RefreshTTL)

	var images media.Storage
	if cfg.UseCloudinary {
		images = media.NewCloudinaryStorage(cfg.Cloudinary, logger)
	} else {
		images = media.NewLocalStorage(cfg.UploadsDir, "/static/uploads")
		cfg.Server.StaticUploadsDir = cfg.UploadsDir
	}

	authService, err := service.NewAuth(repository, repository, transactionManager, tokenFactory, logger)
	if err != nil {
		log.Fatal(err)
	}
	passwordService := service.NewPassword(repository, transactionManager, cfg.SuperadminKey, logger)
	catalogService := service.NewCatalog(repository, cfg.Catalog)

	authRateWindow := threadsafe.NewRateWindow(cfg.AuthRateLimit, time.Minute)
	apiRateWindow := threadsafe.NewRateWindow(cfg.APIRateLimit, time.Minute)

	server := paintapi.New(cfg.Server, paintapi.Services{
		Auth:            authService,
		AccessVerifier:  authService,
		Password:        passwordService,
		Products:        service.NewProducts(repository, transactionManager),
		PopularProducts: service.NewPopularProducts(repository, transactionManager),
		NewArrivals:     service.NewNewArrivals(repository, transactionManager),
		NewsEvents:      service.NewNewsEvents(repository, transactionManager),
		Contact:         service.NewContact(repository, transactionManager),
		Catalog:         catalogService,
		Health:          repository,
		Images:          images,
		AuthRateWindow:  authRateWindow,
		APIRateWindow:   apiRateWindow,
	}, logger)

	sweeper := tokensweeper.New(
		cfg.Sweeper,
		repository,
		transactionManager,
		logger,
		catalogService.CacheCleanup,
		authRateWindow.Cleanup,
		apiRateWindow.Cleanup,
	)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, server, sweeper, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(rootCtx context.Context, server *paintapi.Server, sweeper *tokensweeper.TokenSweeper, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sweeper.Run()
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		sweeper.Stop()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
