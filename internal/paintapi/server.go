package paintapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"paint-backend/internal/paintapi/handlers"
	"paint-backend/internal/paintapi/media"
	"paint-backend/internal/paintapi/middleware"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/threadsafe"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Set when uploads are stored on local disk; the directory is then
	// served under /static/uploads/.
	StaticUploadsDir string
}

// Services bundles everything the HTTP layer depends on. The rate windows
// are built by the caller so the cleanup loop can sweep them too.
type Services struct {
	Auth            handlers.AuthService
	AccessVerifier  middleware.AccessVerifier
	Password        handlers.PasswordService
	Products        handlers.ProductsService
	PopularProducts handlers.PopularProductsService
	NewArrivals     handlers.NewArrivalsService
	NewsEvents      handlers.NewsEventsService
	Contact         handlers.ContactService
	Catalog         handlers.CatalogService
	Health          handlers.HealthChecker
	Images          media.Storage
	AuthRateWindow  *threadsafe.RateWindow
	APIRateWindow   *threadsafe.RateWindow
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func New(cfg Config, services Services, logger *logging.ZapLogger) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: createMux(cfg, services, logger),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(cfg Config, services Services, logger *logging.ZapLogger) *chi.Mux {
	authHandler := handlers.NewAuthHandler(services.Auth, logger)
	passwordHandler := handlers.NewPasswordHandler(services.Password, logger)
	productsHandler := handlers.NewProductsHandler(services.Products, services.Images, logger)
	popularHandler := handlers.NewPopularProductsHandler(services.PopularProducts, services.Images, logger)
	arrivalsHandler := handlers.NewNewArrivalsHandler(services.NewArrivals, services.Images, logger)
	newsHandler := handlers.NewNewsEventsHandler(services.NewsEvents, logger)
	contactHandler := handlers.NewContactHandler(services.Contact, logger)
	publicHandler := handlers.NewPublicHandler(services.Catalog, logger)
	healthHandler := handlers.NewHealthHandler(services.Health, logger)

	authenticator := middleware.NewAuthenticator(services.AccessVerifier, logger)
	authRate := middleware.NewRateLimit(services.AuthRateWindow)
	apiRate := middleware.NewRateLimit(services.APIRateWindow)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewCORS().CreateHandler)
	router.Use(middleware.NewLoggerContext().CreateHandler)
	router.Use(middleware.NewPanicRecover(logger).CreateHandler)

	router.Get("/health", healthHandler.ServeHTTP)

	router.Route("/api", func(router chi.Router) {
		router.Route("/auth", func(router chi.Router) {
			router.Group(func(router chi.Router) {
				router.Use(authRate.CreateHandler)
				router.Post("/login", authHandler.Login)
				router.Post("/refresh", authHandler.Refresh)
				router.Post("/admin-reset", passwordHandler.EmergencyReset)
			})
			router.Group(func(router chi.Router) {
				router.Use(authenticator.CreateHandler)
				router.Post("/logout", authHandler.Logout)
				router.Get("/me", authHandler.Me)
				router.Post("/password-reset", passwordHandler.Reset)
			})
		})

		router.Group(func(router chi.Router) {
			router.Use(apiRate.CreateHandler)

			router.Get("/products", publicHandler.Products)
			router.Get("/popular-products", publicHandler.PopularProducts)
			router.Get("/new-arrivals", publicHandler.NewArrivals)
			router.Get("/news-events", publicHandler.NewsEvents)
			router.Get("/contact-info", publicHandler.ContactInfo)
			router.Post("/contact", contactHandler.Submit)

			router.Route("/admin", func(router chi.Router) {
				router.Use(authenticator.CreateHandler)

				router.Route("/products", func(router chi.Router) {
					router.Post("/", productsHandler.Create)
					router.Get("/", productsHandler.List)
					router.Get("/{id}", productsHandler.Get)
					router.Put("/{id}", productsHandler.Update)
					router.Delete("/{id}", productsHandler.Delete)
				})
				router.Route("/popular-products", func(router chi.Router) {
					router.Post("/", popularHandler.Create)
					router.Get("/", popularHandler.List)
					router.Get("/{id}", popularHandler.Get)
					router.Put("/{id}", popularHandler.Update)
					router.Delete("/{id}", popularHandler.Delete)
				})
				router.Route("/new-arrivals", func(router chi.Router) {
					router.Post("/", arrivalsHandler.Create)
					router.Get("/", arrivalsHandler.List)
					router.Get("/{id}", arrivalsHandler.Get)
					router.Put("/{id}", arrivalsHandler.Update)
					router.Delete("/{id}", arrivalsHandler.Delete)
				})
				router.Route("/news-events", func(router chi.Router) {
					router.Post("/", newsHandler.Create)
					router.Get("/", newsHandler.List)
					router.Get("/{id}", newsHandler.Get)
					router.Put("/{id}", newsHandler.Update)
					router.Delete("/{id}", newsHandler.Delete)
				})
				router.Route("/contact-submissions", func(router chi.Router) {
					router.Get("/", contactHandler.ListSubmissions)
					router.Patch("/{id}/read", contactHandler.MarkRead)
					router.Delete("/{id}", contactHandler.DeleteSubmission)
				})
				router.Get("/contact-info", contactHandler.Info)
				router.Put("/contact-info", contactHandler.UpdateInfo)
			})
		})
	})

	if cfg.StaticUploadsDir != "" {
		fileServer := http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(cfg.StaticUploadsDir)))
		router.Get("/static/uploads/*", fileServer.ServeHTTP)
	}

	return router
}
