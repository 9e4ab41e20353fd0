package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/eventplanner/backend/docs"
	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/config"
	"github.com/eventplanner/backend/internal/handlers"
	"github.com/eventplanner/backend/internal/logger"
	"github.com/eventplanner/backend/internal/metrics"
	"github.com/eventplanner/backend/internal/middleware"
	"github.com/eventplanner/backend/internal/repositories"
	"github.com/eventplanner/backend/internal/services"
	"github.com/eventplanner/backend/migrations"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const dbStatsInterval = 15 * time.Second

func newServeCommand() *cobra.Command {
	var (
		port          int
		skipMigration bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

The server will:
- Load configuration from environment variables
- Apply pending database migrations (unless --skip-migrations)
- Serve the API, /metrics and /swagger
- Shut down gracefully on SIGINT/SIGTERM

Examples:
  # Start with configuration from the environment
  eventplanner serve

  # Start on another port with debug logging
  eventplanner serve --port 9090 --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(port, skipMigration)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "server port (default: SERVER_PORT or 8080)")
	cmd.Flags().BoolVar(&skipMigration, "skip-migrations", false, "do not apply migrations on startup")

	return cmd
}

func runServer(port int, skipMigration bool) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	if port != 0 {
		cfg.Server.Port = port
	}

	logger.Logger.Info("Starting event planner API")

	if !skipMigration {
		if err := migrations.Up(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	go metrics.NewDBCollector(db).Start(ctx, dbStatsInterval)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(cfg, db, logger.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Logger.Info("Server exited")
	return nil
}

// newRouter wires repositories, services and handlers behind the shared middleware chain
func newRouter(cfg *config.Config, db *sql.DB, log *zap.Logger) http.Handler {
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, log)
	eventRepo := repositories.NewEventRepository(db, log)
	rsvpRepo := repositories.NewRSVPRepository(db, log)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, log)
	eventService := services.NewEventService(eventRepo, rsvpRepo, log)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, cfg.Location, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, log)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.AccessTokenExpiry, log)
	eventHandler := handlers.NewEventHandler(eventService, log)
	rsvpHandler := handlers.NewRSVPHandler(rsvpService, log)

	authMiddleware := auth.Middleware(tokenGenerator)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.HTTPMiddleware)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimit(cfg.Server.MaxBodyBytes))

	r.Handle("/metrics", metrics.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	healthHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)
	eventHandler.RegisterRoutes(r, authMiddleware)
	rsvpHandler.RegisterRoutes(r, authMiddleware)

	return r
}
