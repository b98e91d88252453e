package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/handler"
	"github.com/yourorg/nestboxd/internal/infrastructure/logger"
	"github.com/yourorg/nestboxd/internal/infrastructure/redis"
	"github.com/yourorg/nestboxd/internal/observability/metrics"
	"github.com/yourorg/nestboxd/internal/observability/tracing"
	"github.com/yourorg/nestboxd/internal/reliability/retry"
	"github.com/yourorg/nestboxd/internal/repository"
	"github.com/yourorg/nestboxd/internal/security/audit"
	"github.com/yourorg/nestboxd/internal/security/middleware"
	"github.com/yourorg/nestboxd/internal/security/ratelimit"
	"github.com/yourorg/nestboxd/internal/service"
	"github.com/yourorg/nestboxd/internal/worker"
	"github.com/yourorg/nestboxd/pkg/config"
	"github.com/yourorg/nestboxd/pkg/database"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting nestboxd server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "nestboxd", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to Postgres, retrying while the database comes up
	pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "postgres connect", func(ctx context.Context) (*database.ConnectionPool, error) {
		return database.NewConnectionPool(ctx, &database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		}, log)
	})
	if err != nil {
		log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.DB()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure database schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Redis is optional: without it the in-process cache takes over.
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	var redisClient *redis.Client
	var sessionCache domain.SessionCache = repository.NewMemorySessionCache(sessionTTL)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		sessionCache = repository.NewRedisSessionCache(redisClient, sessionTTL, log)
	}

	// 6. Initialize repositories
	userRepo := repository.NewPostgresUserRepository(db, log)
	sessionRepo := repository.NewPostgresSessionRepository(db, log)
	nestboxRepo := repository.NewPostgresNestboxRepository(db, log)
	birdRepo := repository.NewPostgresBirdRepository(db, log)
	breedRepo := repository.NewPostgresBreedRepository(db, log)
	geolocationRepo := repository.NewPostgresGeolocationRepository(db, log)

	// 7. Initialize services
	authService := service.NewAuthService(userRepo, sessionRepo, sessionCache, sessionTTL, log)
	guard := service.NewTenantGuard(nestboxRepo, log)
	breedService := service.NewBreedService(breedRepo, log)
	geolocationService := service.NewGeolocationService(geolocationRepo, log)
	imageService, err := service.NewImageService(cfg.ImageDirectory, log)
	if err != nil {
		log.Error("failed to initialize image storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 8. Security components
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)

	// 9. Initialize handlers
	loginHandler := handler.NewLoginHandler(authService, auditLogger, log)
	nestboxHandler := handler.NewNestboxHandler(nestboxRepo, log)
	birdsHandler := handler.NewBirdsHandler(birdRepo, log)
	breedsGetHandler := handler.NewBreedsGetHandler(breedService, log)
	breedsPostHandler := handler.NewBreedsPostHandler(guard, breedService, auditLogger, log)
	geolocationsHandler := handler.NewGeolocationsPostHandler(guard, geolocationService, auditLogger, log)
	imagesHandler := handler.NewImagesPostHandler(guard, imageService, nestboxRepo, auditLogger, log)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()
	mux.Handle("POST /login", loginHandler)
	mux.Handle("GET /nestboxes/{uuid}", nestboxHandler)
	mux.Handle("GET /birds", birdsHandler)
	mux.Handle("GET /nestboxes/{uuid}/breeds", breedsGetHandler)
	mux.Handle("POST /nestboxes/{uuid}/breeds", breedsPostHandler)
	mux.Handle("POST /nestboxes/{uuid}/geolocations", geolocationsHandler)
	mux.Handle("POST /nestboxes/{uuid}/images", imagesHandler)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	// Chain middleware: metrics -> tracing -> session -> rate limit
	rootHandler := metrics.HTTPMetricsMiddleware(
		otelhttp.NewHandler(
			middleware.SessionMiddleware(authService, log)(
				middleware.RateLimitMiddleware(rateLimiter, log)(mux),
			),
			"nestboxd",
		),
	)

	// 11. Start staging sweeper in background
	sweeper := worker.NewStagingSweeper(
		imageService.StagingDir(),
		time.Duration(cfg.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.SweepIntervalMinutes)*time.Minute,
		log,
	)
	go sweeper.Start(ctx)

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.Duration("session_ttl", sessionTTL),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
