package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emotune/emotune/internal/api"
	"github.com/emotune/emotune/internal/api/handler"
	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/auth"
	"github.com/emotune/emotune/internal/cache"
	"github.com/emotune/emotune/internal/catalog"
	"github.com/emotune/emotune/internal/catalog/spotify"
	"github.com/emotune/emotune/internal/config"
	"github.com/emotune/emotune/internal/database"
	"github.com/emotune/emotune/internal/face"
	"github.com/emotune/emotune/internal/mail"
	"github.com/emotune/emotune/internal/recommend"
	"github.com/emotune/emotune/internal/repository"
	"github.com/emotune/emotune/internal/service"
	"github.com/emotune/emotune/internal/storage"
)

const cacheJanitorInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)
	auditLogger := audit.NewSlogLogger(logger)

	logger.Info("starting EmoTune API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.ReadinessCheck{}

	// Face pipeline: loaded once, unavailable for the life of the process on failure
	pipeline := face.NewPipeline(ctx, cfg, logger, auditLogger)
	defer func() { _ = pipeline.Close() }()
	checks["classifier"] = func(context.Context) error { return pipeline.Err() }

	// Database
	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		pool, err = database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		checks["database"] = func(ctx context.Context) error { return database.HealthCheck(ctx, pool) }
	}

	// Catalog cache
	store, err := newCacheStore(ctx, cfg, pool, logger)
	if err != nil {
		return err
	}
	if redisCache, ok := store.(*cache.RedisCache); ok {
		defer func() { _ = redisCache.Close() }()
		checks["cache"] = redisCache.Ping
	}

	// Recommendations
	recommendations, err := newRecommendationService(ctx, cfg, store, logger, auditLogger)
	if err != nil {
		return err
	}

	// Profile pictures are served even when accounts are disabled
	pictures, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	deps := &api.Dependencies{
		Emotion:         service.NewEmotionService(pipeline, auditLogger),
		Recommendations: recommendations,
		UploadDir:       pictures.Dir(),
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitMax:    cfg.RateLimitMax,
		Checks:          checks,
	}

	if pool != nil {
		tokens := auth.NewTokenService(cfg.JWTSecret, "emotune", cfg.JWTTTL)
		accounts := service.NewAccountService(
			repository.NewUserRepository(pool),
			auth.NewPasswordHasher(0),
			tokens,
			pictures,
			auditLogger,
		)

		if cfg.HasMailer() {
			mailer, err := mail.NewMailer(mail.Config{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.EmailUser,
				Password: cfg.EmailPass,
			}, cfg.FrontendURL)
			if err != nil {
				return fmt.Errorf("failed to configure mailer: %w", err)
			}
			accounts.WithMailer(mailer)
		} else {
			logger.Warn("reset links disabled: EMAIL_USER/EMAIL_PASS not set")
		}

		deps.Accounts = accounts
		deps.Tokens = tokens
	}

	// Setup router
	router := api.NewRouter(logger, deps)
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")
	return nil
}

// newCacheStore returns nil when CACHE_BACKEND is "none"
func newCacheStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "", "none":
		return nil, nil
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("CACHE_BACKEND=postgres requires DATABASE_URL")
		}
		pgCache := cache.NewPGCache(pool)
		go pgCache.RunJanitor(ctx, cacheJanitorInterval, logger)
		return pgCache, nil
	case "redis":
		redisCache := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis not reachable, catalog lookups will bypass the cache", "error", err)
		}
		return redisCache, nil
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q (use: none, postgres, redis)", cfg.CacheBackend)
	}
}

func newRecommendationService(ctx context.Context, cfg *config.Config, store cache.Store, logger *slog.Logger, auditLogger audit.Logger) (*service.RecommendationService, error) {
	if !cfg.HasCatalogCredentials() {
		logger.Warn("recommendations disabled: SPOTIPY_CLIENT_ID/SPOTIPY_CLIENT_SECRET not set")
		return service.NewRecommendationService(nil, cfg.CatalogTimeout, auditLogger), nil
	}

	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		BaseURL:      cfg.SpotifyBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	var searcher catalog.Searcher = client
	if store != nil {
		searcher = catalog.NewCachedSearcher(client, store, cfg.CatalogCacheTTL, logger)
	}

	return service.NewRecommendationService(recommend.NewStrategy(searcher), cfg.CatalogTimeout, auditLogger), nil
}
