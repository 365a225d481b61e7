package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/cache"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/database"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/events"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/reference"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/adapters/search"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/handlers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/loaders"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/middleware"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/api/routes"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/application/services"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/repositories"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/postgres"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/redis"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/clients/typesense"
	"github.com/MarvinNL046/vindelektricien-sub000/internal/infrastructure/observability"
	"github.com/MarvinNL046/vindelektricien-sub000/pkg/config"
)

// in-process cache size when Redis is not available
const memoryCacheSize = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Environment, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if cfg.Database.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Redis backs the shared cache and the event bus. Without it both fall
	// back to in-process implementations.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-process cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter(memoryCacheSize, cfg.Cache.ListTTL)
		eventBus = events.NewMemoryEventBus()
	}

	var searchRepo repositories.FacilitySearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, search uses the database")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema, search uses the database")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	referenceRepo := reference.NewCache(reference.NewFileAdapter(cfg.Reference.Dir))

	facilityRepo := database.NewCachedFacilityAdapter(
		database.NewFacilityAdapter(pgClient, metrics),
		cacheProvider,
		cfg.Cache.FacilityTTL,
		cfg.Cache.ListTTL,
	)
	claimRepo := database.NewClaimAdapter(pgClient)
	feedbackRepo := database.NewFeedbackAdapter(pgClient)

	// Services
	directoryService := services.NewDirectoryService(facilityRepo, referenceRepo)
	searchService := services.NewSearchService(directoryService, searchRepo)
	submissionService := services.NewSubmissionService(facilityRepo, referenceRepo, eventBus)
	moderationService := services.NewModerationService(facilityRepo, searchRepo, eventBus)
	claimService := services.NewClaimService(claimRepo, facilityRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo)

	invalidationService := services.NewCacheInvalidationService(cacheProvider, eventBus)
	invalidationStarted := true
	if err := invalidationService.Start(); err != nil {
		log.Warn().Err(err).Msg("failed to start cache invalidation service")
		invalidationStarted = false
	}

	if cfg.Cache.WarmOnStart {
		warmingService := services.NewCacheWarmingService(directoryService, cacheProvider)
		go warmingService.StartPeriodicWarming(ctx, cfg.Cache.WarmInterval)
	}

	if err := middleware.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, metrics)
	defer rateLimiter.Stop()

	router := routes.NewRouter(
		routes.Handlers{
			Directory:  handlers.NewDirectoryHandler(directoryService),
			Search:     handlers.NewSearchHandler(searchService),
			Submission: handlers.NewSubmissionHandler(submissionService),
			Claim:      handlers.NewClaimHandler(claimService),
			Feedback:   handlers.NewFeedbackHandler(feedbackService, cacheProvider),
			Admin:      handlers.NewAdminHandler(moderationService, directoryService, invalidationService),
			Events:     handlers.NewEventStreamHandler(eventBus, 0),
		},
		routes.Options{
			Cache:          middleware.NewCacheMiddleware(cacheProvider, metrics, cfg.Cache.ResponseTTL),
			RateLimiter:    rateLimiter,
			Loaders:        loaders.Middleware(facilityRepo),
			Metrics:        metrics,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if invalidationStarted {
		invalidationService.Stop()
	}
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}

	log.Info().Msg("server stopped")
}
