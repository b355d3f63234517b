package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petraflow/wellscope/pkg/cache"
	"github.com/petraflow/wellscope/pkg/config"
	"github.com/petraflow/wellscope/pkg/database"
	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/pkg/messaging"
	"github.com/petraflow/wellscope/pkg/middleware"
	"github.com/petraflow/wellscope/services/rta-service/internal/handlers"
	"github.com/petraflow/wellscope/services/rta-service/internal/importer"
	"github.com/petraflow/wellscope/services/rta-service/internal/provider"
	"github.com/petraflow/wellscope/services/rta-service/internal/repository"
	"github.com/petraflow/wellscope/services/rta-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("rta-service", cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.DBName, cfg.Database.Timeout)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongodb.Close()

	datasetRepo := repository.NewDatasetRepository(mongodb.Database())
	matchRepo := repository.NewMatchRepository(mongodb.Database())

	if err := datasetRepo.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Error("Failed to ensure indexes")
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	var events messaging.Client
	if cfg.RabbitMQ.Enabled {
		events, err = messaging.NewClient(cfg.RabbitMQ.URL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to RabbitMQ")
		}
		defer events.Close()

		if err := events.DeclareExchange(cfg.RabbitMQ.Exchange, "topic", true, false); err != nil {
			log.WithError(err).Fatal("Failed to declare exchange")
		}
	}

	providers := buildProviders(cfg, redisCache, log)

	analysisService := service.NewAnalysisService(
		datasetRepo, matchRepo, providers, events, cfg.RabbitMQ.Exchange, log,
	)

	imp := importer.NewImporter(log)
	handler := handlers.NewRTAHandler(analysisService, datasetRepo, matchRepo, imp, cfg.Engine, log)

	router := setupRouter(cfg, handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.WithField("port", cfg.HTTP.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down rta-service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
}

func setupRouter(cfg *config.Config, handler *handlers.RTAHandler) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	var extra []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		extra = append(extra, limiter.Middleware())
	}

	var auth *middleware.AuthMiddleware
	if cfg.JWT.Secret != "" {
		auth = middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	}

	handler.RegisterRoutes(router, auth, extra...)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// buildProviders loads the provider catalog and wraps every provider in the
// Redis read-through cache. A missing or broken catalog degrades to the
// built-in mock provider rather than aborting startup.
func buildProviders(cfg *config.Config, redisCache *cache.RedisCache, log logger.Logger) map[string]provider.DataProvider {
	catalog, err := provider.LoadCatalog(cfg.Providers.CatalogPath)
	if err != nil {
		log.WithError(err).Warn("Failed to load provider catalog, using defaults")
		catalog = &provider.Catalog{}
	}

	providers := provider.Build(catalog, log)

	cached := make(map[string]provider.DataProvider, len(providers))
	for name, p := range providers {
		cached[name] = provider.NewCachedProvider(p, redisCache, cfg.Redis.TTL, log)
	}
	return cached
}
