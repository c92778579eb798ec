package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"localmart-be/internal/api"
	"localmart-be/internal/cache"
	"localmart-be/internal/config"
	"localmart-be/internal/db"
	"localmart-be/internal/delivery"
	"localmart-be/internal/logger"
	"localmart-be/internal/metrics"
	"localmart-be/internal/middleware"
	"localmart-be/internal/product"
	"localmart-be/internal/search"
	"localmart-be/internal/spatial"
	"localmart-be/internal/zones"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	nearbyCacheTTL      = 5 * time.Minute
	feasibilityCacheTTL = 3 * time.Minute
	memoryCacheSize     = 4096
	shutdownTimeout     = 10 * time.Second
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	log := logger.L()

	database, err := db.InitDB(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	nearbyCache, feasCache := buildCaches(cfg)

	productRepo := product.NewRepository(database)
	resolver := product.NewResolver(productRepo)
	zoneRepo := zones.NewRepository(database)

	stats := metrics.NewRegistry()

	index := spatial.NewGridIndex()
	warmUpIndex(index, productRepo, log)

	searchSvc := search.NewService(index, nearbyCache, stats)
	deliverySvc := delivery.NewService(resolver, feasCache, delivery.NoBookings, stats)

	h := api.NewHandler(searchSvc, deliverySvc, productRepo, zoneRepo, index, stats, cfg.InternalKey)
	e := api.NewRouter(h, middleware.NewRateLimiter(cfg.InternalKey))

	go func() {
		log.Info("server starting", zap.String("port", cfg.AppPort))
		if err := e.Start(":" + cfg.AppPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

// buildCaches returns the nearby-page and feasibility caches, backed by Redis
// when configured and by in-process LRUs otherwise.
func buildCaches(cfg *config.Config) (cache.Cache, cache.Cache) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return cache.NewRedis(client, nearbyCacheTTL), cache.NewRedis(client, feasibilityCacheTTL)
	}
	return cache.NewMemory(memoryCacheSize, nearbyCacheTTL),
		cache.NewMemory(memoryCacheSize, feasibilityCacheTTL)
}

// warmUpIndex seeds the spatial index from the catalog so nearby searches are
// served from the first request. A failed warm-up is not fatal: the index
// fills back up through catalog-sync refreshes.
func warmUpIndex(index *spatial.GridIndex, repo product.Repository, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := repo.ListDeliverable(ctx)
	if err != nil {
		log.Warn("spatial index warm-up failed", zap.Error(err))
		return
	}

	for _, p := range products {
		index.Upsert(p.SpatialEntry())
	}

	log.Info("spatial index warmed up", zap.Int("products", index.Len()))
}
