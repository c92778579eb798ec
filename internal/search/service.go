package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"localmart-be/internal/cache"
	"localmart-be/internal/logger"
	"localmart-be/internal/metrics"
	"localmart-be/internal/spatial"

	"go.uber.org/zap"
)

const nearbyKeyPrefix = "nearby:"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Page is one page of nearby products with the total match count.
type Page struct {
	Items []spatial.Candidate `json:"items"`
	Total int                 `json:"total"`
	Pages int                 `json:"pages"`
}

// Service answers nearby-product searches through the spatial index with a
// short-TTL cache in front. Cache failures degrade to direct index queries.
type Service struct {
	index spatial.Index
	cache cache.Cache
	stats *metrics.Registry
}

func NewService(index spatial.Index, c cache.Cache, stats *metrics.Registry) *Service {
	return &Service{index: index, cache: c, stats: stats}
}

// Nearby runs one paginated radius search.
func (s *Service) Nearby(ctx context.Context, q spatial.Query) (*Page, error) {
	normalize(&q)
	s.stats.NearbyQueries.Inc()

	key := nearbyKey(q)
	if b, err := s.cache.Get(ctx, key); err == nil {
		var page Page
		if json.Unmarshal(b, &page) == nil {
			s.stats.CacheHits.Inc()
			return &page, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.stats.CacheDegraded.Inc()
		logger.FromCtx(ctx).Warn("nearby cache unavailable", zap.Error(err))
	} else {
		s.stats.CacheMisses.Inc()
	}

	start := time.Now()
	items, total, err := s.index.FindWithin(q)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items: items,
		Total: total,
		Pages: (total + q.Limit - 1) / q.Limit,
	}

	logger.FromCtx(ctx).Debug("nearby search computed",
		zap.Float64("radius_m", q.RadiusMeters),
		zap.Int("total", total),
		zap.Duration("duration", time.Since(start)),
	)

	if b, err := json.Marshal(page); err == nil {
		_ = s.cache.Set(ctx, key, b)
	}

	return page, nil
}

// Refresh updates one product in the index and drops every cached nearby
// page. Invalidation is coarse: any page could have contained the product.
func (s *Service) Refresh(ctx context.Context, entry *spatial.Entry, productID string) {
	if entry != nil {
		s.index.Upsert(*entry)
	} else {
		s.index.Remove(productID)
	}

	s.stats.Invalidations.Inc()
	if err := s.cache.DeleteByPrefix(ctx, nearbyKeyPrefix); err != nil {
		logger.FromCtx(ctx).Warn("nearby invalidation failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}

func normalize(q *spatial.Query) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	} else if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.SortBy == "" {
		q.SortBy = spatial.SortByDistance
	}
}

// nearbyKey normalizes query arguments into a cache key; coordinates are
// rounded to ~11m so requests from the same block share pages.
func nearbyKey(q spatial.Query) string {
	return fmt.Sprintf("%s%.4f:%.4f:%.0f:%s:%s:%d:%d",
		nearbyKeyPrefix, q.Center.Latitude, q.Center.Longitude,
		q.RadiusMeters, q.Category, q.SortBy, q.Skip, q.Limit)
}
