package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"localmart-be/internal/cache"
	"localmart-be/internal/geo"
	"localmart-be/internal/logger"
	"localmart-be/internal/metrics"

	"go.uber.org/zap"
)

const feasibilityKeyPrefix = "feas:"

// Service fronts the evaluator, the slot provider, and the cart aggregator
// with a short-TTL result cache. The cache is advisory: any cache failure
// degrades to direct computation.
type Service struct {
	products ProductResolver
	eval     *Evaluator
	slots    *SlotProvider
	agg      *Aggregator
	cache    cache.Cache
	booked   BookedFunc
	stats    *metrics.Registry
}

func NewService(products ProductResolver, c cache.Cache, booked BookedFunc, stats *metrics.Registry) *Service {
	eval := NewEvaluator()
	return &Service{
		products: products,
		eval:     eval,
		slots:    NewSlotProvider(),
		agg:      NewAggregator(products, eval),
		cache:    c,
		booked:   booked,
		stats:    stats,
	}
}

// CheckProduct evaluates delivery feasibility for a single product, serving
// from cache when an identical check was answered recently.
func (s *Service) CheckProduct(ctx context.Context, productID string, buyer geo.Point, opts CheckOptions) (*Result, error) {
	key := feasibilityKey(productID, buyer, opts)

	if b, err := s.cache.Get(ctx, key); err == nil {
		var cached Result
		if json.Unmarshal(b, &cached) == nil {
			s.stats.CacheHits.Inc()
			return &cached, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.stats.CacheDegraded.Inc()
		logger.FromCtx(ctx).Warn("feasibility cache unavailable", zap.Error(err))
	} else {
		s.stats.CacheMisses.Inc()
	}

	item, err := s.resolveOne(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.stats.Evaluations.Inc()
	res := s.eval.Evaluate(*item, buyer, opts)

	if b, err := json.Marshal(res); err == nil {
		_ = s.cache.Set(ctx, key, b)
	}

	return &res, nil
}

// ProductSlots returns the open delivery windows of a product's seller for
// the requested date. Not cached: booked counts move with every order.
func (s *Service) ProductSlots(ctx context.Context, productID string, date time.Time) ([]Slot, error) {
	item, err := s.resolveOne(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.stats.SlotQueries.Inc()
	return s.slots.Slots(item.Policy, date, s.booked)
}

// EstimateCart merges per-seller feasibility into one cart quote.
func (s *Service) EstimateCart(ctx context.Context, items []CartItem, buyer BuyerContext) (*CartEstimate, error) {
	start := time.Now()
	s.stats.CartEstimates.Inc()

	estimate, err := s.agg.Estimate(ctx, items, buyer)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("cart estimate computed",
		zap.Int("items", len(items)),
		zap.Int("sellers", len(estimate.Sellers)),
		zap.Bool("can_deliver", estimate.OverallCanDeliver),
		zap.Duration("duration", time.Since(start)),
	)

	return estimate, nil
}

// InvalidateProduct drops every cached feasibility result for one product.
// Invoked from the catalog-sync hook when stock, price, or policy change.
func (s *Service) InvalidateProduct(ctx context.Context, productID string) {
	s.stats.Invalidations.Inc()
	if err := s.cache.DeleteByPrefix(ctx, feasibilityKeyPrefix+productID+":"); err != nil {
		logger.FromCtx(ctx).Warn("feasibility invalidation failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}

func (s *Service) resolveOne(ctx context.Context, productID string) (*Item, error) {
	resolved, err := s.products.Resolve(ctx, []string{productID})
	if err != nil {
		return nil, fmt.Errorf("resolve product %q: %w", productID, err)
	}
	item, ok := resolved[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	return item, nil
}

// feasibilityKey normalizes the check arguments into a cache key. Coordinates
// are rounded to ~11m so adjacent requests from the same block share entries.
func feasibilityKey(productID string, buyer geo.Point, opts CheckOptions) string {
	qty := normalizeQty(opts.Quantity)
	return fmt.Sprintf("%s%s:%.4f:%.4f:%d:%t",
		feasibilityKeyPrefix, productID, buyer.Latitude, buyer.Longitude, qty, opts.Express)
}
