package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"localmart-be/internal/cache"
	"localmart-be/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// brokenCache fails every operation, simulating an unreachable backend.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache backend unreachable")
}

func (brokenCache) Set(context.Context, string, []byte) error {
	return errors.New("cache backend unreachable")
}

func (brokenCache) DeleteByPrefix(context.Context, string) error {
	return errors.New("cache backend unreachable")
}

func checkService(resolved map[string]*Item, c cache.Cache) (*Service, *MockResolver) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(resolved, nil)
	return NewService(resolver, c, NoBookings, metrics.NewRegistry()), resolver
}

func TestCheckProductServesFromCache(t *testing.T) {
	ctx := context.Background()
	buyer := buyerAt(testOrigin, 1000)
	svc, resolver := checkService(map[string]*Item{
		"p1": sellerItem("p1", "s1", 600, 10, testPolicy()),
	}, cache.NewMemory(16, time.Minute))

	first, err := svc.CheckProduct(ctx, "p1", buyer, CheckOptions{Quantity: 1})
	require.NoError(t, err)

	second, err := svc.CheckProduct(ctx, "p1", buyer, CheckOptions{Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	resolver.AssertNumberOfCalls(t, "Resolve", 1)
}

func TestCheckProductDistinctArgumentsBypassCache(t *testing.T) {
	ctx := context.Background()
	buyer := buyerAt(testOrigin, 1000)
	svc, resolver := checkService(map[string]*Item{
		"p1": sellerItem("p1", "s1", 600, 10, testPolicy()),
	}, cache.NewMemory(16, time.Minute))

	_, err := svc.CheckProduct(ctx, "p1", buyer, CheckOptions{Quantity: 1})
	require.NoError(t, err)
	_, err = svc.CheckProduct(ctx, "p1", buyer, CheckOptions{Quantity: 2})
	require.NoError(t, err)

	resolver.AssertNumberOfCalls(t, "Resolve", 2)
}

func TestCheckProductNotFound(t *testing.T) {
	svc, _ := checkService(map[string]*Item{}, cache.Noop{})

	_, err := svc.CheckProduct(context.Background(), "ghost", testOrigin, CheckOptions{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCheckProductDegradesWhenCacheUnavailable(t *testing.T) {
	svc, _ := checkService(map[string]*Item{
		"p1": sellerItem("p1", "s1", 600, 10, testPolicy()),
	}, brokenCache{})

	res, err := svc.CheckProduct(context.Background(), "p1", buyerAt(testOrigin, 1000), CheckOptions{Quantity: 1})
	require.NoError(t, err, "cache unavailability must never block correctness")
	assert.True(t, res.CanDeliver)
}

func TestInvalidateProductForcesRecompute(t *testing.T) {
	ctx := context.Background()
	buyer := buyerAt(testOrigin, 1000)
	svc, resolver := checkService(map[string]*Item{
		"p1": sellerItem("p1", "s1", 600, 10, testPolicy()),
	}, cache.NewMemory(16, time.Minute))

	_, err := svc.CheckProduct(ctx, "p1", buyer, CheckOptions{Quantity: 1})
	require.NoError(t, err)

	svc.InvalidateProduct(ctx, "p1")

	_, err = svc.CheckProduct(ctx, "p1", buyer, CheckOptions{Quantity: 1})
	require.NoError(t, err)
	resolver.AssertNumberOfCalls(t, "Resolve", 2)
}

func TestProductSlotsResolvesPolicy(t *testing.T) {
	policy := testPolicy()
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	policy.Windows = []AvailabilityWindow{
		{Weekday: tomorrow.Weekday(), StartHour: 9, EndHour: 11, MaxOrdersPerHour: 4},
	}

	svc, _ := checkService(map[string]*Item{
		"p1": sellerItem("p1", "s1", 600, 10, policy),
	}, cache.Noop{})

	slots, err := svc.ProductSlots(context.Background(), "p1", tomorrow)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 4, slots[0].RemainingCapacity)

	_, err = svc.ProductSlots(context.Background(), "ghost", tomorrow)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestEstimateCartThroughService(t *testing.T) {
	svc, _ := checkService(map[string]*Item{
		"p1": sellerItem("p1", "s1", 600, 10, testPolicy()),
	}, cache.Noop{})

	est, err := svc.EstimateCart(context.Background(),
		[]CartItem{{ProductID: "p1", Quantity: 1}},
		BuyerContext{Location: buyerAt(testOrigin, 1000)},
	)
	require.NoError(t, err)
	assert.True(t, est.OverallCanDeliver)

	_, err = svc.EstimateCart(context.Background(), nil, BuyerContext{Location: testOrigin})
	assert.ErrorIs(t, err, ErrEmptyCart)
}
