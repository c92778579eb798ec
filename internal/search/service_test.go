package search

import (
	"context"
	"testing"
	"time"

	"localmart-be/internal/cache"
	"localmart-be/internal/geo"
	"localmart-be/internal/metrics"
	"localmart-be/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchCenter = geo.Point{Latitude: 28.6139, Longitude: 77.2090}

// countingIndex wraps a GridIndex and counts FindWithin calls.
type countingIndex struct {
	*spatial.GridIndex
	calls int
}

func (c *countingIndex) FindWithin(q spatial.Query) ([]spatial.Candidate, int, error) {
	c.calls++
	return c.GridIndex.FindWithin(q)
}

func seededIndex() *countingIndex {
	idx := spatial.NewGridIndex()
	idx.Upsert(spatial.Entry{
		ProductID: "p1", SellerID: "s1", Category: "grocery",
		Location: geo.Point{Latitude: 28.6150, Longitude: 77.2095}, PriceMinor: 100,
	})
	idx.Upsert(spatial.Entry{
		ProductID: "p2", SellerID: "s2", Category: "bakery",
		Location: geo.Point{Latitude: 28.6200, Longitude: 77.2150}, PriceMinor: 250,
	})
	return &countingIndex{GridIndex: idx}
}

func TestNearbyServesFromCache(t *testing.T) {
	ctx := context.Background()
	idx := seededIndex()
	svc := NewService(idx, cache.NewMemory(16, time.Minute), metrics.NewRegistry())

	q := spatial.Query{Center: searchCenter, RadiusMeters: 5000}

	first, err := svc.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Total)

	second, err := svc.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, idx.calls, "second identical query must hit the cache")
}

func TestNearbyNormalizesPagination(t *testing.T) {
	ctx := context.Background()
	svc := NewService(seededIndex(), cache.Noop{}, metrics.NewRegistry())

	page, err := svc.Nearby(ctx, spatial.Query{
		Center: searchCenter, RadiusMeters: 5000, Limit: 100000, Skip: -3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Pages)
}

func TestNearbyDegradesWithoutCache(t *testing.T) {
	ctx := context.Background()
	idx := seededIndex()
	svc := NewService(idx, cache.Noop{}, metrics.NewRegistry())

	for i := 0; i < 3; i++ {
		page, err := svc.Nearby(ctx, spatial.Query{Center: searchCenter, RadiusMeters: 5000})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	}
	assert.Equal(t, 3, idx.calls)
}

func TestRefreshInvalidatesCachedPages(t *testing.T) {
	ctx := context.Background()
	idx := seededIndex()
	svc := NewService(idx, cache.NewMemory(16, time.Minute), metrics.NewRegistry())

	q := spatial.Query{Center: searchCenter, RadiusMeters: 5000}
	_, err := svc.Nearby(ctx, q)
	require.NoError(t, err)

	// p2 disappears from the catalog.
	svc.Refresh(ctx, nil, "p2")

	page, err := svc.Nearby(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 2, idx.calls, "refresh must drop the cached page")
}

func TestRefreshUpsertsNewEntry(t *testing.T) {
	ctx := context.Background()
	idx := seededIndex()
	svc := NewService(idx, cache.NewMemory(16, time.Minute), metrics.NewRegistry())

	svc.Refresh(ctx, &spatial.Entry{
		ProductID: "p3", SellerID: "s3", Category: "grocery",
		Location: geo.Point{Latitude: 28.6140, Longitude: 77.2091},
	}, "p3")

	page, err := svc.Nearby(ctx, spatial.Query{Center: searchCenter, RadiusMeters: 5000})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}
