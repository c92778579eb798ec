package spatial

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"localmart-be/internal/geo"
)

// cellSizeDegrees is the grid resolution (~1.1 km of latitude per cell), a
// good match for typical 0.5–20 km delivery radii.
const cellSizeDegrees = 0.01

const metersPerDegreeLat = geo.EarthRadiusMeters * math.Pi / 180

type cellKey struct {
	lat int
	lon int
}

// GridIndex buckets entries into fixed-size lat/lon cells. Queries touch only
// the cells overlapping the radius bounding box, keeping lookups sub-linear
// in catalog size for typical radii.
type GridIndex struct {
	mu      sync.RWMutex
	cells   map[cellKey]map[string]*Entry
	entries map[string]*Entry // by product id
}

func NewGridIndex() *GridIndex {
	return &GridIndex{
		cells:   make(map[cellKey]map[string]*Entry),
		entries: make(map[string]*Entry),
	}
}

func cellOf(p geo.Point) cellKey {
	return cellKey{
		lat: int(math.Floor(p.Latitude / cellSizeDegrees)),
		lon: int(math.Floor(p.Longitude / cellSizeDegrees)),
	}
}

// Upsert inserts or replaces the entry for e.ProductID.
func (g *GridIndex) Upsert(e Entry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeLocked(e.ProductID)

	stored := e
	g.entries[e.ProductID] = &stored

	key := cellOf(e.Location)
	bucket := g.cells[key]
	if bucket == nil {
		bucket = make(map[string]*Entry)
		g.cells[key] = bucket
	}
	bucket[e.ProductID] = &stored
}

// Remove deletes the entry by product id. Removing an unknown id is a no-op.
func (g *GridIndex) Remove(productID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(productID)
}

func (g *GridIndex) removeLocked(productID string) {
	old, ok := g.entries[productID]
	if !ok {
		return
	}
	delete(g.entries, productID)

	key := cellOf(old.Location)
	if bucket := g.cells[key]; bucket != nil {
		delete(bucket, productID)
		if len(bucket) == 0 {
			delete(g.cells, key)
		}
	}
}

func (g *GridIndex) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// FindWithin scans the cells covering the radius bounding box, filters by
// exact great-circle distance, sorts, and paginates.
func (g *GridIndex) FindWithin(q Query) ([]Candidate, int, error) {
	if err := q.Center.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.RadiusMeters <= 0 {
		return nil, 0, fmt.Errorf("%w: radius must be positive", ErrInvalidQuery)
	}
	if q.Skip < 0 || q.Limit < 0 {
		return nil, 0, fmt.Errorf("%w: negative pagination", ErrInvalidQuery)
	}

	latDelta := q.RadiusMeters / metersPerDegreeLat
	cosLat := math.Cos(q.Center.Latitude * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // near the poles every longitude is close
	}
	lonDelta := q.RadiusMeters / (metersPerDegreeLat * cosLat)

	minLat := int(math.Floor((q.Center.Latitude - latDelta) / cellSizeDegrees))
	maxLat := int(math.Floor((q.Center.Latitude + latDelta) / cellSizeDegrees))
	minLon := int(math.Floor((q.Center.Longitude - lonDelta) / cellSizeDegrees))
	maxLon := int(math.Floor((q.Center.Longitude + lonDelta) / cellSizeDegrees))

	g.mu.RLock()
	matches := make([]Candidate, 0, 64)
	for lat := minLat; lat <= maxLat; lat++ {
		for lon := minLon; lon <= maxLon; lon++ {
			for _, e := range g.cells[cellKey{lat: lat, lon: lon}] {
				if q.Category != "" && e.Category != q.Category {
					continue
				}
				d := geo.Distance(q.Center, e.Location)
				if d > q.RadiusMeters {
					continue
				}
				matches = append(matches, Candidate{Entry: *e, DistanceMeters: d})
			}
		}
	}
	g.mu.RUnlock()

	sortCandidates(matches, q.SortBy)

	total := len(matches)
	if q.Skip >= total {
		return []Candidate{}, total, nil
	}
	matches = matches[q.Skip:]
	if q.Limit > 0 && q.Limit < len(matches) {
		matches = matches[:q.Limit]
	}

	return matches, total, nil
}

// sortCandidates orders results by the requested key, breaking ties by
// product id ascending for determinism.
func sortCandidates(cs []Candidate, by SortBy) {
	less := func(i, j int) bool { return cs[i].DistanceMeters < cs[j].DistanceMeters }

	switch by {
	case SortByPrice:
		less = func(i, j int) bool { return cs[i].PriceMinor < cs[j].PriceMinor }
	case SortByRating:
		less = func(i, j int) bool { return cs[i].Rating > cs[j].Rating }
	case SortByNewest:
		less = func(i, j int) bool { return cs[i].CreatedAt.After(cs[j].CreatedAt) }
	}

	sort.Slice(cs, func(i, j int) bool {
		if less(i, j) {
			return true
		}
		if less(j, i) {
			return false
		}
		return cs[i].ProductID < cs[j].ProductID
	})
}
