package spatial

import (
	"errors"
	"time"

	"localmart-be/internal/geo"
)

var ErrInvalidQuery = errors.New("invalid spatial query")

// SortBy selects the ordering of query results.
type SortBy string

const (
	SortByDistance SortBy = "distance"
	SortByPrice    SortBy = "price"
	SortByRating   SortBy = "rating"
	SortByNewest   SortBy = "newest"
)

// Entry is one indexed product at its seller's location.
type Entry struct {
	ProductID  string    `json:"product_id"`
	SellerID   string    `json:"seller_id"`
	Category   string    `json:"category"`
	Location   geo.Point `json:"location"`
	PriceMinor int64     `json:"price_minor"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// Candidate is an entry annotated with its distance from the query center.
type Candidate struct {
	Entry
	DistanceMeters float64 `json:"distance_meters"`
}

// Query describes one radius search.
type Query struct {
	Center       geo.Point
	RadiusMeters float64
	Category     string
	SortBy       SortBy
	Skip         int
	Limit        int
}

// Index answers "which products lie within radius R of point P" and supports
// incremental updates without a rebuild. Implementations must be safe for
// concurrent reads with occasional writes; slightly stale reads are fine.
type Index interface {
	// FindWithin returns one page of candidates plus the total match count.
	FindWithin(q Query) ([]Candidate, int, error)
	Upsert(e Entry)
	Remove(productID string)
	Len() int
}
