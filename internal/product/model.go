package product

import (
	"time"

	"localmart-be/internal/delivery"
)

// Product is the catalog record the delivery core consumes. Seller management
// owns the lifecycle; this service only reads.
type Product struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"seller_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int       `json:"stock"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`

	Policy delivery.Policy `json:"policy"`
}
