package product

import (
	"localmart-be/internal/delivery"
	"localmart-be/internal/spatial"
)

// DeliveryItem maps the catalog record to the delivery core's view.
func (p *Product) DeliveryItem() *delivery.Item {
	return &delivery.Item{
		ProductID:  p.ID,
		SellerID:   p.SellerID,
		PriceMinor: p.PriceMinor,
		Stock:      p.Stock,
		Policy:     p.Policy,
	}
}

// SpatialEntry maps the catalog record to its index entry at the seller's
// origin.
func (p *Product) SpatialEntry() spatial.Entry {
	return spatial.Entry{
		ProductID:  p.ID,
		SellerID:   p.SellerID,
		Category:   p.Category,
		Location:   p.Policy.Origin,
		PriceMinor: p.PriceMinor,
		Rating:     p.Rating,
		CreatedAt:  p.CreatedAt,
	}
}
