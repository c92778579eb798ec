package api

// Request DTOs mirror the public HTTP contract (camelCase like the clients
// send); responses reuse the internal models.

type nearbyQuery struct {
	Latitude    float64 `query:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `query:"longitude" validate:"min=-180,max=180"`
	MaxDistance float64 `query:"maxDistance" validate:"omitempty,gt=0,lte=20000"`
	Category    string  `query:"category"`
	SortBy      string  `query:"sortBy" validate:"omitempty,oneof=distance price rating newest"`
	Page        int     `query:"page" validate:"omitempty,min=1"`
	Limit       int     `query:"limit" validate:"omitempty,min=1,max=100"`
}

type checkRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Quantity  int      `json:"quantity" validate:"omitempty,min=1,max=100"`
	Express   bool     `json:"express"`
}

type cartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

type estimateCartRequest struct {
	Items     []cartItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	Latitude  *float64          `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64          `json:"longitude" validate:"required,min=-180,max=180"`
	Express   bool              `json:"express"`
}
