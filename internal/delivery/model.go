package delivery

// Reason codes why a delivery verdict came out the way it did. Policy
// outcomes are data, not errors.
type Reason string

const (
	ReasonOK            Reason = "OK"
	ReasonOutsideRadius Reason = "OUTSIDE_RADIUS"
	ReasonDisabled      Reason = "DISABLED"
	ReasonOutOfStock    Reason = "OUT_OF_STOCK"
)

// Item is the delivery-relevant view of a catalog product. The catalog owns
// the full record; the core only needs price, stock, and the seller's policy.
type Item struct {
	ProductID  string `json:"product_id"`
	SellerID   string `json:"seller_id"`
	PriceMinor int64  `json:"price_minor"`
	Stock      int    `json:"stock"`
	Policy     Policy `json:"policy"`
}

// Result is a feasibility verdict plus estimates for one product and one
// buyer location. Derived and ephemeral; never persisted.
type Result struct {
	CanDeliver             bool    `json:"can_deliver"`
	Reason                 Reason  `json:"reason"`
	DistanceMeters         float64 `json:"distance_meters"`
	MaxRadiusMeters        float64 `json:"max_radius_meters"`
	TravelTimeMinutes      int     `json:"travel_time_minutes"`
	PreparationTimeMinutes int     `json:"preparation_time_minutes"`
	TotalEstimatedMinutes  int     `json:"total_estimated_minutes"`
	FeeMinor               int64   `json:"fee_minor"`
	FreeDeliveryEligible   bool    `json:"free_delivery_eligible"`
	ExpressApplied         bool    `json:"express_applied"`
	CODAvailable           bool    `json:"cod_available"`
}

// CartItem is one requested cart line.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ItemResult pairs a cart line with its individual verdict.
type ItemResult struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Result    Result `json:"result"`
}

// SellerQuote is the per-seller breakdown inside a cart estimate. Fee and
// time are charged once per distinct seller, never per line.
type SellerQuote struct {
	SellerID         string `json:"seller_id"`
	SubtotalMinor    int64  `json:"subtotal_minor"`
	FeeMinor         int64  `json:"fee_minor"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	CanDeliver       bool   `json:"can_deliver"`
}

// CartEstimate is the merged quote for a multi-item, possibly multi-seller
// cart. Sellers fulfill in parallel, so MaxEstimatedMinutes is a max across
// sellers, not a sum.
type CartEstimate struct {
	Items               []ItemResult  `json:"items"`
	Sellers             []SellerQuote `json:"sellers"`
	OverallCanDeliver   bool          `json:"overall_can_deliver"`
	TotalFeeMinor       int64         `json:"total_fee_minor"`
	MaxEstimatedMinutes int           `json:"max_estimated_minutes"`
	BlockingItems       []string      `json:"blocking_items,omitempty"`
}

// Slot is one bookable hourly delivery window on a concrete date.
type Slot struct {
	Date              string `json:"date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	RemainingCapacity int    `json:"remaining_capacity"`
}
