package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"localmart-be/internal/delivery"
	"localmart-be/internal/geo"
	"localmart-be/internal/metrics"
	"localmart-be/internal/product"
	"localmart-be/internal/search"
	"localmart-be/internal/spatial"
	"localmart-be/internal/zones"

	"github.com/labstack/echo/v4"
)

// SearchService is the nearby-product surface the handler depends on.
type SearchService interface {
	Nearby(ctx context.Context, q spatial.Query) (*search.Page, error)
	Refresh(ctx context.Context, entry *spatial.Entry, productID string)
}

// DeliveryService is the feasibility surface the handler depends on.
type DeliveryService interface {
	CheckProduct(ctx context.Context, productID string, buyer geo.Point, opts delivery.CheckOptions) (*delivery.Result, error)
	ProductSlots(ctx context.Context, productID string, date time.Time) ([]delivery.Slot, error)
	EstimateCart(ctx context.Context, items []delivery.CartItem, buyer delivery.BuyerContext) (*delivery.CartEstimate, error)
	InvalidateProduct(ctx context.Context, productID string)
}

var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

type Handler struct {
	searches    SearchService
	deliveries  DeliveryService
	products    product.Repository
	zones       zones.Repository
	index       spatial.Index
	stats       *metrics.Registry
	internalKey string
}

func NewHandler(
	searches SearchService,
	deliveries DeliveryService,
	products product.Repository,
	zoneRepo zones.Repository,
	index spatial.Index,
	stats *metrics.Registry,
	internalKey string,
) *Handler {
	return &Handler{
		searches:    searches,
		deliveries:  deliveries,
		products:    products,
		zones:       zoneRepo,
		index:       index,
		stats:       stats,
		internalKey: internalKey,
	}
}

// NearbyProducts handles GET /nearby-products.
func (h *Handler) NearbyProducts(c echo.Context) error {
	var q nearbyQuery
	if err := c.Bind(&q); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	radius := q.MaxDistance
	if radius == 0 {
		radius = 5000
	}

	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	skip := 0
	if q.Page > 1 {
		skip = (q.Page - 1) * limit
	}

	page, err := h.searches.Nearby(c.Request().Context(), spatial.Query{
		Center:       geo.Point{Latitude: q.Latitude, Longitude: q.Longitude},
		RadiusMeters: radius,
		Category:     q.Category,
		SortBy:       spatial.SortBy(q.SortBy),
		Skip:         skip,
		Limit:        limit,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, page)
}

// CheckDelivery handles POST /delivery/check/:productId.
func (h *Handler) CheckDelivery(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.deliveries.CheckProduct(
		c.Request().Context(),
		c.Param("productId"),
		geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude},
		delivery.CheckOptions{Quantity: req.Quantity, Express: req.Express},
	)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

// DeliverySlots handles GET /delivery/slots/:productId?date=YYYY-MM-DD.
func (h *Handler) DeliverySlots(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	slots, err := h.deliveries.ProductSlots(c.Request().Context(), c.Param("productId"), date)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

// EstimateCart handles POST /delivery/estimate-cart.
func (h *Handler) EstimateCart(c echo.Context) error {
	var req estimateCartRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]delivery.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, delivery.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	estimate, err := h.deliveries.EstimateCart(c.Request().Context(), items, delivery.BuyerContext{
		Location: geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Express:  req.Express,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, estimate)
}

// DeliveryZone handles GET /delivery/zones/:pincode.
func (h *Handler) DeliveryZone(c echo.Context) error {
	pincode := c.Param("pincode")
	if !pincodeRe.MatchString(pincode) {
		return respondError(c, http.StatusBadRequest, "pincode must be six digits")
	}

	zone, err := h.zones.GetByPincode(c.Request().Context(), pincode)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, zone)
}

// RefreshProduct handles POST /internal/products/:productId/refresh, the
// catalog-sync hook. Re-reads the product, updates the spatial index, and
// drops stale cached results for it.
func (h *Handler) RefreshProduct(c echo.Context) error {
	if h.internalKey == "" || c.Request().Header.Get("X-Service-Auth") != h.internalKey {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx := c.Request().Context()
	productID := c.Param("productId")

	p, err := h.products.GetByID(ctx, productID)
	switch {
	case errors.Is(err, product.ErrNotFound):
		h.searches.Refresh(ctx, nil, productID)
	case err != nil:
		return mapServiceError(c, err)
	case p.Policy.Enabled && p.Stock > 0:
		entry := p.SpatialEntry()
		h.searches.Refresh(ctx, &entry, productID)
	default:
		h.searches.Refresh(ctx, nil, productID)
	}

	h.deliveries.InvalidateProduct(ctx, productID)

	return c.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(h.stats.Uptime().Seconds()),
		"indexed":        h.index.Len(),
		"counters":       h.stats.Snapshot(),
	})
}
