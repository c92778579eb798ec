package api

import (
	"localmart-be/internal/logger"
	"localmart-be/internal/middleware"

	"github.com/labstack/echo/v4"
)

// NewRouter wires the HTTP surface: request-id and logging first, then the
// tiered rate limiter, then the routes.
func NewRouter(h *Handler, limiter *middleware.RateLimiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(logger.RequestIDMiddleware)
	e.Use(logger.RequestLogMiddleware)
	e.Use(limiter.Middleware)

	e.GET("/healthz", h.Healthz)
	e.GET("/nearby-products", h.NearbyProducts)
	e.GET("/delivery/zones/:pincode", h.DeliveryZone)
	e.GET("/delivery/slots/:productId", h.DeliverySlots)
	e.POST("/delivery/check/:productId", h.CheckDelivery)
	e.POST("/delivery/estimate-cart", h.EstimateCart)
	e.POST("/internal/products/:productId/refresh", h.RefreshProduct)

	return e
}
