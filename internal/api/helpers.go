package api

import (
	"errors"
	"net/http"

	"localmart-be/internal/delivery"
	"localmart-be/internal/geo"
	"localmart-be/internal/logger"
	"localmart-be/internal/product"
	"localmart-be/internal/spatial"
	"localmart-be/internal/zones"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"error": message})
}

// mapServiceError translates core errors onto HTTP statuses. Policy outcomes
// never arrive here; they are response data.
func mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, delivery.ErrProductNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, zones.ErrZoneNotFound):
		return respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, delivery.ErrDateOutOfRange),
		errors.Is(err, delivery.ErrEmptyCart),
		errors.Is(err, geo.ErrInvalidCoordinates),
		errors.Is(err, spatial.ErrInvalidQuery):
		return respondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.FromCtx(c.Request().Context()).Error("request failed", zap.Error(err))
		return respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
