package delivery

import (
	"fmt"
	"time"

	"localmart-be/internal/geo"
)

// Seller-configurable policy bounds.
const (
	MinRadiusMeters = 500
	MaxRadiusMeters = 20000

	MinPreparationMinutes = 5
	MaxPreparationMinutes = 60
)

// AvailabilityWindow is one weekly recurring window in a seller's calendar.
// Capacity is tracked per clock hour inside the window.
type AvailabilityWindow struct {
	Weekday          time.Weekday `json:"weekday"`
	StartHour        int          `json:"start_hour"`
	EndHour          int          `json:"end_hour"`
	MaxOrdersPerHour int          `json:"max_orders_per_hour"`
}

// Policy holds the seller-configured rules governing delivery radius, timing,
// and fees. The core reads it; seller management owns its lifecycle.
type Policy struct {
	Enabled               bool                 `json:"enabled"`
	Origin                geo.Point            `json:"origin"`
	MaxRadiusMeters       float64              `json:"max_radius_meters"`
	PreparationMinutes    int                  `json:"preparation_minutes"`
	BaseFeeMinor          int64                `json:"base_fee_minor"`
	FreeThresholdMinor    int64                `json:"free_threshold_minor"`
	FreeRadiusMeters      float64              `json:"free_radius_meters"`
	ExpressAvailable      bool                 `json:"express_available"`
	ExpressSurchargeMinor int64                `json:"express_surcharge_minor"`
	CODAvailable          bool                 `json:"cod_available"`
	Windows               []AvailabilityWindow `json:"windows,omitempty"`
}

// Validate checks the policy against the configurable bounds. Records come
// from seller management, but a corrupt row must not silently produce wrong
// quotes.
func (p Policy) Validate() error {
	if err := p.Origin.Validate(); err != nil {
		return fmt.Errorf("%w: origin: %v", ErrInvalidPolicy, err)
	}
	if p.MaxRadiusMeters < MinRadiusMeters || p.MaxRadiusMeters > MaxRadiusMeters {
		return fmt.Errorf("%w: max radius %.0fm outside [%d, %d]", ErrInvalidPolicy, p.MaxRadiusMeters, MinRadiusMeters, MaxRadiusMeters)
	}
	if p.PreparationMinutes < MinPreparationMinutes || p.PreparationMinutes > MaxPreparationMinutes {
		return fmt.Errorf("%w: preparation time %dmin outside [%d, %d]", ErrInvalidPolicy, p.PreparationMinutes, MinPreparationMinutes, MaxPreparationMinutes)
	}
	if p.BaseFeeMinor < 0 || p.FreeThresholdMinor < 0 || p.ExpressSurchargeMinor < 0 {
		return fmt.Errorf("%w: negative fee values", ErrInvalidPolicy)
	}
	for i, w := range p.Windows {
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("%w: window %d has invalid hours [%d, %d)", ErrInvalidPolicy, i, w.StartHour, w.EndHour)
		}
		if w.MaxOrdersPerHour <= 0 {
			return fmt.Errorf("%w: window %d has non-positive hourly capacity", ErrInvalidPolicy, i)
		}
	}
	return nil
}
