package geo

import (
	"errors"
	"fmt"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point is an immutable geographic coordinate (WGS 84).
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the point lies within valid WGS 84 ranges.
func (p Point) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinates)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinates)
	}
	return nil
}
