package zones

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrZoneNotFound  = errors.New("zone not found")
	ErrFailedGetZone = errors.New("failed to get zone")
)

// Zone is static delivery-zone metadata keyed by pincode. Pass-through data;
// no core logic depends on it.
type Zone struct {
	Pincode      string `json:"pincode"`
	City         string `json:"city"`
	State        string `json:"state"`
	Region       string `json:"region"`
	CODAvailable bool   `json:"cod_available"`
	Serviceable  bool   `json:"serviceable"`
}

type Repository interface {
	GetByPincode(ctx context.Context, pincode string) (*Zone, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByPincode(ctx context.Context, pincode string) (*Zone, error) {
	var z Zone
	err := r.db.QueryRowContext(ctx, `
	SELECT pincode, city, state, region, cod_available, serviceable
	FROM delivery_zone
	WHERE pincode = $1`, pincode).
		Scan(&z.Pincode, &z.City, &z.State, &z.Region, &z.CODAvailable, &z.Serviceable)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetZone, err)
	}

	return &z, nil
}
