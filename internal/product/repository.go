package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"localmart-be/internal/delivery"

	"github.com/lib/pq"
)

// Repository is the read-only catalog port of the delivery core.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
	// ListDeliverable returns every delivery-enabled, in-stock product for
	// the spatial index warm-up. Availability windows are not loaded.
	ListDeliverable(ctx context.Context) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.seller_id, p.name, p.category, p.price_minor, p.stock, p.rating, p.created_at,
	dp.enabled, dp.origin_lat, dp.origin_lon, dp.max_radius_meters, dp.preparation_minutes,
	dp.base_fee_minor, dp.free_threshold_minor, dp.free_radius_meters,
	dp.express_available, dp.express_surcharge_minor, dp.cod_available`

const productBase = `
	SELECT` + productColumns + `
	FROM product p
	JOIN delivery_policy dp ON dp.seller_id = p.seller_id`

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, productBase+` WHERE p.id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
	}

	windows, err := r.loadWindows(ctx, []string{p.SellerID})
	if err != nil {
		return nil, err
	}
	p.Policy.Windows = windows[p.SellerID]

	return p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error) {
	if len(ids) == 0 {
		return map[string]*Product{}, nil
	}

	rows, err := r.db.QueryContext(ctx, productBase+` WHERE p.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
	}
	defer rows.Close()

	out := make(map[string]*Product, len(ids))
	sellerSeen := map[string]struct{}{}
	sellers := []string{}

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
		}
		out[p.ID] = p
		if _, ok := sellerSeen[p.SellerID]; !ok {
			sellerSeen[p.SellerID] = struct{}{}
			sellers = append(sellers, p.SellerID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
	}

	if len(sellers) > 0 {
		windows, err := r.loadWindows(ctx, sellers)
		if err != nil {
			return nil, err
		}
		for _, p := range out {
			p.Policy.Windows = windows[p.SellerID]
		}
	}

	return out, nil
}

func (r *repository) ListDeliverable(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, productBase+` WHERE dp.enabled = true AND p.stock > 0`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProduct, err)
	}

	return out, nil
}

func (r *repository) loadWindows(ctx context.Context, sellerIDs []string) (map[string][]delivery.AvailabilityWindow, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT seller_id, weekday, start_hour, end_hour, max_orders_per_hour
	FROM delivery_availability
	WHERE seller_id = ANY($1)
	ORDER BY seller_id, weekday, start_hour`, pq.Array(sellerIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetWindows, err)
	}
	defer rows.Close()

	out := map[string][]delivery.AvailabilityWindow{}
	for rows.Next() {
		var sellerID string
		var weekday int
		var w delivery.AvailabilityWindow
		if err := rows.Scan(&sellerID, &weekday, &w.StartHour, &w.EndHour, &w.MaxOrdersPerHour); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedGetWindows, err)
		}
		w.Weekday = time.Weekday(weekday)
		out[sellerID] = append(out[sellerID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetWindows, err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Category, &p.PriceMinor, &p.Stock, &p.Rating, &p.CreatedAt,
		&p.Policy.Enabled, &p.Policy.Origin.Latitude, &p.Policy.Origin.Longitude,
		&p.Policy.MaxRadiusMeters, &p.Policy.PreparationMinutes,
		&p.Policy.BaseFeeMinor, &p.Policy.FreeThresholdMinor, &p.Policy.FreeRadiusMeters,
		&p.Policy.ExpressAvailable, &p.Policy.ExpressSurchargeMinor, &p.Policy.CODAvailable,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
