package product

import (
	"context"

	"localmart-be/internal/delivery"
)

// Resolver adapts the catalog repository to the delivery core's
// ProductResolver port. Missing ids are absent from the result, never errors.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) Resolve(ctx context.Context, ids []string) (map[string]*delivery.Item, error) {
	products, err := r.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*delivery.Item, len(products))
	for id, p := range products {
		out[id] = p.DeliveryItem()
	}
	return out, nil
}
