package delivery

import (
	"context"
	"fmt"
	"sort"

	"localmart-be/internal/geo"
)

// BuyerContext carries the request-scoped buyer inputs of a cart estimate.
type BuyerContext struct {
	Location geo.Point
	Express  bool
}

// ProductResolver looks up the delivery view of catalog products. Missing or
// deleted ids are simply absent from the result, not errors, so a stale cart
// line never fails the whole estimate.
type ProductResolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]*Item, error)
}

// Aggregator merges per-seller feasibility into one cart-level quote.
type Aggregator struct {
	products ProductResolver
	eval     *Evaluator
}

func NewAggregator(products ProductResolver, eval *Evaluator) *Aggregator {
	return &Aggregator{products: products, eval: eval}
}

// Estimate resolves every cart line, groups lines by seller, and merges the
// verdicts. Each distinct seller contributes its fee and estimated time once;
// the free-delivery threshold is checked against the seller's cart subtotal
// so multiple lines can cross it jointly.
func (a *Aggregator) Estimate(ctx context.Context, items []CartItem, buyer BuyerContext) (*CartEstimate, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, ci := range items {
		if _, ok := seen[ci.ProductID]; ok {
			continue
		}
		seen[ci.ProductID] = struct{}{}
		ids = append(ids, ci.ProductID)
	}

	resolved, err := a.products.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	// Seller subtotals first; the per-line fee evaluation needs them.
	subtotals := map[string]int64{}
	for _, ci := range items {
		if it, ok := resolved[ci.ProductID]; ok {
			subtotals[it.SellerID] += it.PriceMinor * int64(normalizeQty(ci.Quantity))
		}
	}

	estimate := &CartEstimate{
		Items:             make([]ItemResult, 0, len(items)),
		OverallCanDeliver: true,
	}

	quotes := map[string]*SellerQuote{}
	for _, ci := range items {
		qty := normalizeQty(ci.Quantity)

		it, ok := resolved[ci.ProductID]
		if !ok {
			// Unresolvable reference: report per-item, keep evaluating
			// the rest of the cart.
			estimate.Items = append(estimate.Items, ItemResult{
				ProductID: ci.ProductID,
				Quantity:  qty,
				Result:    Result{Reason: ReasonOutOfStock},
			})
			estimate.OverallCanDeliver = false
			estimate.BlockingItems = append(estimate.BlockingItems, ci.ProductID)
			continue
		}

		res := a.eval.Evaluate(*it, buyer.Location, CheckOptions{
			Quantity:        qty,
			Express:         buyer.Express,
			OrderValueMinor: subtotals[it.SellerID],
		})
		estimate.Items = append(estimate.Items, ItemResult{
			ProductID: ci.ProductID,
			Quantity:  qty,
			Result:    res,
		})

		if !res.CanDeliver {
			estimate.OverallCanDeliver = false
			estimate.BlockingItems = append(estimate.BlockingItems, ci.ProductID)
		}

		q := quotes[it.SellerID]
		if q == nil {
			q = &SellerQuote{
				SellerID:      it.SellerID,
				SubtotalMinor: subtotals[it.SellerID],
				CanDeliver:    true,
			}
			quotes[it.SellerID] = q
		}
		if res.CanDeliver {
			// All of a seller's lines share one origin, so fee and time
			// are identical across them.
			q.FeeMinor = res.FeeMinor
			q.EstimatedMinutes = res.TotalEstimatedMinutes
		} else {
			q.CanDeliver = false
		}
	}

	sellerIDs := make([]string, 0, len(quotes))
	for id := range quotes {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Strings(sellerIDs)

	for _, id := range sellerIDs {
		q := quotes[id]
		estimate.Sellers = append(estimate.Sellers, *q)
		if !q.CanDeliver {
			continue
		}
		estimate.TotalFeeMinor += q.FeeMinor
		if q.EstimatedMinutes > estimate.MaxEstimatedMinutes {
			estimate.MaxEstimatedMinutes = q.EstimatedMinutes
		}
	}

	return estimate, nil
}

func normalizeQty(qty int) int {
	if qty <= 0 {
		return 1
	}
	return qty
}
