package delivery

import (
	"math"

	"localmart-be/internal/geo"
)

// AverageSpeedMetersPerMinute is the assumed courier speed (~15 km/h,
// local two-wheeler delivery).
const AverageSpeedMetersPerMinute = 250.0

// CheckOptions tune a single feasibility evaluation.
type CheckOptions struct {
	Quantity int
	Express  bool

	// OrderValueMinor overrides price*quantity for the free-delivery
	// threshold when the caller aggregates several lines from the same
	// seller. Zero means derive from the item.
	OrderValueMinor int64
}

// Evaluator applies one seller's delivery policy to a single product. Pure
// and stateless; safe for concurrent use.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate produces a feasibility verdict and estimates for one product
// against one buyer location.
func (e *Evaluator) Evaluate(item Item, buyer geo.Point, opts CheckOptions) Result {
	qty := opts.Quantity
	if qty <= 0 {
		qty = 1
	}

	policy := item.Policy
	res := Result{
		MaxRadiusMeters:        policy.MaxRadiusMeters,
		PreparationTimeMinutes: policy.PreparationMinutes,
		CODAvailable:           policy.CODAvailable,
	}

	if !policy.Enabled {
		res.Reason = ReasonDisabled
		return res
	}

	if item.Stock < qty {
		res.Reason = ReasonOutOfStock
		return res
	}

	// Distance is reported even on rejection so callers can render
	// "how far over" messaging.
	res.DistanceMeters = geo.Distance(buyer, policy.Origin)
	if res.DistanceMeters > policy.MaxRadiusMeters {
		res.Reason = ReasonOutsideRadius
		return res
	}

	res.CanDeliver = true
	res.Reason = ReasonOK
	res.TravelTimeMinutes = int(math.Ceil(res.DistanceMeters / AverageSpeedMetersPerMinute))
	res.TotalEstimatedMinutes = policy.PreparationMinutes + res.TravelTimeMinutes

	orderValue := opts.OrderValueMinor
	if orderValue == 0 {
		orderValue = item.PriceMinor * int64(qty)
	}

	res.FreeDeliveryEligible = freeDelivery(policy, res.DistanceMeters, orderValue)
	if !res.FreeDeliveryEligible {
		res.FeeMinor = policy.BaseFeeMinor
		if opts.Express && policy.ExpressAvailable {
			res.FeeMinor += policy.ExpressSurchargeMinor
			res.ExpressApplied = true
		}
	}

	return res
}

// freeDelivery waives the fee inside the short-range radius or when the order
// value clears the seller's threshold. The two conditions are independent.
func freeDelivery(p Policy, distanceMeters float64, orderValueMinor int64) bool {
	if p.FreeRadiusMeters > 0 && distanceMeters <= p.FreeRadiusMeters {
		return true
	}
	return p.FreeThresholdMinor > 0 && orderValueMinor >= p.FreeThresholdMinor
}
