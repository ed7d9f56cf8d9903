package scheduler

import (
	"fmt"
	"math"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// LotRule classifies the lot constraints on a request.
type LotRule int

const (
	// LotForLot produces exactly what was requested.
	LotForLot LotRule = iota
	// MinimumQty raises small requests to a minimum lot.
	MinimumQty
	// StandardPack rounds up to whole packs.
	StandardPack
	// MinimumStandardPack applies the minimum first, then rounds up to whole packs.
	MinimumStandardPack
)

func (r LotRule) String() string {
	switch r {
	case LotForLot:
		return "LotForLot"
	case MinimumQty:
		return "MinimumQty"
	case StandardPack:
		return "StandardPack"
	case MinimumStandardPack:
		return "MinimumStandardPack"
	default:
		return "Unknown"
	}
}

// LotRuleOf returns the rule implied by the two constraints. Non-positive
// values mean the constraint is absent.
func LotRuleOf(minBatch, intervalBatch domain.Quantity) LotRule {
	switch {
	case minBatch > 0 && intervalBatch > 0:
		return MinimumStandardPack
	case minBatch > 0:
		return MinimumQty
	case intervalBatch > 0:
		return StandardPack
	default:
		return LotForLot
	}
}

// Normalize raises quantity to minBatch, then rounds it up to the next
// multiple of intervalBatch. With both constraints absent it returns
// quantity unchanged. A round-up past the Quantity range saturates at
// math.MaxInt64; NormalizeRequest reports that case instead.
func Normalize(quantity, minBatch, intervalBatch domain.Quantity) domain.Quantity {
	q, _ := normalize(quantity, minBatch, intervalBatch)
	return q
}

func normalize(quantity, minBatch, intervalBatch domain.Quantity) (domain.Quantity, bool) {
	q := quantity
	if minBatch > 0 && q < minBatch {
		q = minBatch
	}
	if intervalBatch > 0 {
		rem := q % intervalBatch
		if rem < 0 {
			rem += intervalBatch
		}
		if rem != 0 {
			step := intervalBatch - rem
			if q > math.MaxInt64-step {
				return math.MaxInt64, false
			}
			q += step
		}
	}
	return q, true
}

// NormalizeRequest applies Normalize to a request's own constraints. It
// fails with domain.ErrInvalidQuantity when rounding up overflows.
func NormalizeRequest(r *domain.ProductionRequest) (domain.Quantity, error) {
	q, ok := normalize(r.Quantity, r.MinBatch, r.IntervalBatch)
	if !ok {
		return 0, fmt.Errorf("%w: %d rounded to packs of %d overflows",
			domain.ErrInvalidQuantity, r.Quantity, r.IntervalBatch)
	}
	return q, nil
}
