package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Quantity is a count of discrete production units.
type Quantity int64

// ProductionRequest is one unit of work to run on one machine. The
// scheduler treats it as read-only input.
type ProductionRequest struct {
	ID        string
	MachineID string
	ItemID    string
	ItemName  string
	ItemType  ItemType
	Quantity  Quantity

	// Minutes per unit. Fractional rates are common for multi-cavity press forms.
	ProductionTimePerUnit decimal.Decimal
	// Changeover minutes, applied only when the previous item on the machine differs.
	SetupTimeMin int

	// Lot constraints; zero means none.
	MinBatch      Quantity
	IntervalBatch Quantity

	RequestedStart *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasValidRate reports whether the per-unit time is strictly positive.
func (r *ProductionRequest) HasValidRate() bool {
	return r.ProductionTimePerUnit.IsPositive()
}

// maxRunSeconds is the longest run, in whole seconds, a time.Duration holds.
var maxRunSeconds = decimal.NewFromInt(math.MaxInt64 / int64(time.Second))

// ProductionDuration returns the run time for qty units, rounded to the
// second. A run longer than a time.Duration can hold (about 292 years) is
// reported as ErrInvalidQuantity instead of wrapping.
func (r *ProductionRequest) ProductionDuration(qty Quantity) (time.Duration, error) {
	secs := r.ProductionTimePerUnit.
		Mul(decimal.NewFromInt(int64(qty))).
		Mul(decimal.NewFromInt(60)).
		Round(0)
	if secs.GreaterThan(maxRunSeconds) {
		return 0, fmt.Errorf("%w: %d units at %s min/unit exceed the schedulable run time",
			ErrInvalidQuantity, qty, r.ProductionTimePerUnit.String())
	}
	return time.Duration(secs.IntPart()) * time.Second, nil
}

// SetupDuration returns the changeover time as a duration.
func (r *ProductionRequest) SetupDuration() time.Duration {
	return time.Duration(r.SetupTimeMin) * time.Minute
}

// DisplayName prefers the item name over its ID.
func (r *ProductionRequest) DisplayName() string {
	return CoalesceStr(r.ItemName, r.ItemID)
}
