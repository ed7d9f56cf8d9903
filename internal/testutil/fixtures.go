package testutil

import (
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStart is the requested start given to fixture requests: a Monday, 06:00 UTC.
var DefaultStart = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

// Shift options
type ShiftOption func(*domain.Shift)

func WithPause(start, end string) ShiftOption {
	return func(s *domain.Shift) {
		s.Pauses = append(s.Pauses, domain.Pause{
			Start: domain.MustParseTimeOfDay(start),
			End:   domain.MustParseTimeOfDay(end),
		})
	}
}

func WithNonWorking() ShiftOption {
	return func(s *domain.Shift) {
		s.Working = false
	}
}

func WithShiftColor(c string) ShiftOption {
	return func(s *domain.Shift) {
		s.Color = c
	}
}

func NewTestShift(name, start, end string, opts ...ShiftOption) *domain.Shift {
	now := time.Now().UTC()
	s := &domain.Shift{
		ID:        uuid.New().String(),
		Name:      name,
		Start:     domain.MustParseTimeOfDay(start),
		End:       domain.MustParseTimeOfDay(end),
		Working:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestMachine(name string) *domain.Machine {
	now := time.Now().UTC()
	return &domain.Machine{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProductionRequest options
type RequestOption func(*domain.ProductionRequest)

func WithQuantity(q int64) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.Quantity = domain.Quantity(q)
	}
}

// WithRate sets the per-unit production minutes from a decimal string.
func WithRate(minutes string) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.ProductionTimePerUnit = decimal.RequireFromString(minutes)
	}
}

func WithSetupMin(m int) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.SetupTimeMin = m
	}
}

func WithBatch(minBatch, intervalBatch int64) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.MinBatch = domain.Quantity(minBatch)
		r.IntervalBatch = domain.Quantity(intervalBatch)
	}
}

func WithRequestedStart(t time.Time) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.RequestedStart = &t
	}
}

func WithoutRequestedStart() RequestOption {
	return func(r *domain.ProductionRequest) {
		r.RequestedStart = nil
	}
}

func WithItemName(name string) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.ItemName = name
	}
}

func WithItemType(t domain.ItemType) RequestOption {
	return func(r *domain.ProductionRequest) {
		r.ItemType = t
	}
}

// NewTestRequest returns ten units at one minute each, requested for DefaultStart.
func NewTestRequest(machineID, itemID string, opts ...RequestOption) *domain.ProductionRequest {
	now := time.Now().UTC()
	start := DefaultStart
	r := &domain.ProductionRequest{
		ID:                    uuid.New().String(),
		MachineID:             machineID,
		ItemID:                itemID,
		ItemType:              domain.ItemProduct,
		Quantity:              10,
		ProductionTimePerUnit: decimal.NewFromInt(1),
		RequestedStart:        &start,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
