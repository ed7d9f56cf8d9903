package api

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/shopspring/decimal"
)

type PauseDTO struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type ShiftDTO struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name" binding:"required"`
	Start          string     `json:"start" binding:"required"`
	End            string     `json:"end" binding:"required"`
	Pauses         []PauseDTO `json:"pauses,omitempty" binding:"dive"`
	Working        *bool      `json:"working,omitempty"`
	Color          string     `json:"color,omitempty" binding:"omitempty,hexcolor"`
	WorkingMinutes int        `json:"working_minutes"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func shiftToDTO(s *domain.Shift) ShiftDTO {
	working := s.Working
	dto := ShiftDTO{
		ID:             s.ID,
		Name:           s.Name,
		Start:          s.Start.String(),
		End:            s.End.String(),
		Working:        &working,
		Color:          s.Color,
		WorkingMinutes: s.WorkingMinutes(),
		CreatedAt:      &s.CreatedAt,
		UpdatedAt:      &s.UpdatedAt,
	}
	for _, p := range s.Pauses {
		dto.Pauses = append(dto.Pauses, PauseDTO{Start: p.Start.String(), End: p.End.String()})
	}
	return dto
}

// apply copies the request fields onto s. Working defaults to true.
func (d ShiftDTO) apply(s *domain.Shift) error {
	start, err := domain.ParseTimeOfDay(d.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := domain.ParseTimeOfDay(d.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	pauses := make([]domain.Pause, 0, len(d.Pauses))
	for i, p := range d.Pauses {
		ps, err := domain.ParseTimeOfDay(p.Start)
		if err != nil {
			return fmt.Errorf("pauses[%d].start: %w", i, err)
		}
		pe, err := domain.ParseTimeOfDay(p.End)
		if err != nil {
			return fmt.Errorf("pauses[%d].end: %w", i, err)
		}
		pauses = append(pauses, domain.Pause{Start: ps, End: pe})
	}
	if len(pauses) == 0 {
		pauses = nil
	}

	s.Name = d.Name
	s.Start = start
	s.End = end
	s.Pauses = pauses
	s.Working = domain.BoolFromPtrWithDefault(true, d.Working)
	s.Color = d.Color
	return nil
}

type MachineDTO struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name" binding:"required"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func machineToDTO(m *domain.Machine) MachineDTO {
	return MachineDTO{ID: m.ID, Name: m.Name, CreatedAt: &m.CreatedAt}
}

type SetupDTO struct {
	ItemID   string `json:"item_id" binding:"required"`
	SetupMin int    `json:"setup_min" binding:"gte=0"`
}

type RequestDTO struct {
	ID                    string          `json:"id,omitempty"`
	MachineID             string          `json:"machine_id" binding:"required"`
	ItemID                string          `json:"item_id" binding:"required"`
	ItemName              string          `json:"item_name,omitempty"`
	ItemType              string          `json:"item_type,omitempty" binding:"omitempty,oneof=product semiproduct"`
	Quantity              int64           `json:"quantity" binding:"gte=0"`
	ProductionTimePerUnit decimal.Decimal `json:"production_time_per_unit"`
	SetupMin              int             `json:"setup_min" binding:"gte=0"`
	MinBatch              int64           `json:"min_batch" binding:"gte=0"`
	IntervalBatch         int64           `json:"interval_batch" binding:"gte=0"`
	RequestedStart        *time.Time      `json:"requested_start"`
}

func requestToDTO(r *domain.ProductionRequest) RequestDTO {
	return RequestDTO{
		ID:                    r.ID,
		MachineID:             r.MachineID,
		ItemID:                r.ItemID,
		ItemName:              r.ItemName,
		ItemType:              string(r.ItemType),
		Quantity:              int64(r.Quantity),
		ProductionTimePerUnit: r.ProductionTimePerUnit,
		SetupMin:              r.SetupTimeMin,
		MinBatch:              int64(r.MinBatch),
		IntervalBatch:         int64(r.IntervalBatch),
		RequestedStart:        r.RequestedStart,
	}
}

func (d RequestDTO) apply(r *domain.ProductionRequest) {
	r.MachineID = d.MachineID
	r.ItemID = d.ItemID
	r.ItemName = d.ItemName
	r.ItemType = domain.ItemType(d.ItemType)
	r.Quantity = domain.Quantity(d.Quantity)
	r.ProductionTimePerUnit = d.ProductionTimePerUnit
	r.SetupTimeMin = d.SetupMin
	r.MinBatch = domain.Quantity(d.MinBatch)
	r.IntervalBatch = domain.Quantity(d.IntervalBatch)
	r.RequestedStart = d.RequestedStart
}

// RecalculateDTO is the optional body of a recalculation.
type RecalculateDTO struct {
	MachineIDs []string `json:"machine_ids"`
}
