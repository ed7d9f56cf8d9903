package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanData is a converted plan file, ready for persistence.
type PlanData struct {
	Shifts   []*domain.Shift
	Machines []*domain.Machine
	Setups   []domain.MachineProduct
	Requests []*domain.ProductionRequest
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*PlanData, error) {
	now := time.Now().UTC()
	out := &PlanData{}

	for i, s := range schema.Shifts {
		shift, errs := parseShift(fmt.Sprintf("shifts[%d]", i), s)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		shift.ID = uuid.New().String()
		shift.CreatedAt = now
		shift.UpdatedAt = now
		out.Shifts = append(out.Shifts, &shift)
	}

	refMap := make(map[string]string) // machine ref -> UUID
	for _, m := range schema.Machines {
		id := uuid.New().String()
		refMap[m.Ref] = id
		out.Machines = append(out.Machines, &domain.Machine{
			ID:        id,
			Name:      m.Name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		for _, su := range m.Setups {
			out.Setups = append(out.Setups, domain.MachineProduct{
				MachineID:    id,
				ItemID:       su.ItemID,
				SetupTimeMin: su.SetupMin,
			})
		}
	}

	for _, r := range schema.Requests {
		machineID, ok := refMap[r.MachineRef]
		if !ok {
			return nil, fmt.Errorf("machine_ref %q not found for request %q", r.MachineRef, r.Ref)
		}
		rate, err := decimal.NewFromString(string(r.ProductionTimePerUnit))
		if err != nil {
			return nil, fmt.Errorf("request %q: parsing production_time_per_unit: %w", r.Ref, err)
		}
		var start *time.Time
		if r.RequestedStart != nil && *r.RequestedStart != "" {
			t, err := time.Parse(time.RFC3339, *r.RequestedStart)
			if err != nil {
				return nil, fmt.Errorf("request %q: parsing requested_start: %w", r.Ref, err)
			}
			start = &t
		}

		out.Requests = append(out.Requests, &domain.ProductionRequest{
			ID:                    uuid.New().String(),
			MachineID:             machineID,
			ItemID:                r.ItemID,
			ItemName:              r.ItemName,
			ItemType:              domain.ItemType(domain.CoalesceStr(r.ItemType, string(domain.ItemProduct))),
			Quantity:              domain.Quantity(r.Quantity),
			ProductionTimePerUnit: rate,
			SetupTimeMin:          r.SetupMin,
			MinBatch:              domain.Quantity(r.MinBatch),
			IntervalBatch:         domain.Quantity(r.IntervalBatch),
			RequestedStart:        start,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
	}

	return out, nil
}

// RemapMachine points every setup and request of oldID at newID. The
// import service uses it when a machine in the file already exists.
func (p *PlanData) RemapMachine(oldID, newID string) {
	for i := range p.Setups {
		if p.Setups[i].MachineID == oldID {
			p.Setups[i].MachineID = newID
		}
	}
	for _, r := range p.Requests {
		if r.MachineID == oldID {
			r.MachineID = newID
		}
	}
}
