package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string { return &s }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Shifts: []ShiftImport{
			{Name: "Early", Start: "06:00", End: "14:00"},
		},
		Machines: []MachineImport{
			{Ref: "m1", Name: "Press"},
		},
		Requests: []RequestImport{
			{Ref: "r1", MachineRef: "m1", ItemID: "A", Quantity: 10, ProductionTimePerUnit: "1",
				RequestedStart: ptrStr("2025-06-02T06:00:00Z")},
		},
	}
}

func joinErrs(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_EmptyIsValid(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(&ImportSchema{}))
}

func TestValidateImportSchema_TagRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *ImportSchema)
		wantMsg string
	}{
		{"missing shift name", func(s *ImportSchema) { s.Shifts[0].Name = "" }, "shifts[0].name is required"},
		{"missing shift start", func(s *ImportSchema) { s.Shifts[0].Start = "" }, "shifts[0].start is required"},
		{"bad color", func(s *ImportSchema) { s.Shifts[0].Color = "blue" }, "shifts[0].color must be a hex color"},
		{"missing machine ref", func(s *ImportSchema) { s.Machines[0].Ref = "" }, "machines[0].ref is required"},
		{"negative setup", func(s *ImportSchema) {
			s.Machines[0].Setups = []SetupImport{{ItemID: "A", SetupMin: -5}}
		}, "machines[0].setups[0].setup_min must be >= 0"},
		{"missing item", func(s *ImportSchema) { s.Requests[0].ItemID = "" }, "requests[0].item_id is required"},
		{"negative quantity", func(s *ImportSchema) { s.Requests[0].Quantity = -1 }, "requests[0].quantity must be >= 0"},
		{"missing rate", func(s *ImportSchema) { s.Requests[0].ProductionTimePerUnit = "" }, "requests[0].production_time_per_unit is required"},
		{"bad item type", func(s *ImportSchema) { s.Requests[0].ItemType = "raw" }, "requests[0].item_type must be one of [product semiproduct]"},
		{"negative min batch", func(s *ImportSchema) { s.Requests[0].MinBatch = -10 }, "requests[0].min_batch must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			tt.mutate(s)
			errs := ValidateImportSchema(s)
			assert.NotEmpty(t, errs)
			assert.Contains(t, joinErrs(errs), tt.wantMsg)
		})
	}
}

func TestValidateImportSchema_ShiftTimes(t *testing.T) {
	s := validMinimalSchema()
	s.Shifts = append(s.Shifts,
		ShiftImport{Name: "Broken", Start: "25:00", End: "06:00"},
		ShiftImport{Name: "Empty", Start: "10:00", End: "10:00"},
		ShiftImport{Name: "BadPause", Start: "06:00", End: "14:00", Pauses: []PauseImport{{Start: "15:00", End: "15:30"}}},
	)

	errs := ValidateImportSchema(s)
	all := joinErrs(errs)
	assert.Contains(t, all, "shifts[1].start")
	assert.Contains(t, all, "shifts[2]")
	assert.Contains(t, all, "shifts[3]")

	var sawFormat, sawZero, sawPause bool
	for _, e := range errs {
		sawFormat = sawFormat || errors.Is(e, domain.ErrInvalidShiftFormat)
		sawZero = sawZero || errors.Is(e, domain.ErrZeroLengthShift)
		sawPause = sawPause || errors.Is(e, domain.ErrInvalidPause)
	}
	assert.True(t, sawFormat, "malformed HH:MM keeps its sentinel")
	assert.True(t, sawZero, "start == end is a zero-length shift")
	assert.True(t, sawPause, "pause outside the window is rejected")
}

func TestValidateImportSchema_EndOfDayAccepted(t *testing.T) {
	s := validMinimalSchema()
	s.Shifts = []ShiftImport{{Name: "Evening", Start: "18:00", End: "24:00"}}
	assert.Empty(t, ValidateImportSchema(s))
}

func TestValidateImportSchema_Duplicates(t *testing.T) {
	s := validMinimalSchema()
	s.Shifts = append(s.Shifts, ShiftImport{Name: "early", Start: "14:00", End: "22:00"})
	s.Machines = append(s.Machines, MachineImport{Ref: "m1", Name: "PRESS"})
	s.Machines[0].Setups = []SetupImport{{ItemID: "A", SetupMin: 5}, {ItemID: "A", SetupMin: 10}}
	s.Requests = append(s.Requests, s.Requests[0])

	all := joinErrs(ValidateImportSchema(s))
	assert.Contains(t, all, `shifts[1].name: duplicate shift "early"`)
	assert.Contains(t, all, `machines[1].ref: duplicate ref "m1"`)
	assert.Contains(t, all, `machines[1].name: duplicate machine "PRESS"`)
	assert.Contains(t, all, `machines[0].setups[1].item_id: duplicate item "A"`)
	assert.Contains(t, all, `requests[1].ref: duplicate ref "r1"`)
}

func TestValidateImportSchema_RequestCrossChecks(t *testing.T) {
	s := validMinimalSchema()
	s.Requests = append(s.Requests,
		RequestImport{Ref: "r2", MachineRef: "ghost", ItemID: "B", ProductionTimePerUnit: "1"},
		RequestImport{Ref: "r3", MachineRef: "m1", ItemID: "C", ProductionTimePerUnit: "abc"},
		RequestImport{Ref: "r4", MachineRef: "m1", ItemID: "D", ProductionTimePerUnit: "0"},
		RequestImport{Ref: "r5", MachineRef: "m1", ItemID: "E", ProductionTimePerUnit: "1", RequestedStart: ptrStr("2025-06-02 06:00")},
	)

	errs := ValidateImportSchema(s)
	all := joinErrs(errs)
	assert.Contains(t, all, `requests[1].machine_ref: ref "ghost" not found in machines`)
	assert.Contains(t, all, `requests[2].production_time_per_unit: invalid number "abc"`)
	assert.Contains(t, all, "requests[3].production_time_per_unit")
	assert.Contains(t, all, `requests[4].requested_start: invalid timestamp`)

	var sawRate bool
	for _, e := range errs {
		sawRate = sawRate || errors.Is(e, domain.ErrInvalidRate)
	}
	assert.True(t, sawRate)
}

func TestValidateImportSchema_MissingStartIsAllowed(t *testing.T) {
	s := validMinimalSchema()
	s.Requests[0].RequestedStart = nil
	assert.Empty(t, ValidateImportSchema(s), "requests without a start are skipped at scheduling, not rejected at import")
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	s := &ImportSchema{
		Shifts:   []ShiftImport{{}},
		Machines: []MachineImport{{}},
		Requests: []RequestImport{{Quantity: -1}},
	}
	errs := ValidateImportSchema(s)
	assert.GreaterOrEqual(t, len(errs), 8)
}
