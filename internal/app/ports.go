package app

import (
	"context"

	"github.com/alexanderramin/shopfloor/internal/importer"
)

type ScheduleUseCase interface {
	Build(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error)
	Latest(ctx context.Context) (*ScheduleResponse, error)
}

type ImportResult struct {
	ShiftCount   int
	MachineCount int
	SetupCount   int
	RequestCount int
	// Machines and shifts in the file that matched existing ones by name.
	ReusedMachines int
	UpdatedShifts  int
}

type ImportPlanUseCase interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
