package service

import (
	"context"

	"github.com/alexanderramin/shopfloor/internal/app"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

type ShiftService interface {
	Create(ctx context.Context, s *domain.Shift) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	// List returns shifts in calendar resolution order.
	List(ctx context.Context) ([]*domain.Shift, error)
	Update(ctx context.Context, s *domain.Shift) error
	Delete(ctx context.Context, id string) error
}

type MachineService interface {
	Create(ctx context.Context, m *domain.Machine) error
	GetByID(ctx context.Context, id string) (*domain.Machine, error)
	// Resolve accepts a machine ID or a case-insensitive name.
	Resolve(ctx context.Context, idOrName string) (*domain.Machine, error)
	List(ctx context.Context) ([]*domain.Machine, error)
	Delete(ctx context.Context, id string) error
	SetSetup(ctx context.Context, machineID, itemID string, setupMin int) error
	ListSetups(ctx context.Context, machineID string) ([]domain.MachineProduct, error)
}

type RequestService interface {
	Create(ctx context.Context, r *domain.ProductionRequest) error
	GetByID(ctx context.Context, id string) (*domain.ProductionRequest, error)
	List(ctx context.Context) ([]*domain.ProductionRequest, error)
	ListByMachine(ctx context.Context, machineID string) ([]*domain.ProductionRequest, error)
	Update(ctx context.Context, r *domain.ProductionRequest) error
	Delete(ctx context.Context, id string) error
}

type ScheduleService = app.ScheduleUseCase

type ImportResult = app.ImportResult

type ImportService = app.ImportPlanUseCase
