package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type ShiftRepo interface {
	Create(ctx context.Context, s *domain.Shift) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	// List returns shifts in calendar resolution order.
	List(ctx context.Context) ([]*domain.Shift, error)
	Update(ctx context.Context, s *domain.Shift) error
	Delete(ctx context.Context, id string) error
}

type MachineRepo interface {
	Create(ctx context.Context, m *domain.Machine) error
	GetByID(ctx context.Context, id string) (*domain.Machine, error)
	GetByName(ctx context.Context, name string) (*domain.Machine, error)
	List(ctx context.Context) ([]*domain.Machine, error)
	Delete(ctx context.Context, id string) error
	SetProductSetup(ctx context.Context, mp domain.MachineProduct) error
	ListProductSetups(ctx context.Context, machineID string) ([]domain.MachineProduct, error)
	ListAllProductSetups(ctx context.Context) ([]domain.MachineProduct, error)
}

type RequestRepo interface {
	Create(ctx context.Context, r *domain.ProductionRequest) error
	GetByID(ctx context.Context, id string) (*domain.ProductionRequest, error)
	// List returns requests in creation order.
	List(ctx context.Context) ([]*domain.ProductionRequest, error)
	ListByMachine(ctx context.Context, machineID string) ([]*domain.ProductionRequest, error)
	Update(ctx context.Context, r *domain.ProductionRequest) error
	Delete(ctx context.Context, id string) error
}

type PlanRepo interface {
	// Save writes the plan with its blocks and skips. Callers wrap it in a
	// unit of work so a plan is never stored half written.
	Save(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	Latest(ctx context.Context) (*domain.Plan, error)
}
