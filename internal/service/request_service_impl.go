package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/repository"
	"github.com/google/uuid"
)

type requestService struct {
	requests repository.RequestRepo
	machines repository.MachineRepo
}

func NewRequestService(requests repository.RequestRepo, machines repository.MachineRepo) RequestService {
	return &requestService{requests: requests, machines: machines}
}

func (s *requestService) Create(ctx context.Context, r *domain.ProductionRequest) error {
	if err := s.validate(ctx, r); err != nil {
		return err
	}

	r.ID = uuid.New().String()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.requests.Create(ctx, r)
}

func (s *requestService) GetByID(ctx context.Context, id string) (*domain.ProductionRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *requestService) List(ctx context.Context) ([]*domain.ProductionRequest, error) {
	return s.requests.List(ctx)
}

func (s *requestService) ListByMachine(ctx context.Context, machineID string) ([]*domain.ProductionRequest, error) {
	return s.requests.ListByMachine(ctx, machineID)
}

func (s *requestService) Update(ctx context.Context, r *domain.ProductionRequest) error {
	if err := s.validate(ctx, r); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()
	return s.requests.Update(ctx, r)
}

func (s *requestService) Delete(ctx context.Context, id string) error {
	return s.requests.Delete(ctx, id)
}

// validate rejects data the scheduler would otherwise skip at run time.
// A missing requested start is allowed: it is reported per run.
func (s *requestService) validate(ctx context.Context, r *domain.ProductionRequest) error {
	r.ItemID = strings.TrimSpace(r.ItemID)
	if r.ItemID == "" {
		return invalidf("item ID is required")
	}
	if r.ItemType == "" {
		r.ItemType = domain.ItemProduct
	}
	if !domain.ValidItemTypes[string(r.ItemType)] {
		return invalidf("item type must be product or semiproduct, got %q", r.ItemType)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidQuantity)
	}
	if !r.HasValidRate() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidRate)
	}
	if r.SetupTimeMin < 0 {
		return invalidf("setup time must not be negative, got %d", r.SetupTimeMin)
	}
	if r.MinBatch < 0 || r.IntervalBatch < 0 {
		return invalidf("batch constraints must not be negative")
	}
	if _, err := s.machines.GetByID(ctx, r.MachineID); err != nil {
		return fmt.Errorf("machine %q: %w", r.MachineID, err)
	}
	return nil
}
