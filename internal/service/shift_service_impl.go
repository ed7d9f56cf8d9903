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

type shiftService struct {
	shifts repository.ShiftRepo
}

func NewShiftService(shifts repository.ShiftRepo) ShiftService {
	return &shiftService{shifts: shifts}
}

func (s *shiftService) Create(ctx context.Context, shift *domain.Shift) error {
	shift.Name = strings.TrimSpace(shift.Name)
	if err := s.validate(ctx, shift); err != nil {
		return err
	}

	shift.ID = uuid.New().String()
	now := time.Now().UTC()
	shift.CreatedAt = now
	shift.UpdatedAt = now
	return s.shifts.Create(ctx, shift)
}

func (s *shiftService) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	return s.shifts.GetByID(ctx, id)
}

func (s *shiftService) List(ctx context.Context) ([]*domain.Shift, error) {
	return s.shifts.List(ctx)
}

func (s *shiftService) Update(ctx context.Context, shift *domain.Shift) error {
	shift.Name = strings.TrimSpace(shift.Name)
	if err := s.validate(ctx, shift); err != nil {
		return err
	}
	shift.UpdatedAt = time.Now().UTC()
	return s.shifts.Update(ctx, shift)
}

func (s *shiftService) Delete(ctx context.Context, id string) error {
	return s.shifts.Delete(ctx, id)
}

// validate checks the shift on its own and its name against the other
// configured shifts. Whether the whole set still has working time is
// decided when a calendar is built from it.
func (s *shiftService) validate(ctx context.Context, shift *domain.Shift) error {
	if shift.Name == "" {
		return invalidf("shift name is required")
	}
	if err := shift.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := s.shifts.List(ctx)
	if err != nil {
		return fmt.Errorf("listing shifts: %w", err)
	}
	for _, other := range existing {
		if other.ID != shift.ID && strings.EqualFold(other.Name, shift.Name) {
			return invalidf("shift %q already exists", shift.Name)
		}
	}
	return nil
}
