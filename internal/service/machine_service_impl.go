package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/repository"
	"github.com/google/uuid"
)

type machineService struct {
	machines repository.MachineRepo
}

func NewMachineService(machines repository.MachineRepo) MachineService {
	return &machineService{machines: machines}
}

func (s *machineService) Create(ctx context.Context, m *domain.Machine) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return invalidf("machine name is required")
	}
	if _, err := s.machines.GetByName(ctx, m.Name); err == nil {
		return invalidf("machine %q already exists", m.Name)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("checking machine name: %w", err)
	}

	m.ID = uuid.New().String()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.machines.Create(ctx, m)
}

func (s *machineService) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	return s.machines.GetByID(ctx, id)
}

func (s *machineService) Resolve(ctx context.Context, idOrName string) (*domain.Machine, error) {
	m, err := s.machines.GetByID(ctx, idOrName)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	m, err = s.machines.GetByName(ctx, strings.TrimSpace(idOrName))
	if err != nil {
		return nil, fmt.Errorf("machine %q: %w", idOrName, err)
	}
	return m, nil
}

func (s *machineService) List(ctx context.Context) ([]*domain.Machine, error) {
	return s.machines.List(ctx)
}

// Delete removes the machine together with its setup matrix and requests.
func (s *machineService) Delete(ctx context.Context, id string) error {
	return s.machines.Delete(ctx, id)
}

func (s *machineService) SetSetup(ctx context.Context, machineID, itemID string, setupMin int) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return invalidf("item ID is required")
	}
	if setupMin < 0 {
		return invalidf("setup time must not be negative, got %d", setupMin)
	}
	if _, err := s.machines.GetByID(ctx, machineID); err != nil {
		return err
	}
	return s.machines.SetProductSetup(ctx, domain.MachineProduct{
		MachineID:    machineID,
		ItemID:       itemID,
		SetupTimeMin: setupMin,
	})
}

func (s *machineService) ListSetups(ctx context.Context, machineID string) ([]domain.MachineProduct, error) {
	return s.machines.ListProductSetups(ctx, machineID)
}
