package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/importer"
	"github.com/alexanderramin/shopfloor/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema, filePath)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema, "")
}

// importSchema writes the whole file in one transaction. Machines and
// shifts that already exist by name are reused rather than duplicated.
func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema, source string) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	if source != "" {
		fields["file"] = source
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	var data *importer.PlanData
	data, err = importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		shiftRepo := repository.NewSQLiteShiftRepo(tx)
		machineRepo := repository.NewSQLiteMachineRepo(tx)
		requestRepo := repository.NewSQLiteRequestRepo(tx)

		existingShifts, err := shiftRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("listing shifts: %w", err)
		}
		byName := make(map[string]string, len(existingShifts))
		for _, sh := range existingShifts {
			byName[strings.ToLower(sh.Name)] = sh.ID
		}
		for _, sh := range data.Shifts {
			if id, ok := byName[strings.ToLower(sh.Name)]; ok {
				sh.ID = id
				if err := shiftRepo.Update(ctx, sh); err != nil {
					return fmt.Errorf("updating shift %q: %w", sh.Name, err)
				}
				result.UpdatedShifts++
				continue
			}
			if err := shiftRepo.Create(ctx, sh); err != nil {
				return fmt.Errorf("creating shift %q: %w", sh.Name, err)
			}
			result.ShiftCount++
		}

		for _, m := range data.Machines {
			existing, err := machineRepo.GetByName(ctx, m.Name)
			switch {
			case err == nil:
				data.RemapMachine(m.ID, existing.ID)
				result.ReusedMachines++
				continue
			case !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("looking up machine %q: %w", m.Name, err)
			}
			if err := machineRepo.Create(ctx, m); err != nil {
				return fmt.Errorf("creating machine %q: %w", m.Name, err)
			}
			result.MachineCount++
		}

		for _, su := range data.Setups {
			if err := machineRepo.SetProductSetup(ctx, su); err != nil {
				return fmt.Errorf("setting setup for item %q: %w", su.ItemID, err)
			}
			result.SetupCount++
		}

		for _, r := range data.Requests {
			if err := requestRepo.Create(ctx, r); err != nil {
				return fmt.Errorf("creating request for item %q: %w", r.ItemID, err)
			}
			result.RequestCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["shifts"] = result.ShiftCount
	fields["machines"] = result.MachineCount
	fields["requests"] = result.RequestCount
	return result, nil
}
