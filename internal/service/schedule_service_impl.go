package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/app"
	"github.com/alexanderramin/shopfloor/internal/calendar"
	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/metrics"
	"github.com/alexanderramin/shopfloor/internal/repository"
	"github.com/alexanderramin/shopfloor/internal/scheduler"
	"github.com/google/uuid"
)

// ScheduleOptions configures how schedules are built and reported.
type ScheduleOptions struct {
	Calendar []calendar.Option
	Workers  int
	Metrics  *metrics.Metrics

	// When set, metrics are pushed after every build.
	PushgatewayURL string
	PushJob        string
}

type scheduleService struct {
	shifts   repository.ShiftRepo
	machines repository.MachineRepo
	requests repository.RequestRepo
	plans    repository.PlanRepo
	uow      db.UnitOfWork

	engine   *scheduler.Scheduler
	calOpts  []calendar.Option
	fallback calendar.FallbackPolicy
	gap      calendar.GapPolicy
	metrics  *metrics.Metrics
	pushURL  string
	pushJob  string
	observer UseCaseObserver
}

func NewScheduleService(
	shifts repository.ShiftRepo,
	machines repository.MachineRepo,
	requests repository.RequestRepo,
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	opts ScheduleOptions,
	observers ...UseCaseObserver,
) ScheduleService {
	fallback, gap := calendar.PoliciesOf(opts.Calendar...)
	return &scheduleService{
		shifts:   shifts,
		machines: machines,
		requests: requests,
		plans:    plans,
		uow:      uow,
		engine:   scheduler.New(scheduler.WithWorkers(opts.Workers)),
		calOpts:  opts.Calendar,
		fallback: fallback,
		gap:      gap,
		metrics:  opts.Metrics,
		pushURL:  opts.PushgatewayURL,
		pushJob:  domain.CoalesceStr(opts.PushJob, "shopfloor"),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Build(ctx context.Context, req app.ScheduleRequest) (resp *app.ScheduleResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"commit":   req.Commit,
		"machines": len(req.MachineIDs),
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "build-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	generatedAt := startedAt
	if req.Now != nil {
		generatedAt = *req.Now
	}

	var warnings []string
	cal, calErr := s.loadCalendar(ctx)
	if calErr != nil {
		if !errors.Is(calErr, domain.ErrNoShiftsConfigured) {
			return nil, calErr
		}
		if req.Commit {
			return nil, &app.ScheduleError{
				Code:    app.ScheduleErrNoShifts,
				Message: "refusing to commit a plan without shifts: " + calErr.Error(),
				Err:     calErr,
			}
		}
		warnings = append(warnings, calErr.Error()+"; every request is skipped")
	}

	reqs, err := s.loadRequests(ctx, req.MachineIDs)
	if err != nil {
		return nil, err
	}
	fields["requests"] = len(reqs)

	result, err := s.engine.Schedule(ctx, reqs, cal)
	if err != nil {
		return nil, err
	}

	names, err := s.machineNames(ctx)
	if err != nil {
		return nil, err
	}
	resp = buildResponse(result, names, generatedAt, s.fallback.String(), s.gap.String())
	if n := result.SkippedByReason()[domain.SkipMissingStart]; n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d request(s) have no requested start", n))
	}

	if req.Commit {
		plan := &domain.Plan{
			ID:             uuid.New().String(),
			FallbackPolicy: s.fallback.String(),
			GapPolicy:      s.gap.String(),
			CreatedAt:      startedAt,
			Blocks:         result.Blocks(),
			Skipped:        result.Skipped,
		}
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return repository.NewSQLitePlanRepo(tx).Save(ctx, plan)
		})
		if err != nil {
			return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "saving plan", Err: err}
		}
		resp.PlanID = plan.ID
		resp.Committed = true
		fields["plan_id"] = plan.ID
	}

	counts := result.Counts()
	fields["tasks"] = counts.Tasks
	fields["skipped"] = counts.Skipped
	s.record(result, req.Commit, time.Since(startedAt), resp.Summary.Horizon)
	if s.pushURL != "" && s.metrics != nil {
		if pushErr := s.metrics.Push(ctx, s.pushURL, s.pushJob); pushErr != nil {
			warnings = append(warnings, pushErr.Error())
		}
	}

	resp.Warnings = warnings
	return resp, nil
}

func (s *scheduleService) Latest(ctx context.Context) (resp *app.ScheduleResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "latest-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	plan, err := s.plans.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &app.ScheduleError{Code: app.ScheduleErrNotFound, Message: "no committed plan", Err: err}
		}
		return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading latest plan", Err: err}
	}
	fields["plan_id"] = plan.ID

	names, err := s.machineNames(ctx)
	if err != nil {
		return nil, err
	}
	resp = buildResponse(resultFromPlan(plan), names, plan.CreatedAt, plan.FallbackPolicy, plan.GapPolicy)
	resp.PlanID = plan.ID
	resp.Committed = true
	return resp, nil
}

// loadCalendar builds the calendar from the stored shifts. A missing or
// idle shift set comes back as ErrNoShiftsConfigured; any other invalid
// shift is a ScheduleError.
func (s *scheduleService) loadCalendar(ctx context.Context) (*calendar.ShiftCalendar, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading shifts", Err: err}
	}
	cal, err := calendar.New(derefShifts(shifts), s.calOpts...)
	switch {
	case err == nil:
		return cal, nil
	case errors.Is(err, domain.ErrNoShiftsConfigured):
		return nil, err
	default:
		return nil, &app.ScheduleError{Code: app.ScheduleErrInvalidCalendar, Message: err.Error(), Err: err}
	}
}

// loadRequests returns the requests to schedule, scoped to machineIDs when
// given. A request with no setup time of its own takes the machine's setup
// matrix entry for its item.
func (s *scheduleService) loadRequests(ctx context.Context, machineIDs []string) ([]domain.ProductionRequest, error) {
	var stored []*domain.ProductionRequest
	if len(machineIDs) == 0 {
		all, err := s.requests.List(ctx)
		if err != nil {
			return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading requests", Err: err}
		}
		stored = all
	}
	seen := make(map[string]bool, len(machineIDs))
	for _, id := range machineIDs {
		// Names and IDs can resolve to the same machine; schedule it once.
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.machines.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &app.ScheduleError{Code: app.ScheduleErrNotFound, Message: fmt.Sprintf("machine %q not found", id), Err: err}
			}
			return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading machine", Err: err}
		}
		byMachine, err := s.requests.ListByMachine(ctx, id)
		if err != nil {
			return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading requests", Err: err}
		}
		stored = append(stored, byMachine...)
	}

	setups, err := s.machines.ListAllProductSetups(ctx)
	if err != nil {
		return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading setup matrix", Err: err}
	}
	matrix := make(map[[2]string]int, len(setups))
	for _, mp := range setups {
		matrix[[2]string{mp.MachineID, mp.ItemID}] = mp.SetupTimeMin
	}

	out := make([]domain.ProductionRequest, 0, len(stored))
	for _, r := range stored {
		req := *r
		if req.SetupTimeMin == 0 {
			req.SetupTimeMin = matrix[[2]string{req.MachineID, req.ItemID}]
		}
		out = append(out, req)
	}
	return out, nil
}

func (s *scheduleService) machineNames(ctx context.Context) (map[string]string, error) {
	machines, err := s.machines.List(ctx)
	if err != nil {
		return nil, &app.ScheduleError{Code: app.ScheduleErrInternal, Message: "loading machines", Err: err}
	}
	names := make(map[string]string, len(machines))
	for _, m := range machines {
		names[m.ID] = m.Name
	}
	return names, nil
}

func (s *scheduleService) record(result *scheduler.Result, committed bool, d time.Duration, horizon *time.Time) {
	if s.metrics == nil {
		return
	}
	counts := result.Counts()
	skipped := make(map[string]int)
	for reason, n := range result.SkippedByReason() {
		skipped[string(reason)] = n
	}
	s.metrics.RecordSchedule(metrics.ScheduleRun{
		Committed: committed,
		Duration:  d,
		Tasks:     counts.Tasks,
		Setups:    counts.Setups,
		Skipped:   skipped,
		Horizon:   horizon,
	})
}

func buildResponse(result *scheduler.Result, names map[string]string, generatedAt time.Time, fallback, gap string) *app.ScheduleResponse {
	counts := result.Counts()
	resp := &app.ScheduleResponse{
		Summary: app.ScheduleSummary{
			GeneratedAt:    generatedAt,
			FallbackPolicy: fallback,
			GapPolicy:      gap,
			MachineCount:   len(result.Machines),
			TaskCount:      counts.Tasks,
			SetupCount:     counts.Setups,
			SkippedCount:   counts.Skipped,
		},
		Machines: make([]app.MachineTimeline, 0, len(result.Machines)),
		Skipped:  make([]app.SkippedEntry, 0, len(result.Skipped)),
	}

	for i := range result.Machines {
		ms := &result.Machines[i]
		task, setup := ms.Busy()
		timeline := app.MachineTimeline{
			MachineID:   ms.MachineID,
			MachineName: names[ms.MachineID],
			Blocks:      make([]app.BlockView, 0, len(ms.Blocks)),
			TaskMin:     task.Minutes(),
			SetupMin:    setup.Minutes(),
		}
		for _, b := range ms.Blocks {
			timeline.Blocks = append(timeline.Blocks, app.BlockView{
				ID:         b.ID,
				Kind:       b.Kind,
				RequestID:  b.RequestID,
				ItemID:     b.ItemID,
				ItemName:   b.ItemName,
				FromItemID: b.FromItemID,
				ToItemID:   b.ToItemID,
				Quantity:   int64(b.Quantity),
				Start:      b.Start,
				End:        b.End,
				Minutes:    b.Duration().Minutes(),
			})
		}
		if len(ms.Blocks) > 0 {
			end := ms.End()
			timeline.End = &end
			if resp.Summary.Horizon == nil || end.After(*resp.Summary.Horizon) {
				resp.Summary.Horizon = &end
			}
		}
		resp.Machines = append(resp.Machines, timeline)
	}

	for _, sk := range result.Skipped {
		resp.Skipped = append(resp.Skipped, app.SkippedEntry{
			RequestID: sk.RequestID,
			MachineID: sk.MachineID,
			Reason:    sk.Reason,
			Message:   sk.Message(),
		})
	}
	return resp
}

// resultFromPlan regroups a stored plan's blocks by machine. Blocks are
// stored in machine order, so the grouping keeps each timeline intact.
func resultFromPlan(p *domain.Plan) *scheduler.Result {
	result := &scheduler.Result{Skipped: p.Skipped}
	for _, b := range p.Blocks {
		n := len(result.Machines)
		if n == 0 || result.Machines[n-1].MachineID != b.MachineID {
			result.Machines = append(result.Machines, scheduler.MachineSchedule{MachineID: b.MachineID})
			n++
		}
		result.Machines[n-1].Blocks = append(result.Machines[n-1].Blocks, b)
	}
	return result
}
