// Package scheduler turns production requests into per-machine timelines.
// Each machine's requests run in requested-start order; a changeover block
// is inserted whenever the item changes, and every duration is consumed
// against the shift calendar rather than the wall clock.
package scheduler

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/shopfloor/internal/calendar"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

// Scheduler is stateless between runs and safe for concurrent use.
type Scheduler struct {
	workers int
}

type Option func(*Scheduler)

// WithWorkers bounds how many machines are scheduled at once. Values
// below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Workers() int { return s.workers }

// Schedule computes the timeline for every machine that has at least one
// schedulable request. Problems with individual requests are reported in
// Result.Skipped and never fail the run; the only error is ctx's.
func (s *Scheduler) Schedule(ctx context.Context, reqs []domain.ProductionRequest, cal *calendar.ShiftCalendar) (*Result, error) {
	var skipped []domain.SkippedRequest
	ready := make([]domain.ProductionRequest, 0, len(reqs))
	for _, r := range reqs {
		if r.RequestedStart == nil {
			skipped = append(skipped, skip(r, domain.SkipMissingStart))
			continue
		}
		ready = append(ready, r)
	}

	queues := GroupByMachine(ready)
	sort.Slice(queues, func(i, j int) bool { return queues[i].MachineID < queues[j].MachineID })

	outcomes := make([]machineOutcome, len(queues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range queues {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = scheduleMachine(queues[i], cal)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Machines: make([]MachineSchedule, 0, len(outcomes))}
	for _, o := range outcomes {
		res.Machines = append(res.Machines, o.schedule)
		skipped = append(skipped, o.skipped...)
	}
	res.Skipped = skipped
	return res, nil
}

type machineOutcome struct {
	schedule MachineSchedule
	skipped  []domain.SkippedRequest
}

// scheduleMachine walks one machine's queue. A request that cannot be
// placed is skipped and the walk continues with the next one; a calendar
// failure rejects the rest of the queue.
func scheduleMachine(q MachineQueue, cal *calendar.ShiftCalendar) machineOutcome {
	out := machineOutcome{schedule: MachineSchedule{MachineID: q.MachineID}}
	reqs := SortByRequestedStart(q.Requests)

	if cal == nil {
		for _, r := range reqs {
			out.skipped = append(out.skipped, skip(r, domain.SkipNoShifts))
		}
		return out
	}

	var (
		prevEnd  time.Time
		prevItem string
		started  bool
	)
	for i := range reqs {
		r := &reqs[i]
		if !r.HasValidRate() {
			out.skipped = append(out.skipped, skip(*r, domain.SkipInvalidRate))
			continue
		}
		if r.Quantity < 0 {
			out.skipped = append(out.skipped, skip(*r, domain.SkipInvalidQuantity))
			continue
		}

		qty, err := NormalizeRequest(r)
		if err != nil {
			out.skipped = append(out.skipped, skipWith(*r, domain.SkipInvalidQuantity, err))
			continue
		}
		runTime, err := r.ProductionDuration(qty)
		if err != nil {
			out.skipped = append(out.skipped, skipWith(*r, domain.SkipInvalidQuantity, err))
			continue
		}
		taskStart := *r.RequestedStart
		if started && taskStart.Before(prevEnd) {
			taskStart = prevEnd
		}

		if started && prevItem != r.ItemID && r.SetupTimeMin > 0 {
			setupEnd, err := cal.ConsumeDuration(prevEnd, r.SetupDuration())
			if err != nil {
				out.skipped = append(out.skipped, rejectRest(reqs[i:], err)...)
				return out
			}
			out.schedule.Blocks = append(out.schedule.Blocks, domain.ScheduledBlock{
				Kind:       domain.BlockSetup,
				ID:         domain.SetupBlockID(r.ID),
				RequestID:  r.ID,
				MachineID:  q.MachineID,
				FromItemID: prevItem,
				ToItemID:   r.ItemID,
				Start:      prevEnd,
				End:        setupEnd,
			})
			taskStart = setupEnd
		}

		taskEnd, err := cal.ConsumeDuration(taskStart, runTime)
		if err != nil {
			out.skipped = append(out.skipped, rejectRest(reqs[i:], err)...)
			return out
		}
		out.schedule.Blocks = append(out.schedule.Blocks, domain.ScheduledBlock{
			Kind:      domain.BlockTask,
			ID:        r.ID,
			RequestID: r.ID,
			MachineID: q.MachineID,
			ItemID:    r.ItemID,
			ItemName:  r.ItemName,
			Quantity:  qty,
			Start:     taskStart,
			End:       taskEnd,
		})

		prevEnd, prevItem, started = taskEnd, r.ItemID, true
	}
	return out
}

func skip(r domain.ProductionRequest, reason domain.SkipReason) domain.SkippedRequest {
	return domain.SkippedRequest{
		RequestID: r.ID,
		MachineID: r.MachineID,
		Reason:    reason,
		Err:       domain.ErrForReason(reason),
	}
}

func skipWith(r domain.ProductionRequest, reason domain.SkipReason, err error) domain.SkippedRequest {
	s := skip(r, reason)
	s.Err = err
	return s
}

func rejectRest(reqs []domain.ProductionRequest, err error) []domain.SkippedRequest {
	out := make([]domain.SkippedRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, skipWith(r, domain.SkipNoShifts, err))
	}
	return out
}
