package app

import (
	"sort"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

type ScheduleRequest struct {
	Now        *time.Time
	MachineIDs []string
	Commit     bool
}

func NewScheduleRequest() ScheduleRequest {
	return ScheduleRequest{}
}

// BlockView is one timeline block as presented to callers.
type BlockView struct {
	ID         string           `json:"id"`
	Kind       domain.BlockKind `json:"kind"`
	RequestID  string           `json:"request_id"`
	ItemID     string           `json:"item_id,omitempty"`
	ItemName   string           `json:"item_name,omitempty"`
	FromItemID string           `json:"from_item_id,omitempty"`
	ToItemID   string           `json:"to_item_id,omitempty"`
	Quantity   int64            `json:"quantity,omitempty"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	Minutes    float64          `json:"minutes"`
}

// Label is the text drawn on a timeline bar.
func (b *BlockView) Label() string {
	if b.Kind == domain.BlockSetup {
		return b.FromItemID + " -> " + b.ToItemID
	}
	return domain.CoalesceStr(b.ItemName, b.ItemID)
}

type MachineTimeline struct {
	MachineID   string      `json:"machine_id"`
	MachineName string      `json:"machine_name,omitempty"`
	Blocks      []BlockView `json:"blocks"`
	TaskMin     float64     `json:"task_min"`
	SetupMin    float64     `json:"setup_min"`
	End         *time.Time  `json:"end,omitempty"`
}

type SkippedEntry struct {
	RequestID string            `json:"request_id"`
	MachineID string            `json:"machine_id"`
	Reason    domain.SkipReason `json:"reason"`
	Message   string            `json:"message"`
}

type ScheduleSummary struct {
	GeneratedAt    time.Time  `json:"generated_at"`
	FallbackPolicy string     `json:"fallback_policy"`
	GapPolicy      string     `json:"gap_policy"`
	MachineCount   int        `json:"machine_count"`
	TaskCount      int        `json:"task_count"`
	SetupCount     int        `json:"setup_count"`
	SkippedCount   int        `json:"skipped_count"`
	Horizon        *time.Time `json:"horizon,omitempty"`
}

type ScheduleResponse struct {
	PlanID    string            `json:"plan_id,omitempty"`
	Committed bool              `json:"committed"`
	Summary   ScheduleSummary   `json:"summary"`
	Machines  []MachineTimeline `json:"machines"`
	Skipped   []SkippedEntry    `json:"skipped"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// TimelineBar is the tuple a Gantt renderer needs: one bar per block, laned by machine.
type TimelineBar struct {
	ID    string           `json:"id"`
	Start time.Time        `json:"start"`
	End   time.Time        `json:"end"`
	Lane  string           `json:"lane"`
	Label string           `json:"label"`
	Kind  domain.BlockKind `json:"kind"`
}

// Bars flattens the response into timeline bars ordered by lane, then start.
func (r *ScheduleResponse) Bars() []TimelineBar {
	var bars []TimelineBar
	for _, m := range r.Machines {
		lane := domain.CoalesceStr(m.MachineName, m.MachineID)
		for i := range m.Blocks {
			b := &m.Blocks[i]
			bars = append(bars, TimelineBar{
				ID:    b.ID,
				Start: b.Start,
				End:   b.End,
				Lane:  lane,
				Label: b.Label(),
				Kind:  b.Kind,
			})
		}
	}
	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Lane != bars[j].Lane {
			return bars[i].Lane < bars[j].Lane
		}
		return bars[i].Start.Before(bars[j].Start)
	})
	return bars
}

// Span returns the earliest start and latest end across all blocks.
func (r *ScheduleResponse) Span() (from, to time.Time, ok bool) {
	for _, m := range r.Machines {
		for _, b := range m.Blocks {
			if !ok || b.Start.Before(from) {
				from = b.Start
			}
			if !ok || b.End.After(to) {
				to = b.End
			}
			ok = true
		}
	}
	return from, to, ok
}

type ScheduleErrorCode string

const (
	ScheduleErrNoShifts        ScheduleErrorCode = "NO_SHIFTS"
	ScheduleErrInvalidCalendar ScheduleErrorCode = "INVALID_CALENDAR"
	ScheduleErrNotFound        ScheduleErrorCode = "NOT_FOUND"
	ScheduleErrInternal        ScheduleErrorCode = "INTERNAL"
)

type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
	Err     error
}

func (e *ScheduleError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}
