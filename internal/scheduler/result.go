package scheduler

import (
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// MachineSchedule is the timeline computed for one machine, ordered by start.
type MachineSchedule struct {
	MachineID string
	Blocks    []domain.ScheduledBlock
}

// End is the end of the last block, or the zero time for an empty timeline.
func (m *MachineSchedule) End() time.Time {
	if len(m.Blocks) == 0 {
		return time.Time{}
	}
	return m.Blocks[len(m.Blocks)-1].End
}

// Busy sums the wall-clock length of task and setup blocks.
func (m *MachineSchedule) Busy() (task, setup time.Duration) {
	for i := range m.Blocks {
		if m.Blocks[i].IsSetup() {
			setup += m.Blocks[i].Duration()
		} else {
			task += m.Blocks[i].Duration()
		}
	}
	return task, setup
}

// Result is the outcome of one scheduling run. Machines are ordered by ID.
type Result struct {
	Machines []MachineSchedule
	Skipped  []domain.SkippedRequest
}

// Counts summarises a result.
type Counts struct {
	Tasks   int
	Setups  int
	Skipped int
}

// Blocks flattens all machine timelines in machine order.
func (r *Result) Blocks() []domain.ScheduledBlock {
	var out []domain.ScheduledBlock
	for i := range r.Machines {
		out = append(out, r.Machines[i].Blocks...)
	}
	return out
}

func (r *Result) Counts() Counts {
	c := Counts{Skipped: len(r.Skipped)}
	for i := range r.Machines {
		for j := range r.Machines[i].Blocks {
			if r.Machines[i].Blocks[j].IsSetup() {
				c.Setups++
			} else {
				c.Tasks++
			}
		}
	}
	return c
}

// Machine returns the schedule for machineID, if any request reached it.
func (r *Result) Machine(machineID string) (*MachineSchedule, bool) {
	for i := range r.Machines {
		if r.Machines[i].MachineID == machineID {
			return &r.Machines[i], true
		}
	}
	return nil, false
}

// SkippedByReason counts skipped requests per reason.
func (r *Result) SkippedByReason() map[domain.SkipReason]int {
	out := make(map[domain.SkipReason]int)
	for _, s := range r.Skipped {
		out[s.Reason]++
	}
	return out
}
