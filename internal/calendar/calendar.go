// Package calendar implements calendar-aware time arithmetic over a
// recurring daily set of shifts. Machines only work inside shift windows,
// so a duration of work is consumed across those windows rather than
// against wall-clock time.
package calendar

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// ShiftCalendar is an immutable recurring shift pattern. It is safe for
// concurrent use once constructed.
type ShiftCalendar struct {
	shifts   []domain.Shift
	fallback FallbackPolicy
	gap      GapPolicy
}

type Option func(*ShiftCalendar)

func WithFallback(p FallbackPolicy) Option {
	return func(c *ShiftCalendar) { c.fallback = p }
}

func WithGapPolicy(p GapPolicy) Option {
	return func(c *ShiftCalendar) { c.gap = p }
}

// PoliciesOf reports the policies opts select, without building a calendar.
func PoliciesOf(opts ...Option) (FallbackPolicy, GapPolicy) {
	var c ShiftCalendar
	for _, opt := range opts {
		opt(&c)
	}
	return c.fallback, c.gap
}

// New validates shifts and builds a calendar. The shifts are copied;
// their order is the resolution order.
func New(shifts []domain.Shift, opts ...Option) (*ShiftCalendar, error) {
	if len(shifts) == 0 {
		return nil, domain.ErrNoShiftsConfigured
	}

	c := &ShiftCalendar{shifts: copyShifts(shifts)}
	for _, opt := range opts {
		opt(c)
	}

	for i := range c.shifts {
		if err := c.shifts[i].Validate(); err != nil {
			return nil, err
		}
	}

	if !c.hasWorkingTime() {
		return nil, fmt.Errorf("%w: no working time in any 24h cycle", domain.ErrNoShiftsConfigured)
	}
	return c, nil
}

// FromStrings builds a calendar of working shifts from HH:MM start/end pairs.
func FromStrings(pairs [][2]string, opts ...Option) (*ShiftCalendar, error) {
	shifts := make([]domain.Shift, 0, len(pairs))
	for i, p := range pairs {
		start, err := domain.ParseTimeOfDay(p[0])
		if err != nil {
			return nil, fmt.Errorf("shift %d start: %w", i+1, err)
		}
		end, err := domain.ParseTimeOfDay(p[1])
		if err != nil {
			return nil, fmt.Errorf("shift %d end: %w", i+1, err)
		}
		shifts = append(shifts, domain.Shift{
			Name:    fmt.Sprintf("shift-%d", i+1),
			Start:   start,
			End:     end,
			Working: true,
		})
	}
	return New(shifts, opts...)
}

// Shifts returns a copy of the configured shifts in resolution order.
func (c *ShiftCalendar) Shifts() []domain.Shift {
	if c == nil {
		return nil
	}
	return copyShifts(c.shifts)
}

func (c *ShiftCalendar) Fallback() FallbackPolicy { return c.fallback }

func (c *ShiftCalendar) Gap() GapPolicy { return c.gap }

// ActiveShift returns the shift whose window contains at. When none does,
// the fallback policy picks one.
func (c *ShiftCalendar) ActiveShift(at time.Time) (domain.Shift, error) {
	if c == nil || len(c.shifts) == 0 {
		return domain.Shift{}, domain.ErrNoShiftsConfigured
	}
	idx, _ := c.resolve(domain.TimeOfDayOf(at))
	return copyShift(c.shifts[idx]), nil
}

// ShiftEndInstant is the wall-clock instant at which the active shift
// ends. It is always strictly after at.
func (c *ShiftCalendar) ShiftEndInstant(at time.Time) (time.Time, error) {
	if c == nil || len(c.shifts) == 0 {
		return time.Time{}, domain.ErrNoShiftsConfigured
	}
	idx, _ := c.resolve(domain.TimeOfDayOf(at))
	return nextOccurrence(at, c.shifts[idx].End), nil
}

// AdvancePastShift jumps to the boundary where the next shift may begin.
// The next lookup re-resolves from the configured list; shifts are not
// assumed to be contiguous.
func (c *ShiftCalendar) AdvancePastShift(at time.Time) (time.Time, error) {
	return c.ShiftEndInstant(at)
}

// resolve finds the shift containing tod. Windows are compared on a
// 48h axis: a wrapping shift's end moves forward a day, and so does a
// query time that falls before the shift's start.
func (c *ShiftCalendar) resolve(tod domain.TimeOfDay) (int, bool) {
	for i := range c.shifts {
		s := &c.shifts[i]
		start, end, cur := int(s.Start), int(s.End), int(tod)
		if end < start {
			end += domain.MinutesPerDay
		}
		if cur < start {
			cur += domain.MinutesPerDay
		}
		if cur >= start && cur < end {
			return i, true
		}
	}
	return c.fallbackIndex(tod), false
}

func (c *ShiftCalendar) fallbackIndex(tod domain.TimeOfDay) int {
	if c.fallback != FallbackNextShift {
		return 0
	}
	best, bestWait := 0, domain.MinutesPerDay+1
	for i := range c.shifts {
		wait := c.shifts[i].Offset(tod)
		// Offset is minutes from shift start to tod; the wait until the next start is the complement.
		wait = (domain.MinutesPerDay - wait) % domain.MinutesPerDay
		if wait < bestWait {
			best, bestWait = i, wait
		}
	}
	return best
}

// nextOccurrence returns the first instant strictly after at whose wall
// clock reads tod, in at's location.
func nextOccurrence(at time.Time, tod domain.TimeOfDay) time.Time {
	y, m, d := at.Date()
	h, mi := int(tod)/60, int(tod)%60
	t := time.Date(y, m, d, h, mi, 0, 0, at.Location())
	for !t.After(at) {
		d++
		t = time.Date(y, m, d, h, mi, 0, 0, at.Location())
	}
	return t
}

func copyShifts(in []domain.Shift) []domain.Shift {
	out := make([]domain.Shift, len(in))
	for i := range in {
		out[i] = copyShift(in[i])
	}
	return out
}

func copyShift(s domain.Shift) domain.Shift {
	if s.Pauses != nil {
		s.Pauses = append([]domain.Pause(nil), s.Pauses...)
	}
	return s
}
