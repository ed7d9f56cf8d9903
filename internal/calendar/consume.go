package calendar

import (
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// ConsumeDuration walks forward from start and returns the instant at
// which d of working time has elapsed. Each step takes the working time
// left in the active shift (up to its end, or up to the next pause inside
// it) and either finishes there or advances past it. Pauses, non-working
// shifts and, under GapPause, gaps between shifts are skipped without
// consuming anything.
//
// Every step strictly advances, and New guarantees working time exists
// in each 24h cycle, so the walk always terminates.
func (c *ShiftCalendar) ConsumeDuration(start time.Time, d time.Duration) (time.Time, error) {
	if d <= 0 {
		return start, nil
	}
	if c == nil || len(c.shifts) == 0 {
		return time.Time{}, domain.ErrNoShiftsConfigured
	}

	current := start
	remaining := d
	for {
		pos := c.locate(current)
		if !pos.working {
			current = c.nextBoundary(current)
			continue
		}

		available := pos.segmentEnd.Sub(current)
		if available >= remaining {
			return current.Add(remaining), nil
		}
		remaining -= available
		current = pos.segmentEnd
	}
}

// ConsumeMinutes is ConsumeDuration for a whole number of minutes.
func (c *ShiftCalendar) ConsumeMinutes(start time.Time, minutes int) (time.Time, error) {
	return c.ConsumeDuration(start, time.Duration(minutes)*time.Minute)
}

// IsWorking reports whether at falls in working time.
func (c *ShiftCalendar) IsWorking(at time.Time) bool {
	if c == nil || len(c.shifts) == 0 {
		return false
	}
	return c.locate(at).working
}

type position struct {
	working bool
	// End of the contiguous working segment containing the instant.
	segmentEnd time.Time
}

// locate classifies an instant. Working time runs until the active
// shift's end or the next pause inside that shift occurrence, whichever
// is first. An absorbed gap ends at the next boundary, where another
// shift may take over.
func (c *ShiftCalendar) locate(at time.Time) position {
	idx, contained := c.resolve(domain.TimeOfDayOf(at))
	if !contained && c.gap == GapPause {
		return position{}
	}
	s := &c.shifts[idx]
	if !s.Working {
		return position{}
	}

	shiftEnd := nextOccurrence(at, s.End)
	segmentEnd := shiftEnd
	if !contained {
		if b := c.nextBoundary(at); b.Before(segmentEnd) {
			segmentEnd = b
		}
	}
	if len(s.Pauses) == 0 {
		return position{working: true, segmentEnd: segmentEnd}
	}

	shiftStart := occurrenceStart(shiftEnd, s)
	for _, off := range s.PauseOffsets() {
		pauseStart := shiftStart.Add(time.Duration(off[0]) * time.Minute)
		pauseEnd := shiftStart.Add(time.Duration(off[1]) * time.Minute)
		if !pauseEnd.After(at) {
			continue
		}
		if !pauseStart.After(at) {
			return position{}
		}
		if pauseStart.Before(segmentEnd) {
			segmentEnd = pauseStart
		}
		break
	}
	return position{working: true, segmentEnd: segmentEnd}
}

// occurrenceStart returns the start instant of the shift occurrence that
// ends at end.
func occurrenceStart(end time.Time, s *domain.Shift) time.Time {
	y, m, d := end.Date()
	if s.Wraps() || s.End == domain.MinutesPerDay {
		d--
	}
	return time.Date(y, m, d, int(s.Start)/60, int(s.Start)%60, 0, 0, end.Location())
}

// nextBoundary returns the earliest instant after at where the working
// state can change: any shift start or end, or any pause edge. Between
// two boundaries resolution is constant, so jumping boundary to boundary
// never skips working time.
func (c *ShiftCalendar) nextBoundary(at time.Time) time.Time {
	var next time.Time
	consider := func(tod domain.TimeOfDay) {
		t := nextOccurrence(at, tod)
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	for i := range c.shifts {
		s := &c.shifts[i]
		consider(s.Start)
		consider(s.End)
		for _, p := range s.Pauses {
			consider(p.Start)
			consider(p.End)
		}
	}
	return next
}

// hasWorkingTime checks every minute of one reference day.
func (c *ShiftCalendar) hasWorkingTime() bool {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < domain.MinutesPerDay; m++ {
		if c.locate(ref.Add(time.Duration(m) * time.Minute)).working {
			return true
		}
	}
	return false
}
