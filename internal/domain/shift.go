package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of the recurring shift cycle.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// The value MinutesPerDay ("24:00") is only meaningful as an end-of-day.
type TimeOfDay int

// ParseTimeOfDay parses "H:MM" or "HH:MM". "24:00" is accepted as the end of the day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidShiftFormat, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidShiftFormat, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (expected HH:MM)", ErrInvalidShiftFormat, s)
	}
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidShiftFormat, s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for literals known to be valid.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayOf returns the minutes since midnight of t in t's location.
// Seconds are truncated.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns t as a plain minute count.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Pause is a non-working break inside a shift.
type Pause struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func (p Pause) minutes() int {
	return mod(int(p.End)-int(p.Start), MinutesPerDay)
}

// Shift is a recurring daily working window. When End is before Start
// the shift runs past midnight.
type Shift struct {
	ID        string
	Name      string
	Start     TimeOfDay
	End       TimeOfDay
	Pauses    []Pause
	Working   bool
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Wraps reports whether the shift crosses midnight.
func (s *Shift) Wraps() bool {
	return s.End < s.Start
}

// WindowMinutes is the length of the shift window including pauses.
func (s *Shift) WindowMinutes() int {
	if s.Wraps() {
		return int(s.End) + MinutesPerDay - int(s.Start)
	}
	return int(s.End) - int(s.Start)
}

// WorkingMinutes is the window length minus pauses, or 0 for a non-working shift.
func (s *Shift) WorkingMinutes() int {
	if !s.Working {
		return 0
	}
	total := s.WindowMinutes()
	for _, p := range s.Pauses {
		total -= p.minutes()
	}
	return total
}

// Offset returns how many minutes after the shift start t falls, modulo a day.
func (s *Shift) Offset(t TimeOfDay) int {
	return mod(int(t)-int(s.Start), MinutesPerDay)
}

// PauseOffsets returns each pause as [from, to) minute offsets from the
// shift start, sorted by from.
func (s *Shift) PauseOffsets() [][2]int {
	out := make([][2]int, 0, len(s.Pauses))
	for _, p := range s.Pauses {
		from := s.Offset(p.Start)
		out = append(out, [2]int{from, from + p.minutes()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Validate checks the shift in isolation: times in range, a non-empty
// window, pauses inside the window and not overlapping each other.
func (s *Shift) Validate() error {
	if s.Start < 0 || s.Start >= MinutesPerDay {
		return fmt.Errorf("%w: start %d out of range", ErrInvalidShiftFormat, s.Start)
	}
	if s.End < 0 || s.End > MinutesPerDay {
		return fmt.Errorf("%w: end %d out of range", ErrInvalidShiftFormat, s.End)
	}
	if s.Start == s.End {
		return fmt.Errorf("shift %s %s-%s: %w", s.label(), s.Start, s.End, ErrZeroLengthShift)
	}

	window := s.WindowMinutes()
	prevEnd := -1
	for _, off := range s.PauseOffsets() {
		if off[1] == off[0] {
			return fmt.Errorf("shift %s: %w: zero-length pause", s.label(), ErrInvalidPause)
		}
		if off[1] > window {
			return fmt.Errorf("shift %s: %w: pause outside shift window", s.label(), ErrInvalidPause)
		}
		if off[0] < prevEnd {
			return fmt.Errorf("shift %s: %w: overlapping pauses", s.label(), ErrInvalidPause)
		}
		prevEnd = off[1]
	}

	if s.Working && s.WorkingMinutes() <= 0 {
		return fmt.Errorf("shift %s: pauses cover the whole window: %w", s.label(), ErrZeroLengthShift)
	}
	return nil
}

func (s *Shift) label() string {
	return CoalesceStr(s.Name, s.ID, "<unnamed>")
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
