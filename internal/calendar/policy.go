package calendar

import "fmt"

// FallbackPolicy decides which shift answers for an instant no configured
// shift contains.
type FallbackPolicy int

const (
	// FallbackFirstShift resolves gaps to the first shift in list order.
	FallbackFirstShift FallbackPolicy = iota
	// FallbackNextShift resolves gaps to the shift that starts soonest after the instant.
	FallbackNextShift
)

func (p FallbackPolicy) String() string {
	switch p {
	case FallbackFirstShift:
		return "first"
	case FallbackNextShift:
		return "next"
	default:
		return "unknown"
	}
}

// ParseFallbackPolicy accepts "first" or "next". The empty string means "first".
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch s {
	case "", "first":
		return FallbackFirstShift, nil
	case "next":
		return FallbackNextShift, nil
	default:
		return FallbackFirstShift, fmt.Errorf("invalid fallback policy %q (expected first or next)", s)
	}
}

// GapPolicy decides whether time between shifts counts as working time.
type GapPolicy int

const (
	// GapAbsorb lets the fallback shift claim the gap, so it is consumed as working time.
	GapAbsorb GapPolicy = iota
	// GapPause treats gaps as idle: work resumes when the next shift starts.
	GapPause
)

func (p GapPolicy) String() string {
	switch p {
	case GapAbsorb:
		return "absorb"
	case GapPause:
		return "pause"
	default:
		return "unknown"
	}
}

// ParseGapPolicy accepts "absorb" or "pause". The empty string means "absorb".
func ParseGapPolicy(s string) (GapPolicy, error) {
	switch s {
	case "", "absorb":
		return GapAbsorb, nil
	case "pause":
		return GapPause, nil
	default:
		return GapAbsorb, fmt.Errorf("invalid gap policy %q (expected absorb or pause)", s)
	}
}
