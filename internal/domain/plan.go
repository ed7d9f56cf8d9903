package domain

import "time"

// SkippedRequest records a request the scheduler could not place, and why.
type SkippedRequest struct {
	RequestID string
	MachineID string
	Reason    SkipReason
	Err       error
}

// Message is the human-readable cause, falling back to the reason code.
func (s *SkippedRequest) Message() string {
	if s.Err != nil {
		return s.Err.Error()
	}
	return string(s.Reason)
}

// Plan is a committed scheduling run, with the calendar policies it ran under.
type Plan struct {
	ID             string
	FallbackPolicy string
	GapPolicy      string
	CreatedAt      time.Time
	Blocks         []ScheduledBlock
	Skipped        []SkippedRequest
}
