package domain

import "time"

// ScheduledBlock is one emitted interval on a machine timeline: either a
// production task or the changeover that precedes one.
type ScheduledBlock struct {
	Kind      BlockKind
	ID        string
	RequestID string
	MachineID string

	// Task blocks
	ItemID   string
	ItemName string
	Quantity Quantity

	// Setup blocks
	FromItemID string
	ToItemID   string

	Start time.Time
	End   time.Time
}

// SetupBlockID derives the block ID of the changeover preceding a request.
func SetupBlockID(requestID string) string {
	return "setup-" + requestID
}

func (b *ScheduledBlock) IsSetup() bool {
	return b.Kind == BlockSetup
}

// Duration is the wall-clock span of the block, including any non-working time it straddles.
func (b *ScheduledBlock) Duration() time.Duration {
	return b.End.Sub(b.Start)
}
