package domain

import "time"

type Machine struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MachineProduct is an entry of a machine's setup matrix: the changeover
// time needed before producing ItemID on MachineID.
type MachineProduct struct {
	MachineID    string
	ItemID       string
	SetupTimeMin int
}
