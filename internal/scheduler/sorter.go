package scheduler

import (
	"sort"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// MachineQueue is the ordered list of requests for one machine.
type MachineQueue struct {
	MachineID string
	Requests  []domain.ProductionRequest
}

// SortByRequestedStart returns a copy of reqs ordered by requested start,
// earliest first. Requests without a start sort last. Ties keep input order.
func SortByRequestedStart(reqs []domain.ProductionRequest) []domain.ProductionRequest {
	out := append([]domain.ProductionRequest(nil), reqs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].RequestedStart, out[j].RequestedStart
		if (a == nil) != (b == nil) {
			return a != nil
		}
		if a == nil {
			return false
		}
		return a.Before(*b)
	})
	return out
}

// GroupByMachine splits reqs into per-machine queues in order of first
// appearance. Each queue keeps the input order of its requests.
func GroupByMachine(reqs []domain.ProductionRequest) []MachineQueue {
	index := make(map[string]int)
	var queues []MachineQueue
	for _, r := range reqs {
		i, ok := index[r.MachineID]
		if !ok {
			i = len(queues)
			index[r.MachineID] = i
			queues = append(queues, MachineQueue{MachineID: r.MachineID})
		}
		queues[i].Requests = append(queues[i].Requests, r)
	}
	return queues
}
