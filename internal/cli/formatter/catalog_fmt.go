package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// FormatShifts lists shifts in resolution order; the first column is the
// position that decides overlaps.
func FormatShifts(shifts []*domain.Shift) string {
	if len(shifts) == 0 {
		return Dim("No shifts configured.") + "\n"
	}
	rows := make([][]string, 0, len(shifts))
	for i, s := range shifts {
		window := s.Start.String() + "-" + s.End.String()
		if s.Wraps() {
			window += Dim(" +1d")
		}
		pauses := make([]string, 0, len(s.Pauses))
		for _, p := range s.Pauses {
			pauses = append(pauses, p.Start.String()+"-"+p.End.String())
		}
		state := StyleGreen.Render("working")
		if !s.Working {
			state = StyleDim.Render("off")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			window,
			domain.CoalesceStr(strings.Join(pauses, ", "), Dim("--")),
			FormatMinutes(s.WorkingMinutes()),
			state,
			TruncID(s.ID),
		})
	}
	return RenderTable([]string{"#", "NAME", "WINDOW", "PAUSES", "WORKING", "STATE", "ID"}, rows, 0, 4)
}

// FormatMachines lists machines with the number of setup matrix entries.
func FormatMachines(machines []*domain.Machine, setups map[string][]domain.MachineProduct) string {
	if len(machines) == 0 {
		return Dim("No machines.") + "\n"
	}
	rows := make([][]string, 0, len(machines))
	for _, m := range machines {
		rows = append(rows, []string{m.Name, strconv.Itoa(len(setups[m.ID])), TruncID(m.ID)})
	}
	return RenderTable([]string{"NAME", "SETUPS", "ID"}, rows, 1)
}

// FormatSetups renders one machine's setup matrix.
func FormatSetups(machine *domain.Machine, setups []domain.MachineProduct) string {
	var b strings.Builder
	b.WriteString(Header("setups " + machine.Name))
	b.WriteString("\n")
	if len(setups) == 0 {
		b.WriteString(Dim("No setup times recorded.") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(setups))
	for _, s := range setups {
		rows = append(rows, []string{s.ItemID, FormatMinutes(s.SetupTimeMin)})
	}
	b.WriteString(RenderTable([]string{"ITEM", "SETUP"}, rows, 1))
	return b.String()
}

// FormatRequests lists production requests. machineNames maps machine IDs
// to display names; unknown IDs are shown truncated.
func FormatRequests(reqs []*domain.ProductionRequest, machineNames map[string]string) string {
	if len(reqs) == 0 {
		return Dim("No production requests.") + "\n"
	}
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		machine, ok := machineNames[r.MachineID]
		if !ok {
			machine = TruncID(r.MachineID)
		}
		start := StyleYellow.Render("unplanned")
		if r.RequestedStart != nil {
			start = Clock(*r.RequestedStart)
		}
		lot := Dim("--")
		if r.MinBatch > 0 || r.IntervalBatch > 0 {
			lot = fmt.Sprintf("min %d / step %d", r.MinBatch, r.IntervalBatch)
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			machine,
			Truncate(r.DisplayName(), 24),
			string(r.ItemType),
			strconv.FormatInt(int64(r.Quantity), 10),
			r.ProductionTimePerUnit.String(),
			lot,
			start,
		})
	}
	return RenderTable(
		[]string{"ID", "MACHINE", "ITEM", "TYPE", "QTY", "MIN/UNIT", "LOT", "START"},
		rows, 4, 5,
	)
}
