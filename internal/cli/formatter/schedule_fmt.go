package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/contract"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

// FormatSchedule renders a schedule as a summary box, one block table per
// machine, then skipped requests and warnings.
func FormatSchedule(resp *contract.ScheduleResponse) string {
	var b strings.Builder
	b.WriteString(RenderBox("schedule", summaryLines(resp)))
	b.WriteString("\n")

	for _, m := range resp.Machines {
		b.WriteString("\n")
		b.WriteString(machineHeading(m, resp))
		b.WriteString("\n")
		if len(m.Blocks) == 0 {
			b.WriteString(Dim("  no blocks"))
			b.WriteString("\n")
			continue
		}
		rows := make([][]string, 0, len(m.Blocks))
		for _, bl := range m.Blocks {
			qty := ""
			if bl.Kind == domain.BlockTask {
				qty = strconv.FormatInt(bl.Quantity, 10)
			}
			rows = append(rows, []string{
				KindBadge(bl.Kind),
				Truncate(bl.Label(), 28),
				qty,
				Clock(bl.Start),
				Clock(bl.End),
				FormatDuration(bl.End.Sub(bl.Start)),
			})
		}
		b.WriteString(RenderTable(
			[]string{"KIND", "ITEM", "QTY", "START", "END", "DURATION"},
			rows, 2, 5,
		))
	}

	if len(resp.Skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatSkipped(resp.Skipped))
	}
	for _, w := range resp.Warnings {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render("! " + w))
	}
	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSkipped renders the skipped requests of a run.
func FormatSkipped(skipped []contract.SkippedEntry) string {
	rows := make([][]string, 0, len(skipped))
	for _, s := range skipped {
		rows = append(rows, []string{
			TruncID(s.RequestID),
			TruncID(s.MachineID),
			SkipReasonBadge(s.Reason),
			s.Message,
		})
	}
	return Header(fmt.Sprintf("skipped (%d)", len(skipped))) + "\n" +
		RenderTable([]string{"REQUEST", "MACHINE", "REASON", "DETAIL"}, rows)
}

func summaryLines(resp *contract.ScheduleResponse) string {
	s := resp.Summary
	lines := []string{
		fmt.Sprintf("%s %s", Dim("generated"), s.GeneratedAt.Format(time.RFC3339)),
		fmt.Sprintf("%s %d machines, %d tasks, %d setups, %d skipped",
			Dim("blocks   "), s.MachineCount, s.TaskCount, s.SetupCount, s.SkippedCount),
		fmt.Sprintf("%s fallback=%s gap=%s", Dim("calendar "), s.FallbackPolicy, s.GapPolicy),
	}
	if s.Horizon != nil {
		lines = append(lines, fmt.Sprintf("%s %s", Dim("horizon  "), s.Horizon.Format(time.RFC3339)))
	}
	if resp.Committed {
		lines = append(lines, fmt.Sprintf("%s %s", Dim("plan     "), StyleGreen.Render(resp.PlanID)))
	}
	return strings.Join(lines, "\n")
}

// machineHeading shows the machine name and how busy it is between the
// first block and the schedule horizon.
func machineHeading(m contract.MachineTimeline, resp *contract.ScheduleResponse) string {
	name := Bold(domain.CoalesceStr(m.MachineName, m.MachineID))
	if len(m.Blocks) == 0 || resp.Summary.Horizon == nil {
		return name
	}
	busy := time.Duration((m.TaskMin + m.SetupMin) * float64(time.Minute))
	span := resp.Summary.Horizon.Sub(m.Blocks[0].Start)
	return fmt.Sprintf("%s  %s %s  %s %s  %s",
		name,
		Dim("run"), FormatMinutes(int(m.TaskMin+0.5)),
		Dim("setup"), FormatMinutes(int(m.SetupMin+0.5)),
		RenderLoad(busy, span, 12),
	)
}
