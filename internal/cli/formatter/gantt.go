package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/contract"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	taskCell  = "█"
	setupCell = "▒"
	idleCell  = "·"

	minGanttWidth = 20
	laneLabelMax  = 16
)

// FormatGantt draws one lane per machine across width columns, scaled
// from the first block start to the last block end. Every block covers
// at least one column so short setups stay visible.
func FormatGantt(resp *contract.ScheduleResponse, width int) string {
	from, to, ok := resp.Span()
	if !ok {
		return Dim("nothing scheduled") + "\n"
	}
	width = max(width, minGanttWidth)
	span := to.Sub(from)
	col := func(d time.Duration) int {
		if span <= 0 {
			return 0
		}
		return min(int(int64(d)*int64(width)/int64(span)), width)
	}

	bars := resp.Bars()
	var lanes []string
	cells := map[string][]domain.BlockKind{}
	for _, bar := range bars {
		row, seen := cells[bar.Lane]
		if !seen {
			row = make([]domain.BlockKind, width)
			lanes = append(lanes, bar.Lane)
		}
		lo := col(bar.Start.Sub(from))
		hi := max(col(bar.End.Sub(from)), lo+1)
		for i := lo; i < hi && i < width; i++ {
			// Tasks win a shared column.
			if row[i] != domain.BlockTask {
				row[i] = bar.Kind
			}
		}
		cells[bar.Lane] = row
	}

	labelWidth := 0
	for _, lane := range lanes {
		labelWidth = max(labelWidth, lipgloss.Width(Truncate(lane, laneLabelMax)))
	}

	var b strings.Builder
	for _, lane := range lanes {
		label := Truncate(lane, laneLabelMax)
		b.WriteString(Bold(label))
		b.WriteString(strings.Repeat(" ", labelWidth-lipgloss.Width(label)+1))
		b.WriteString("│")
		for _, k := range cells[lane] {
			switch k {
			case domain.BlockTask:
				b.WriteString(KindStyle(k).Render(taskCell))
			case domain.BlockSetup:
				b.WriteString(KindStyle(k).Render(setupCell))
			default:
				b.WriteString(Dim(idleCell))
			}
		}
		b.WriteString("│\n")
	}

	start := from.Format(ClockLayout)
	end := to.Format(ClockLayout)
	gap := max(width+2-len(start)-len(end), 1)
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	b.WriteString(Dim(start + strings.Repeat(" ", gap) + end))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s task  %s setup  %s idle\n",
		strings.Repeat(" ", labelWidth),
		KindStyle(domain.BlockTask).Render(taskCell),
		KindStyle(domain.BlockSetup).Render(setupCell),
		Dim(idleCell),
	))
	return b.String()
}
