package formatter

import (
	"fmt"
	"strings"
	"time"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLoad renders the share of span a machine is busy as a bar like
// [████░░░░] 45%. Heavily loaded machines are drawn red, idle ones dim.
func RenderLoad(busy, span time.Duration, width int) string {
	var pct float64
	if span > 0 {
		pct = float64(busy) / float64(span)
	}
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct >= 0.9:
		style = StyleRed
	case pct >= 0.66:
		style = StyleYellow
	case pct < 0.1:
		style = StyleDim
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
