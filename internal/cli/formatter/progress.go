package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampUnit(pct)
	if width < 2 {
		width = 2
	}

	bar := blocks(pct, width)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}

// RenderTimeBar renders elapsed time against a limit. The bar fills up as
// time runs out, so it turns red near the end rather than the start.
func RenderTimeBar(pct int, width int) string {
	p := clampUnit(float64(pct) / 100)
	if width < 2 {
		width = 2
	}

	style := StyleGreen
	switch {
	case p >= 0.9:
		style = StyleRed
	case p >= 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(blocks(p, width)), int(p*100))
}

func blocks(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func clampUnit(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
