package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% for a percentage in
// [0, 100]. Green above 66, yellow from 33, red below.
func RenderProgress(pct float64, width int) string {
	pct = clampPercent(pct)
	if width < 2 {
		width = 2
	}

	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// RenderCompactBar renders a bare bar without brackets or percentage, for
// table cells.
func RenderCompactBar(pct float64, width int) string {
	pct = clampPercent(pct)
	if width < 2 {
		width = 2
	}
	filled := int(pct / 100 * float64(width))
	return StyleGreen.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
