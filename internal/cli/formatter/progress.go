package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress draws share (0..1) as a bar of width cells followed by the
// percentage, e.g. [█████░░░░░]  50%. Out-of-range shares are clamped.
func RenderProgress(share float64, width int) string {
	share = min(max(share, 0), 1)
	width = max(width, 2)
	filled := int(share * float64(width))

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", progressStyle(share).Render(bar), share*100)
}

func progressStyle(share float64) lipgloss.Style {
	switch {
	case share >= 0.66:
		return StyleGreen
	case share >= 0.33:
		return StyleYellow
	default:
		return StyleRed
	}
}
