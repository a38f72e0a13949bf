package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes day relative to today in Portuguese ("Hoje",
// "Amanhã", "em 3d", "há 2d"). Both are compared as calendar days.
func RelativeDay(day, today time.Time) string {
	d := int(truncDay(day).Sub(truncDay(today)).Hours() / 24)
	switch {
	case d == 0:
		return "Hoje"
	case d == 1:
		return "Amanhã"
	case d == -1:
		return "Ontem"
	case d > 0 && d < 14:
		return fmt.Sprintf("em %dd", d)
	case d > 0:
		return fmt.Sprintf("em %dsem", d/7)
	case d > -14:
		return fmt.Sprintf("há %dd", -d)
	default:
		return fmt.Sprintf("há %dsem", -d/7)
	}
}

func truncDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Truncate shortens s to max runes, ending with "…" when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}
