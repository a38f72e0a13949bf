package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
)

// FormatEntries lists calendar entries by date.
func FormatEntries(entries []domain.CalendarEntry, today time.Time) string {
	if len(entries) == 0 {
		return Dim("Nenhuma pauta no calendário.") + "\n"
	}
	sorted := append([]domain.CalendarEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	rows := make([][]string, 0, len(sorted))
	for _, e := range sorted {
		when := RelativeDay(e.Date, today)
		if e.Overdue(today) {
			when = StyleRed.Render(when + " !")
		}
		rows = append(rows, []string{
			e.DateKey(),
			when,
			StatusBadge(e.Status),
			Truncate(e.Subject, 24),
			Truncate(e.Topic, 40),
			Dim(shortID(e.ID)),
		})
	}
	return RenderTable([]string{"DATA", "QUANDO", "STATUS", "ASSUNTO", "TÓPICO", "ID"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatEntry prints one entry in full.
func FormatEntry(e domain.CalendarEntry) string {
	var b strings.Builder
	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-14s", label)), value)
	}
	field("Data", e.DateKey())
	field("Status", StatusBadge(e.Status))
	field("Assunto", e.Subject)
	field("Tópico", e.Topic)
	field("Pauta", e.DetailedAgenda)
	field("Área", e.Expertise)
	field("Público", e.Audience)
	field("Objetivo", e.Goal)
	field("Tom", e.Tone)
	field("Formato", e.Format)
	field("Palavras-chave", e.Keywords)
	field("Voz", e.BrandVoice)
	field("ID", e.ID)
	return RenderBox(e.Topic, strings.TrimRight(b.String(), "\n"))
}

// FormatStats summarizes the calendar counters, followed by the share of
// published entries.
func FormatStats(s domain.CalendarStats) string {
	overdue := fmt.Sprint(s.Overdue)
	if s.Overdue > 0 {
		overdue = StyleRed.Render(overdue)
	}
	table := RenderTable(
		[]string{"TOTAL", "IDEIAS", "EM ANDAMENTO", "PUBLICADOS", "ATRASADOS"},
		[][]string{{fmt.Sprint(s.Total), fmt.Sprint(s.Ideas), fmt.Sprint(s.InProgress), fmt.Sprint(s.Published), overdue}},
	)
	if s.Total == 0 {
		return table
	}
	pct := float64(s.Published) / float64(s.Total)
	return table + "\nPublicado " + RenderProgress(pct, 20) + "\n"
}

var weekdayHeader = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// FormatMonth draws a month grid. Days with an entry are colored by status;
// selected, when inside the month, is highlighted.
func FormatMonth(year int, month time.Month, entries []domain.CalendarEntry, selected time.Time) string {
	byDay := map[int]domain.CalendarEntry{}
	for _, e := range entries {
		if e.Date.Year() == year && e.Date.Month() == month {
			byDay[e.Date.Day()] = e
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("%s %d", MonthName(month), year)))
	b.WriteString("\n")
	for _, w := range weekdayHeader {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-5s", w)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("     ", int(first.Weekday())))
	for d := 1; d <= last; d++ {
		cell := fmt.Sprintf("%2d", d)
		if e, ok := byDay[d]; ok {
			cell = StatusStyle(e.Status).Bold(true).Render(cell + "•")
		} else {
			cell += " "
		}
		if selected.Year() == year && selected.Month() == month && selected.Day() == d {
			cell = StyleHeader.Reverse(true).Render(stripANSIWidth(cell))
		}
		b.WriteString(cell + "  ")
		if (int(first.Weekday())+d)%7 == 0 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), " \n") + "\n"
}

// stripANSIWidth re-renders a day cell without styling.
func stripANSIWidth(cell string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range cell {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatUsers lists accounts for administrators.
func FormatUsers(users []*domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		role := string(u.Role)
		if u.IsAdmin() {
			role = StyleHeader.Render(role)
		}
		last := Dim("nunca")
		if u.LastLoginAt != nil {
			last = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{u.Name, u.Email, role, last, Dim(u.ID)})
	}
	return RenderTable([]string{"NOME", "EMAIL", "PAPEL", "ÚLTIMO ACESSO", "ID"}, rows)
}
