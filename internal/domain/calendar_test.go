package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeStats(t *testing.T) {
	today := day("2026-03-15")
	entries := []CalendarEntry{
		{Date: day("2026-03-01"), Status: StatusIdea},
		{Date: day("2026-03-02"), Status: StatusWriting},
		{Date: day("2026-03-20"), Status: StatusReview},
		{Date: day("2026-03-03"), Status: StatusPublished},
		{Date: day("2026-03-15"), Status: StatusPlanned},
	}
	stats := ComputeStats(entries, today)
	assert.Equal(t, CalendarStats{Total: 5, Ideas: 1, InProgress: 3, Published: 1, Overdue: 2}, stats)
}

func TestOverdue_TodayIsNotOverdue(t *testing.T) {
	e := CalendarEntry{Date: day("2026-03-15"), Status: StatusIdea}
	assert.False(t, e.Overdue(time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)))
	assert.True(t, e.Overdue(day("2026-03-16")))
}

func TestSameSubject(t *testing.T) {
	e := CalendarEntry{Subject: "Logística", Topic: "IA na Logística"}
	assert.True(t, e.SameSubject("  logística", "ia na logística "))
	assert.False(t, e.SameSubject("Logística", "Drones"))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseDay("28/02/2026")
	require.Error(t, err)
}

func TestWelcomeEntry(t *testing.T) {
	e := WelcomeEntry("u1", time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, "welcome-u1", e.ID)
	assert.Equal(t, "Bem-vindo", e.Subject)
	assert.Equal(t, "2026-01-02", e.DateKey())
	assert.Equal(t, StatusIdea, e.Status)
}
