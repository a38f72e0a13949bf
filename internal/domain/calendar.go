package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// CalendarEntry is one planned piece of content on a user's calendar. At most
// one entry exists per user and day.
type CalendarEntry struct {
	ID     string
	UserID string
	Date   time.Time

	Subject        string
	Topic          string
	DetailedAgenda string
	Expertise      string
	Audience       string
	Goal           string
	Tone           string
	Format         string
	Keywords       string
	BrandVoice     string
	Status         ContentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e CalendarEntry) DateKey() string { return e.Date.Format(DateLayout) }

// Overdue reports whether an unpublished entry's day is before today.
func (e CalendarEntry) Overdue(today time.Time) bool {
	if e.Status == StatusPublished {
		return false
	}
	return DayOf(e.Date).Before(DayOf(today))
}

// SameSubject compares subject and topic case-insensitively, ignoring
// surrounding whitespace.
func (e CalendarEntry) SameSubject(subject, topic string) bool {
	return strings.EqualFold(strings.TrimSpace(e.Subject), strings.TrimSpace(subject)) &&
		strings.EqualFold(strings.TrimSpace(e.Topic), strings.TrimSpace(topic))
}

// ParseDay parses a YYYY-MM-DD day in UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DayOf truncates t to its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type CalendarStats struct {
	Total      int
	Ideas      int
	InProgress int
	Published  int
	Overdue    int
}

func ComputeStats(entries []CalendarEntry, today time.Time) CalendarStats {
	stats := CalendarStats{Total: len(entries)}
	for _, e := range entries {
		switch {
		case e.Status == StatusIdea:
			stats.Ideas++
		case e.Status.InProgress():
			stats.InProgress++
		case e.Status == StatusPublished:
			stats.Published++
		}
		if e.Overdue(today) {
			stats.Overdue++
		}
	}
	return stats
}

// WelcomeEntry is the entry seeded on an empty calendar.
func WelcomeEntry(userID string, today time.Time) CalendarEntry {
	return CalendarEntry{
		ID:             "welcome-" + userID,
		UserID:         userID,
		Date:           DayOf(today),
		Subject:        "Bem-vindo",
		Topic:          "Primeiros passos no Estúdio",
		DetailedAgenda: "Explore o calendário, escolha um dia e defina o ângulo do seu primeiro conteúdo.",
		Expertise:      "Iniciante",
		Audience:       "Novos usuários",
		Tone:           DefaultTone,
		Format:         DefaultFormat,
		Status:         StatusIdea,
	}
}
