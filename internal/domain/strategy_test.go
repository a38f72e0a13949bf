package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy_Defaults(t *testing.T) {
	s := NewStrategy()
	assert.Equal(t, DefaultTone, s.Tone)
	assert.Equal(t, DefaultFormat, s.Format)
	assert.Equal(t, StatusIdea, s.Status)
	assert.False(t, s.HasDate())
	assert.Equal(t, "", s.DateKey())
}

func TestMissingRequired(t *testing.T) {
	s := NewStrategy()
	assert.Equal(t, []string{"topic", "subject", "audience", "expertise"}, s.MissingRequired())
	assert.False(t, s.Complete())

	s.Topic = "IA na Logística"
	s.Subject = "Logística"
	s.Audience = "  "
	s.Expertise = "Engenheiro"
	assert.Equal(t, []string{"audience"}, s.MissingRequired())

	s.Audience = "Gestores"
	assert.True(t, s.Complete())
}

func TestLevelConfirmed(t *testing.T) {
	s := NewStrategy()
	assert.False(t, s.LevelConfirmed())

	s.ComplexityLevel = LevelBasic
	assert.False(t, s.LevelConfirmed(), "level without outline is not confirmed")

	s.GeneratedApproach = "## 1. Assunto"
	assert.True(t, s.LevelConfirmed())

	s.ClearAngle()
	assert.False(t, s.LevelConfirmed())
	assert.Empty(t, s.SelectedSubTopic)
}

func TestStrategyEntryRoundTrip(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s := NewStrategy()
	s.ID = "e1"
	s.Date = day
	s.Topic = " IA na Logística "
	s.Subject = "Logística"
	s.Audience = "Gestores"
	s.Expertise = "Engenheiro"
	s.Status = StatusWriting

	e := s.ToEntry("u1")
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, "IA na Logística", e.Topic)
	assert.Equal(t, "2026-03-10", e.DateKey())

	back := StrategyFromEntry(e)
	assert.Equal(t, "e1", back.ID)
	assert.Equal(t, StatusWriting, back.Status)
	assert.Equal(t, DefaultTone, back.Tone)
	assert.Empty(t, back.GeneratedApproach)
}

func TestStrategyFromEntry_LegacyStatus(t *testing.T) {
	e := CalendarEntry{ID: "x", Status: ContentStatus("completed")}
	assert.Equal(t, StatusPublished, StrategyFromEntry(e).Status)
}

func TestParseContentStatus(t *testing.T) {
	st, err := ParseContentStatus(" Review ")
	require.NoError(t, err)
	assert.Equal(t, StatusReview, st)

	st, err = ParseContentStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, st)

	_, err = ParseContentStatus("archived")
	require.Error(t, err)
	assert.Equal(t, StatusIdea, NormalizeContentStatus("archived"))
}

func TestParseComplexityLevel(t *testing.T) {
	l, err := ParseComplexityLevel("ADVANCED")
	require.NoError(t, err)
	assert.Equal(t, LevelAdvanced, l)
	assert.Equal(t, "Avançado / Visionário", l.Label())

	_, err = ParseComplexityLevel("expert")
	require.Error(t, err)
}
