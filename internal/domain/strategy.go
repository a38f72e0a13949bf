package domain

import (
	"strings"
	"time"
)

const (
	DefaultTone   = "Autoritário e Técnico"
	DefaultFormat = "Artigo Longo"
)

// Strategy is the working brief for one piece of content. It is filled in
// across the wizard and mirrors a calendar entry once saved.
type Strategy struct {
	ID     string
	Date   time.Time
	Status ContentStatus

	Audience  string
	Tone      string
	Format    string
	Goal      string
	Topic     string
	Subject   string
	Expertise string

	DetailedAgenda string
	Keywords       string
	BrandVoice     string
	UseSearch      bool

	SelectedSubTopic  string
	ComplexityLevel   ComplexityLevel
	GeneratedApproach string
}

// NewStrategy returns an empty brief with the default tone and format.
func NewStrategy() Strategy {
	return Strategy{
		Status: StatusIdea,
		Tone:   DefaultTone,
		Format: DefaultFormat,
	}
}

func (s Strategy) HasDate() bool { return !s.Date.IsZero() }

func (s Strategy) DateKey() string {
	if !s.HasDate() {
		return ""
	}
	return s.Date.Format(DateLayout)
}

// MissingRequired returns the names of the fields that must be filled before
// an angle can be defined.
func (s Strategy) MissingRequired() []string {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"topic", s.Topic},
		{"subject", s.Subject},
		{"audience", s.Audience},
		{"expertise", s.Expertise},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (s Strategy) Complete() bool { return len(s.MissingRequired()) == 0 }

// LevelConfirmed reports whether a complexity level was chosen and its
// approach outline already produced. A confirmed level is locked.
func (s Strategy) LevelConfirmed() bool {
	return s.ComplexityLevel != "" && strings.TrimSpace(s.GeneratedApproach) != ""
}

// ClearAngle drops everything derived from the current topic.
func (s *Strategy) ClearAngle() {
	s.SelectedSubTopic = ""
	s.ComplexityLevel = ""
	s.GeneratedApproach = ""
}

// StrategyFromEntry loads a calendar entry into a fresh brief. Fields the
// calendar does not store keep their defaults.
func StrategyFromEntry(e CalendarEntry) Strategy {
	s := NewStrategy()
	s.ID = e.ID
	s.Date = e.Date
	s.Status = NormalizeContentStatus(string(e.Status))
	s.Subject = e.Subject
	s.Topic = e.Topic
	s.DetailedAgenda = e.DetailedAgenda
	s.Expertise = e.Expertise
	s.Audience = e.Audience
	s.Keywords = e.Keywords
	s.BrandVoice = e.BrandVoice
	s.Goal = e.Goal
	if e.Tone != "" {
		s.Tone = e.Tone
	}
	if e.Format != "" {
		s.Format = e.Format
	}
	return s
}

// ToEntry projects the brief onto a calendar entry owned by userID.
func (s Strategy) ToEntry(userID string) CalendarEntry {
	status := s.Status
	if status == "" {
		status = StatusIdea
	}
	return CalendarEntry{
		ID:             s.ID,
		UserID:         userID,
		Date:           s.Date,
		Subject:        strings.TrimSpace(s.Subject),
		Topic:          strings.TrimSpace(s.Topic),
		DetailedAgenda: s.DetailedAgenda,
		Expertise:      s.Expertise,
		Audience:       s.Audience,
		Goal:           s.Goal,
		Tone:           s.Tone,
		Format:         s.Format,
		Keywords:       s.Keywords,
		BrandVoice:     s.BrandVoice,
		Status:         status,
	}
}
