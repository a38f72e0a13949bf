package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
)

// strategyDTO is the JSON shape of a strategy exchanged with browser clients.
type strategyDTO struct {
	ID                string `json:"id,omitempty"`
	Date              string `json:"date,omitempty"`
	Status            string `json:"status,omitempty"`
	Audience          string `json:"audience"`
	Tone              string `json:"tone"`
	Format            string `json:"format"`
	Goal              string `json:"goal"`
	Topic             string `json:"topic"`
	Subject           string `json:"subject"`
	Expertise         string `json:"expertise"`
	DetailedAgenda    string `json:"detailedAgenda,omitempty"`
	Keywords          string `json:"keywords,omitempty"`
	BrandVoice        string `json:"brandVoice,omitempty"`
	UseSearch         bool   `json:"useSearch"`
	SelectedSubTopic  string `json:"selectedSubTopic,omitempty"`
	ComplexityLevel   string `json:"complexityLevel,omitempty"`
	GeneratedApproach string `json:"generatedApproach,omitempty"`
}

func (d strategyDTO) toDomain() (domain.Strategy, error) {
	s := domain.NewStrategy()
	s.ID = d.ID
	if strings.TrimSpace(d.Date) != "" {
		day, err := domain.ParseDay(d.Date)
		if err != nil {
			return s, err
		}
		s.Date = day
	}
	if d.Status != "" {
		s.Status = domain.NormalizeContentStatus(d.Status)
	}
	if d.Tone != "" {
		s.Tone = d.Tone
	}
	if d.Format != "" {
		s.Format = d.Format
	}
	s.Audience = d.Audience
	s.Goal = d.Goal
	s.Topic = d.Topic
	s.Subject = d.Subject
	s.Expertise = d.Expertise
	s.DetailedAgenda = d.DetailedAgenda
	s.Keywords = d.Keywords
	s.BrandVoice = d.BrandVoice
	s.UseSearch = d.UseSearch
	s.SelectedSubTopic = d.SelectedSubTopic
	s.GeneratedApproach = d.GeneratedApproach
	if d.ComplexityLevel != "" {
		level, err := domain.ParseComplexityLevel(d.ComplexityLevel)
		if err != nil {
			return s, err
		}
		s.ComplexityLevel = level
	}
	return s, nil
}

type chatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// toHistory accepts "model" as an alias of the assistant role.
func toHistory(in []chatMessageDTO) ([]domain.ChatMessage, error) {
	out := make([]domain.ChatMessage, 0, len(in))
	for i, m := range in {
		switch strings.ToLower(m.Role) {
		case "user":
			out = append(out, domain.UserMessage(m.Content))
		case "model", "assistant":
			out = append(out, domain.AssistantMessage(m.Content))
		default:
			return nil, fmt.Errorf("chatHistory[%d]: unknown role %q", i, m.Role)
		}
	}
	return out, nil
}

type entryDTO struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Subject        string `json:"subject"`
	Topic          string `json:"topic"`
	DetailedAgenda string `json:"detailedAgenda,omitempty"`
	Expertise      string `json:"expertise,omitempty"`
	Audience       string `json:"audience,omitempty"`
	Goal           string `json:"goal,omitempty"`
	Tone           string `json:"tone,omitempty"`
	Format         string `json:"format,omitempty"`
	Keywords       string `json:"keywords,omitempty"`
	BrandVoice     string `json:"brandVoice,omitempty"`
	Status         string `json:"status"`
}

func entryFrom(e domain.CalendarEntry) entryDTO {
	return entryDTO{
		ID:             e.ID,
		Date:           e.DateKey(),
		Subject:        e.Subject,
		Topic:          e.Topic,
		DetailedAgenda: e.DetailedAgenda,
		Expertise:      e.Expertise,
		Audience:       e.Audience,
		Goal:           e.Goal,
		Tone:           e.Tone,
		Format:         e.Format,
		Keywords:       e.Keywords,
		BrandVoice:     e.BrandVoice,
		Status:         string(e.Status),
	}
}

func (d entryDTO) toDomain(userID string) (domain.CalendarEntry, error) {
	day, err := domain.ParseDay(d.Date)
	if err != nil {
		return domain.CalendarEntry{}, err
	}
	return domain.CalendarEntry{
		ID:             d.ID,
		UserID:         userID,
		Date:           day,
		Subject:        d.Subject,
		Topic:          d.Topic,
		DetailedAgenda: d.DetailedAgenda,
		Expertise:      d.Expertise,
		Audience:       d.Audience,
		Goal:           d.Goal,
		Tone:           d.Tone,
		Format:         d.Format,
		Keywords:       d.Keywords,
		BrandVoice:     d.BrandVoice,
		Status:         domain.NormalizeContentStatus(d.Status),
	}, nil
}

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func userFrom(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt}
}
