package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/google/uuid"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

// WithPassword hashes password into the user. Panics on hashing failure.
func WithPassword(password string) UserOption {
	return func(u *domain.User) {
		if err := u.SetPassword(password); err != nil {
			panic(err)
		}
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	n := testEmailCounter.Add(1)
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderpla",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CalendarEntry options
type EntryOption func(*domain.CalendarEntry)

func WithEntryStatus(s domain.ContentStatus) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.Status = s
	}
}

func WithSubject(subject, topic string) EntryOption {
	return func(e *domain.CalendarEntry) {
		e.Subject = subject
		e.Topic = topic
	}
}

// NewTestEntry builds an entry for userID on day (YYYY-MM-DD).
func NewTestEntry(userID, day string, opts ...EntryOption) *domain.CalendarEntry {
	d, err := domain.ParseDay(day)
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC()
	e := &domain.CalendarEntry{
		ID:             uuid.New().String(),
		UserID:         userID,
		Date:           d,
		Subject:        "Logística",
		Topic:          "IA na Logística",
		DetailedAgenda: "Pauta de teste",
		Expertise:      "Engenheiro de dados",
		Audience:       "Gestores de operações",
		Tone:           domain.DefaultTone,
		Format:         domain.DefaultFormat,
		Status:         domain.StatusIdea,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
