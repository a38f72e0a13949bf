package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("admin role required")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidToken       = errors.New("invalid or expired session token")
	ErrLastAdmin          = errors.New("cannot remove the last admin")
)

// CalendarService manages a user's content calendar. Entries are returned by
// value so callers cannot alias stored state.
type CalendarService interface {
	// Entries loads every entry of the user, seeding the welcome entry when
	// the calendar is empty.
	Entries(ctx context.Context, userID string) ([]domain.CalendarEntry, error)
	// ReplaceAll swaps the user's whole calendar for entries in one transaction.
	ReplaceAll(ctx context.Context, userID string, entries []domain.CalendarEntry) error
	SelectDay(ctx context.Context, userID string, day time.Time) (domain.Strategy, error)
	// SaveStrategy upserts the strategy's projection by id, assigning a new
	// id when it has none.
	SaveStrategy(ctx context.Context, userID string, s domain.Strategy) (domain.Strategy, error)
	Get(ctx context.Context, userID, id string) (domain.CalendarEntry, error)
	Month(ctx context.Context, userID string, year int, month time.Month) ([]domain.CalendarEntry, error)
	Search(ctx context.Context, userID, term string, status domain.ContentStatus) ([]domain.CalendarEntry, error)
	Stats(ctx context.Context, userID string) (domain.CalendarStats, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.ContentStatus) error
	Remove(ctx context.Context, userID, id string) error
	// CheckDuplicate returns an entry other than excludeID with the same
	// subject and topic, or nil.
	CheckDuplicate(ctx context.Context, userID, subject, topic, excludeID string) (*domain.CalendarEntry, error)
}

// Session is an authenticated login.
type Session struct {
	Token     string
	User      domain.User
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	SetRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) error
	RemoveUser(ctx context.Context, actor *domain.User, userID string) error
}
