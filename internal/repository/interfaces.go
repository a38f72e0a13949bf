package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type CalendarRepo interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.CalendarEntry, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.CalendarEntry, error)
	Search(ctx context.Context, userID, query string) ([]*domain.CalendarEntry, error)
	GetByID(ctx context.Context, userID, id string) (*domain.CalendarEntry, error)
	GetByDate(ctx context.Context, userID string, day time.Time) (*domain.CalendarEntry, error)
	Upsert(ctx context.Context, e *domain.CalendarEntry) error
	UpdateStatus(ctx context.Context, userID, id string, status domain.ContentStatus) error
	Delete(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
