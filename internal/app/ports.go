package app

import (
	"context"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
)

// CalendarStore is the persistence the wizard needs.
type CalendarStore interface {
	Entries(ctx context.Context, userID string) ([]domain.CalendarEntry, error)
	SelectDay(ctx context.Context, userID string, day time.Time) (domain.Strategy, error)
	SaveStrategy(ctx context.Context, userID string, s domain.Strategy) (domain.Strategy, error)
}

// TransitionRecorder counts stage changes.
type TransitionRecorder interface {
	RecordTransition(from, to string)
}

// Clock returns the current time.
type Clock func() time.Time
