package service

import (
	"context"
	"log/slog"
	"time"
)

// UseCaseEvent captures the outcome of one calendar write.
type UseCaseEvent struct {
	Name     string
	UserID   string
	Duration time.Duration
	Err      error
	Fields   map[string]any
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes use-case events to l. A nil logger yields a
// no-op observer.
func NewLogUseCaseObserver(l *slog.Logger) UseCaseObserver {
	if l == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: l}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"user_id", event.UserID,
		"duration_ms", event.Duration.Milliseconds(),
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "calendar_use_case", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "calendar_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe reports the use case to obs once run returns.
func observe(ctx context.Context, obs UseCaseObserver, name, userID string, fields map[string]any, run func() error) error {
	start := time.Now()
	err := run()
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:     name,
		UserID:   userID,
		Duration: time.Since(start),
		Err:      err,
		Fields:   fields,
	})
	return err
}
