package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/estudio/internal/db"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/repository"
)

type calendarService struct {
	entries repository.CalendarRepo
	uow     db.UnitOfWork
	now     func() time.Time
	obs     UseCaseObserver
}

func NewCalendarService(entries repository.CalendarRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CalendarService {
	return NewCalendarServiceAt(entries, uow, time.Now, observers...)
}

// NewCalendarServiceAt is NewCalendarService with a fixed clock.
func NewCalendarServiceAt(entries repository.CalendarRepo, uow db.UnitOfWork, now func() time.Time, observers ...UseCaseObserver) CalendarService {
	return &calendarService{entries: entries, uow: uow, now: now, obs: useCaseObserverOrNoop(observers)}
}

func (s *calendarService) Entries(ctx context.Context, userID string) ([]domain.CalendarEntry, error) {
	list, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		return values(list), nil
	}
	welcome := domain.WelcomeEntry(userID, s.now())
	if err := s.entries.Upsert(ctx, &welcome); err != nil {
		return nil, fmt.Errorf("seeding welcome entry: %w", err)
	}
	return []domain.CalendarEntry{welcome}, nil
}

func (s *calendarService) ReplaceAll(ctx context.Context, userID string, entries []domain.CalendarEntry) error {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		key := e.DateKey()
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%w: entries %s and %s share %s", ErrInvalidInput, other, e.ID, key)
		}
		seen[key] = e.ID
	}

	fields := map[string]any{"entries": len(entries)}
	return observe(ctx, s.obs, "calendar.replace_all", userID, fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txEntries := repository.NewSQLiteCalendarRepo(tx)
			if err := txEntries.DeleteAllForUser(ctx, userID); err != nil {
				return err
			}
			for i := range entries {
				e := entries[i]
				e.UserID = userID
				if e.ID == "" {
					e.ID = uuid.New().String()
				}
				e.Status = domain.NormalizeContentStatus(string(e.Status))
				if err := txEntries.Upsert(ctx, &e); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (s *calendarService) SelectDay(ctx context.Context, userID string, day time.Time) (domain.Strategy, error) {
	e, err := s.entries.GetByDate(ctx, userID, domain.DayOf(day))
	if errors.Is(err, repository.ErrNotFound) {
		st := domain.NewStrategy()
		st.Date = domain.DayOf(day)
		return st, nil
	}
	if err != nil {
		return domain.Strategy{}, err
	}
	return domain.StrategyFromEntry(*e), nil
}

func (s *calendarService) SaveStrategy(ctx context.Context, userID string, st domain.Strategy) (domain.Strategy, error) {
	if !st.HasDate() {
		return st, fmt.Errorf("%w: strategy has no date", ErrInvalidInput)
	}
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	e := st.ToEntry(userID)
	fields := map[string]any{"entry_id": st.ID, "date": e.DateKey()}
	err := observe(ctx, s.obs, "calendar.save_strategy", userID, fields, func() error {
		return s.entries.Upsert(ctx, &e)
	})
	return st, err
}

func (s *calendarService) Get(ctx context.Context, userID, id string) (domain.CalendarEntry, error) {
	e, err := s.entries.GetByID(ctx, userID, id)
	if err != nil {
		return domain.CalendarEntry{}, err
	}
	return *e, nil
}

func (s *calendarService) Month(ctx context.Context, userID string, year int, month time.Month) ([]domain.CalendarEntry, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	list, err := s.entries.ListRange(ctx, userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	return values(list), nil
}

// Search filters by term (subject, topic or agenda) and, when status is not
// empty, by status.
func (s *calendarService) Search(ctx context.Context, userID, term string, status domain.ContentStatus) ([]domain.CalendarEntry, error) {
	var (
		list []*domain.CalendarEntry
		err  error
	)
	if strings.TrimSpace(term) == "" {
		list, err = s.entries.ListByUser(ctx, userID)
	} else {
		list, err = s.entries.Search(ctx, userID, term)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.CalendarEntry, 0, len(list))
	for _, e := range list {
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *calendarService) Stats(ctx context.Context, userID string) (domain.CalendarStats, error) {
	list, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return domain.CalendarStats{}, err
	}
	return domain.ComputeStats(values(list), s.now()), nil
}

func (s *calendarService) UpdateStatus(ctx context.Context, userID, id string, status domain.ContentStatus) error {
	parsed, err := domain.ParseContentStatus(string(status))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.entries.UpdateStatus(ctx, userID, id, parsed)
}

func (s *calendarService) Remove(ctx context.Context, userID, id string) error {
	return observe(ctx, s.obs, "calendar.remove", userID, map[string]any{"entry_id": id}, func() error {
		return s.entries.Delete(ctx, userID, id)
	})
}

func (s *calendarService) CheckDuplicate(ctx context.Context, userID, subject, topic, excludeID string) (*domain.CalendarEntry, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	list, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.ID != excludeID && e.SameSubject(subject, topic) {
			return e, nil
		}
	}
	return nil, nil
}

func values(list []*domain.CalendarEntry) []domain.CalendarEntry {
	out := make([]domain.CalendarEntry, len(list))
	for i, e := range list {
		out[i] = *e
	}
	return out
}
