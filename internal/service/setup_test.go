package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/estudio/internal/db"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/repository"
	"github.com/alexanderramin/estudio/internal/testutil"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func setupRepos(t *testing.T) (*repository.SQLiteUserRepo, *repository.SQLiteCalendarRepo, db.UnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteUserRepo(database), repository.NewSQLiteCalendarRepo(database), testutil.NewTestUoW(database)
}

// setupCalendarService returns a service with a fixed clock and a stored user.
func setupCalendarService(t *testing.T) (CalendarService, *repository.SQLiteCalendarRepo, *domain.User) {
	t.Helper()
	users, entries, uow := setupRepos(t)
	u := testutil.NewTestUser("Ana")
	require.NoError(t, users.Create(context.Background(), u))
	return NewCalendarServiceAt(entries, uow, func() time.Time { return fixedNow }), entries, u
}

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}
