package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCalendar(t *testing.T) (*SQLiteCalendarRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	u := testutil.NewTestUser("Owner")
	require.NoError(t, NewSQLiteUserRepo(db).Create(context.Background(), u))
	return NewSQLiteCalendarRepo(db), u.ID
}

func TestCalendarRepo_UpsertInsertsThenUpdates(t *testing.T) {
	repo, uid := setupCalendar(t)
	ctx := context.Background()

	e := testutil.NewTestEntry(uid, "2026-03-10")
	require.NoError(t, repo.Upsert(ctx, e))

	e.Topic = "Roteirização com IA"
	e.Status = domain.StatusWriting
	e.Keywords = "rotas, frota"
	require.NoError(t, repo.Upsert(ctx, e))

	all, err := repo.ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Roteirização com IA", all[0].Topic)
	assert.Equal(t, domain.StatusWriting, all[0].Status)
	assert.Equal(t, "rotas, frota", all[0].Keywords)
	assert.Equal(t, "2026-03-10", all[0].DateKey())
}

func TestCalendarRepo_SameDayDifferentIDConflicts(t *testing.T) {
	repo, uid := setupCalendar(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-03-10")))
	err := repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-03-10"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCalendarRepo_UpsertForeignIDConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLiteCalendarRepo(db)
	ctx := context.Background()
	owner, other := testutil.NewTestUser("Ana"), testutil.NewTestUser("Bruno")
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, users.Create(ctx, other))

	e := testutil.NewTestEntry(owner.ID, "2026-03-10")
	require.NoError(t, repo.Upsert(ctx, e))

	stolen := *e
	stolen.UserID = other.ID
	stolen.Topic = "Sobrescrito"
	assert.ErrorIs(t, repo.Upsert(ctx, &stolen), ErrConflict)

	mine, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, e.Topic, mine[0].Topic)
	theirs, err := repo.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCalendarRepo_GetByDateAndID(t *testing.T) {
	repo, uid := setupCalendar(t)
	ctx := context.Background()

	e := testutil.NewTestEntry(uid, "2026-04-01")
	require.NoError(t, repo.Upsert(ctx, e))

	byDate, err := repo.GetByDate(ctx, uid, e.Date)
	require.NoError(t, err)
	assert.Equal(t, e.ID, byDate.ID)

	_, err = repo.GetByID(ctx, "someone-else", e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalendarRepo_ListRangeAndSearch(t *testing.T) {
	repo, uid := setupCalendar(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-02-28")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-03-01", testutil.WithSubject("Finanças", "Open Finance"))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-03-31")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-04-01")))

	from, _ := domain.ParseDay("2026-03-01")
	to, _ := domain.ParseDay("2026-04-01")
	march, err := repo.ListRange(ctx, uid, from, to)
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.Equal(t, "2026-03-01", march[0].DateKey())
	assert.Equal(t, "2026-03-31", march[1].DateKey())

	found, err := repo.Search(ctx, uid, "open FIN")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Finanças", found[0].Subject)
}

func TestCalendarRepo_UpdateStatusAndDelete(t *testing.T) {
	repo, uid := setupCalendar(t)
	ctx := context.Background()

	e := testutil.NewTestEntry(uid, "2026-03-10")
	require.NoError(t, repo.Upsert(ctx, e))

	require.NoError(t, repo.UpdateStatus(ctx, uid, e.ID, domain.StatusPublished))
	got, err := repo.GetByID(ctx, uid, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)

	require.NoError(t, repo.Delete(ctx, uid, e.ID))
	assert.ErrorIs(t, repo.Delete(ctx, uid, e.ID), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, uid, e.ID, domain.StatusIdea), ErrNotFound)
}

func TestCalendarRepo_DeleteAllForUser(t *testing.T) {
	repo, uid := setupCalendar(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-03-10")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(uid, "2026-03-11")))
	require.NoError(t, repo.DeleteAllForUser(ctx, uid))

	all, err := repo.ListByUser(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, all)
}
