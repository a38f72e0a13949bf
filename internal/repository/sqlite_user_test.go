package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("Ana", testutil.WithEmail("Ana@Example.com"), testutil.WithRole(domain.RoleAdmin))
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)
	assert.Equal(t, "ana@example.com", byID.Email)
	assert.Equal(t, domain.RoleAdmin, byID.Role)
	assert.Nil(t, byID.LastLoginAt)

	byEmail, err := repo.GetByEmail(ctx, "  ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("A", testutil.WithEmail("same@example.com"))))
	err := repo.Create(ctx, testutil.NewTestUser("B", testutil.WithEmail("SAME@example.com")))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepo_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.UpdateRole(ctx, "missing", domain.RoleAdmin), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestUserRepo_ListCountRoleAndLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	a := testutil.NewTestUser("A")
	b := testutil.NewTestUser("B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.UpdateRole(ctx, b.ID, domain.RoleAdmin))
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLogin(ctx, b.ID, at))
	require.NoError(t, repo.UpdatePassword(ctx, b.ID, "newhash"))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, "newhash", got.PasswordHash)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))
}

func TestUserRepo_DeleteCascadesCalendar(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewSQLiteUserRepo(db)
	cal := NewSQLiteCalendarRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("A")
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, cal.Upsert(ctx, testutil.NewTestEntry(u.ID, "2026-03-10")))

	require.NoError(t, users.Delete(ctx, u.ID))

	entries, err := cal.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
