package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/repository"
	"github.com/alexanderramin/estudio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresAdminActor(t *testing.T) {
	users, _, uow := setupRepos(t)
	svc := NewAdminService(users, uow)
	ctx := context.Background()
	plain := testutil.NewTestUser("Bruno")
	require.NoError(t, users.Create(ctx, plain))

	_, err := svc.ListUsers(ctx, plain)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.ListUsers(ctx, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.SetRole(ctx, plain, plain.ID, domain.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, svc.RemoveUser(ctx, plain, plain.ID), ErrForbidden)
}

func TestAdmin_ListSetRoleRemove(t *testing.T) {
	users, entries, uow := setupRepos(t)
	svc := NewAdminService(users, uow)
	ctx := context.Background()

	admin := testutil.NewTestUser("Ana", testutil.WithRole(domain.RoleAdmin))
	bruno := testutil.NewTestUser("Bruno")
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.Create(ctx, bruno))
	require.NoError(t, entries.Upsert(ctx, testutil.NewTestEntry(bruno.ID, "2026-03-01")))

	list, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.SetRole(ctx, admin, bruno.ID, domain.RoleAdmin))
	got, err := users.GetByID(ctx, bruno.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, svc.SetRole(ctx, admin, bruno.ID, "owner"), ErrInvalidInput)

	require.NoError(t, svc.RemoveUser(ctx, admin, bruno.ID))
	_, err = users.GetByID(ctx, bruno.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	left, err := entries.ListByUser(ctx, bruno.ID)
	require.NoError(t, err)
	assert.Empty(t, left, "calendar is removed with the user")
}

func TestAdmin_LastAdminIsProtected(t *testing.T) {
	users, _, uow := setupRepos(t)
	svc := NewAdminService(users, uow)
	ctx := context.Background()
	admin := testutil.NewTestUser("Ana", testutil.WithRole(domain.RoleAdmin))
	require.NoError(t, users.Create(ctx, admin))

	assert.ErrorIs(t, svc.SetRole(ctx, admin, admin.ID, domain.RoleUser), ErrLastAdmin)
	assert.ErrorIs(t, svc.RemoveUser(ctx, admin, admin.ID), ErrLastAdmin)
	assert.ErrorIs(t, svc.RemoveUser(ctx, admin, "missing"), repository.ErrNotFound)
}
