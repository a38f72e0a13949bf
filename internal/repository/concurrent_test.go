package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/estudio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAccess_ReadDuringWrite checks that calendar reads stay
// consistent while one writer fills the month.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()

	users := NewSQLiteUserRepo(database)
	repo := NewSQLiteCalendarRepo(database)
	u := testutil.NewTestUser("Writer")
	require.NoError(t, users.Create(ctx, u))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 20; i++ {
			e := testutil.NewTestEntry(u.ID, fmt.Sprintf("2026-03-%02d", i))
			if err := repo.Upsert(ctx, e); err != nil {
				t.Errorf("writer: upsert day %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := repo.ListByUser(ctx, u.ID)
				if err != nil {
					t.Errorf("reader %d: list: %v", reader, err)
					return
				}
				for _, e := range list {
					if e.ID == "" || e.Topic == "" {
						t.Errorf("reader %d: got half-written entry", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

// TestConcurrentAccess_UsersAreIsolated checks that concurrent readers of
// different users never see each other's entries.
func TestConcurrentAccess_UsersAreIsolated(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()

	users := NewSQLiteUserRepo(database)
	repo := NewSQLiteCalendarRepo(database)

	const userCount = 8
	ids := make([]string, userCount)
	for i := range ids {
		u := testutil.NewTestUser(fmt.Sprintf("User-%d", i))
		require.NoError(t, users.Create(ctx, u))
		ids[i] = u.ID
		for d := 1; d <= i+1; d++ {
			require.NoError(t, repo.Upsert(ctx, testutil.NewTestEntry(u.ID, fmt.Sprintf("2026-04-%02d", d))))
		}
	}

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(want int, userID string) {
			defer wg.Done()
			list, err := repo.ListRange(ctx, userID, from, from.AddDate(0, 1, 0))
			if err != nil {
				t.Errorf("user %s: list range: %v", userID, err)
				return
			}
			if len(list) != want {
				t.Errorf("user %s: expected %d entries, got %d", userID, want, len(list))
			}
			for _, e := range list {
				if e.UserID != userID {
					t.Errorf("user %s: saw entry of %s", userID, e.UserID)
				}
			}
		}(i+1, id)
	}
	wg.Wait()
}
