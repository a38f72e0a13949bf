package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const insertUser = `INSERT INTO users (id, name, email, password_hash, role, created_at)
	VALUES ('u1', 'Ana', 'ana@example.com', 'x', 'admin', '2026-01-01T00:00:00Z')`

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"users", "calendar_entries"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_calendar_user_date", "idx_calendar_user"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_FilePragmasHoldOnEveryConnection(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "estudio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		c, err := db.Conn(ctx)
		require.NoError(t, err)
		conns[i] = c
	}
	for _, c := range conns {
		var fk, timeout int
		var mode string
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode))
		assert.Equal(t, 1, fk)
		assert.Equal(t, 5000, timeout)
		assert.Equal(t, "wal", mode)
		require.NoError(t, c.Close())
	}
}

func TestMigrate_OneEntryPerUserAndDay(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(insertUser)
	require.NoError(t, err)

	const ins = `INSERT INTO calendar_entries (id, user_id, date, status, created_at, updated_at)
		VALUES (?, 'u1', '2026-03-10', 'idea', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`
	_, err = db.Exec(ins, "e1")
	require.NoError(t, err)
	_, err = db.Exec(ins, "e2")
	assert.Error(t, err, "second entry on the same day should violate the unique index")
}

func TestMigrate_DeletingUserCascades(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(insertUser)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO calendar_entries (id, user_id, date, created_at, updated_at)
		VALUES ('e1', 'u1', '2026-03-10', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM users WHERE id = 'u1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM calendar_entries`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_LegacyStatusesNormalized(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(insertUser)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO calendar_entries (id, user_id, date, status, created_at, updated_at) VALUES
		('e1', 'u1', '2026-03-10', 'completed', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z'),
		('e2', 'u1', '2026-03-11', 'archived', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z'),
		('e3', 'u1', '2026-03-12', 'review', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	got := map[string]string{}
	rows, err := db.Query(`SELECT id, status FROM calendar_entries`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id, status string
		require.NoError(t, rows.Scan(&id, &status))
		got[id] = status
	}
	assert.Equal(t, map[string]string{"e1": "published", "e2": "idea", "e3": "review"}, got)
}

func TestMigrate_UpgradeAddsLateColumns(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	// First-release schema without goal/tone/format/keywords/brand_voice.
	_, err = db.Exec(migrations[0])
	require.NoError(t, err)
	_, err = db.Exec(migrations[1])
	require.NoError(t, err)
	_, err = db.Exec(insertUser)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO calendar_entries (id, user_id, date, topic, created_at, updated_at)
		VALUES ('e1', 'u1', '2026-03-10', 'Drones', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var topic, keywords string
	require.NoError(t, db.QueryRow(`SELECT topic, keywords FROM calendar_entries WHERE id = 'e1'`).Scan(&topic, &keywords))
	assert.Equal(t, "Drones", topic)
	assert.Equal(t, "", keywords)
}
