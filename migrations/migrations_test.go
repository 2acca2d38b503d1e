package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "migrations.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpAndDownSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Up(ctx, db, SQLite, nil))

	version, err := CurrentVersion(ctx, db, SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"decks", "cards", "quota_counters", "event_log"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Applying again is a no-op.
	require.NoError(t, Up(ctx, db, SQLite, nil))

	require.NoError(t, Run(ctx, db, SQLite, CommandDown, nil))
	version, err = CurrentVersion(ctx, db, SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestRunRejectsUnknownInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)

	assert.Error(t, Run(ctx, db, SQLite, "sideways", nil))
	assert.Error(t, Run(ctx, db, Dialect("oracle"), CommandUp, nil))
}
