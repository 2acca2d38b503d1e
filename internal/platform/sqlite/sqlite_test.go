package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/store"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	want := "file:/tmp/scry.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	assert.Equal(t, want, DSN("/tmp/scry.db"))
	assert.Equal(t, want, DSN("file:/tmp/scry.db?mode=rwc"))
}

func TestMapErrorFromDriver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "errors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `
		CREATE TABLE parent (id TEXT PRIMARY KEY);
		CREATE TABLE child (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL REFERENCES parent (id),
			n INTEGER NOT NULL CHECK (n >= 0)
		);
		INSERT INTO parent (id) VALUES ('p1');`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO parent (id) VALUES ('p1')`)
	assert.ErrorIs(t, MapError(err), store.ErrDuplicate)

	_, err = db.ExecContext(ctx, `INSERT INTO child (id, parent_id, n) VALUES ('c1', 'missing', 1)`)
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)

	_, err = db.ExecContext(ctx, `INSERT INTO child (id, parent_id, n) VALUES ('c2', 'p1', -1)`)
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)

	_, err = db.ExecContext(ctx, `SELECT * FROM nowhere`)
	assert.ErrorIs(t, MapError(err), store.ErrPersistence)
}

func TestMapErrorGeneric(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(errors.New("disk I/O error")), store.ErrPersistence)
	assert.False(t, Dialect().SupportsRowLocks)
}
