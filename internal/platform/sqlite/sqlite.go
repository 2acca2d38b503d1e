package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/store"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Dialect returns the sqlstore dialect for SQLite. SQLite has no row locks;
// a single connection serializes writers instead.
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:             "sqlite",
		Placeholder:      sq.Question,
		MapError:         MapError,
		SupportsRowLocks: false,
	}
}

// DSN builds a modernc connection string for path with foreign keys on, a
// busy timeout and the SQLite text format for times.
func DSN(path string) string {
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Open opens the database file at path. The pool is capped at one
// connection so transactions never contend for the write lock.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// MapError maps a driver error to a store error. Constraint violations map
// to ErrDuplicate or ErrInvalidEntity; everything else wraps ErrPersistence.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if mapped := mapConstraint(sqliteErr.Code(), err); mapped != nil {
			return mapped
		}
	}

	return fmt.Errorf("%w: %v", store.ErrPersistence, err)
}

func mapConstraint(code int, err error) error {
	// Without extended result codes only the primary code is set; the
	// message still names the constraint kind.
	if code == sqlite3.SQLITE_CONSTRAINT {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			code = sqlite3.SQLITE_CONSTRAINT_UNIQUE
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			code = sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
		case strings.Contains(msg, "CHECK constraint failed"):
			code = sqlite3.SQLITE_CONSTRAINT_CHECK
		case strings.Contains(msg, "NOT NULL constraint failed"):
			code = sqlite3.SQLITE_CONSTRAINT_NOTNULL
		}
	}

	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}
	return nil
}
