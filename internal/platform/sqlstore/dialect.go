package sqlstore

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/phrazzld/scry-study/internal/store"
)

// Dialect captures what differs between SQL backends.
type Dialect struct {
	// Name identifies the dialect in logs.
	Name string

	// Placeholder is the bind parameter style, e.g. sq.Dollar or sq.Question.
	Placeholder sq.PlaceholderFormat

	// MapError translates driver errors into store sentinels. It must return
	// nil for nil and wrap store.ErrPersistence for anything unrecognized.
	MapError func(error) error

	// SupportsRowLocks enables SELECT ... FOR UPDATE.
	SupportsRowLocks bool
}

// fail maps a driver error and records which store call it came from.
// The result still matches the mapped sentinel.
func (d Dialect) fail(entity, operation string, err error) error {
	return store.NewStoreError(entity, operation, d.Name+" query failed", d.MapError(err))
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// utc normalizes bound times so every backend stores and compares them in UTC.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
