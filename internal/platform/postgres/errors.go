package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/scry-study/internal/store"
)

// SQLSTATE codes with a dedicated mapping.
const (
	uniqueViolationCode      = "23505"
	foreignKeyViolationCode  = "23503"
	checkViolationCode       = "23514"
	notNullViolationCode     = "23502"
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

type codeMapping struct {
	sentinel error
	describe func(*pgconn.PgError) string
}

var codeMappings = map[string]codeMapping{
	uniqueViolationCode: {store.ErrDuplicate, func(e *pgconn.PgError) string {
		return "unique violation (" + e.ConstraintName + ")"
	}},
	foreignKeyViolationCode: {store.ErrInvalidEntity, func(e *pgconn.PgError) string {
		return "foreign key violation (" + e.ConstraintName + ")"
	}},
	checkViolationCode: {store.ErrInvalidEntity, func(e *pgconn.PgError) string {
		return "check constraint violation (" + e.ConstraintName + ")"
	}},
	notNullViolationCode: {store.ErrInvalidEntity, func(e *pgconn.PgError) string {
		return "not null violation (" + e.ColumnName + ")"
	}},
	serializationFailureCode: {store.ErrPersistence, func(*pgconn.PgError) string { return "transaction conflict" }},
	deadlockDetectedCode:     {store.ErrPersistence, func(*pgconn.PgError) string { return "deadlock detected" }},
}

// MapError translates a pgx error into a store sentinel. Unrecognized
// errors, including lost connections and timeouts, wrap ErrPersistence.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if m, ok := codeMappings[pgErr.Code]; ok {
			return fmt.Errorf("%w: %s: %v", m.sentinel, m.describe(pgErr), err)
		}
	}
	return fmt.Errorf("%w: %v", store.ErrPersistence, err)
}
