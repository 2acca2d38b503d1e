// Package postgres provides the PostgreSQL dialect for the SQL stores in
// internal/platform/sqlstore: connection setup through the pgx stdlib
// driver and translation of PostgreSQL error codes into store errors.
package postgres
