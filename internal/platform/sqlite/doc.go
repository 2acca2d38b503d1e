// Package sqlite provides the SQLite dialect for the SQL stores, backed by
// the pure Go modernc.org/sqlite driver. It serves local runs and tests.
package sqlite
