// Package sqlstore implements the store interfaces on database/sql.
//
// Queries are built with squirrel so one implementation serves every
// dialect; a Dialect supplies the placeholder format, the driver error
// mapping and whether row locks are available. Rows are scanned into
// structs with scany.
package sqlstore
