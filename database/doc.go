// Package database owns the bun connection to sqlite, PostgreSQL or MySQL:
// connection management, the migrations that create the roster tables and
// their foreign keys, SQL seed files, query hooks and driver error
// classification.
package database
