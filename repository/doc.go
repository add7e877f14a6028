// Package repository provides the generic bun repository (CRUD, filtered
// pages, transactions, upserts) and the member search repository built on
// the predicate composer and the paginated executor.
package repository
