// Package repository implements SurrealDB data access for the Colony
// Events domain. Each repository wraps the shared database.Database and
// owns the queries for one collection; mutations that must keep the
// bidirectional group/event/user links consistent are submitted as a
// single atomic batch.
package repository
