// Package repository defines the data access interface for registry
// snapshots.
//
// A snapshot is a copy of one merged registry (interfaces and the
// link/member relations between them) written to a database so other
// tools can query it with plain SQL. Importing replaces the previous
// snapshot in a single transaction.
//
// The implementation lives in the sqlite subpackage.
package repository
