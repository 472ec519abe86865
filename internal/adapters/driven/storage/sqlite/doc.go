// Package sqlite provides a SQLite-backed event queue.
//
// Events are stored in a single table in insertion order. The event itself
// is kept as JSON next to the columns used for querying (status, parent,
// storage code, type). Schema changes are embedded SQL migrations applied
// on open.
package sqlite
