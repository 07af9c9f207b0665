// Package sqlite provides a SQLite-backed implementation of driven.Index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database holds the submissions of
// every form; Store.Index binds a view to a single content id and matches the
// driven.IndexBuilder signature so it can be registered with the index factory
// under the "sqlite" key.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
//   - submissions: one row per stored submission (row id, content id, created time)
//   - submission_values: one row per field snapshot, in declaration order
//
// # Data Location
//
// By default, the database is stored at ~/.formflow/data/submissions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, and write transactions are opened IMMEDIATE so
// concurrent submissions queue on the busy timeout instead of failing.
package sqlite
