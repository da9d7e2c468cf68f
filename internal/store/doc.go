// Package store keeps a SQLite history of suite runs.
//
// Each run records its suite, the digest of its canonical report document
// and one row per verdict. Runs are ordered by seq, the insertion order,
// never by wall-clock time.
//
// Deleting a run removes its verdicts through ON DELETE CASCADE. The schema
// version lives in PRAGMA user_version; Open refuses a database stamped with
// a later version than it knows.
package store
