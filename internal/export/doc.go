// ABOUTME: Package documentation for the SQLite export
// ABOUTME: Backup/BI handoff format, separate from the live JSON store

// Package export writes a point-in-time copy of the store into a SQLite
// file. The live system of record stays the JSON document store; the
// SQLite dump exists so spreadsheets, accountants, and ad-hoc SQL can read
// the data without touching the running service.
package export
