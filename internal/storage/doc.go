// Package storage persists the announcement schedule.
//
// It currently supports:
//   - a single-file JSON snapshot (atomic replace)
//   - a SQLite database (modernc, cgo-free)
package storage
