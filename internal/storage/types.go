package storage

import (
	"context"
	"errors"

	"weddingbot/internal/schedule"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": single JSON snapshot, written via temp file + atomic rename
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver string
	Path   string
}

// Store persists the announcement schedule as a whole. It extends
// schedule.Store with lifecycle management.
type Store interface {
	LoadSchedule(ctx context.Context) ([]schedule.Announcement, error)
	SaveSchedule(ctx context.Context, list []schedule.Announcement) error
	Close() error
}
