package schedule

import (
	"context"
	"time"
)

// Tolerance is the window within which two trigger times identify the same
// announcement. All dedup paths (seed check, add, prune, removal) go through
// withinTolerance so the comparison can never drift apart.
const Tolerance = 60 * time.Second

// Announcement is one pending timed broadcast. Its identity is At, compared
// with Tolerance; Body and WithMenu are payload.
type Announcement struct {
	At       time.Time `json:"at"`
	Body     string    `json:"body"`
	WithMenu bool      `json:"with_menu,omitempty"`
}

func withinTolerance(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < Tolerance
}

// Store persists the full announcement sequence as one unit. Implementations
// must round-trip timestamps with their zone offset intact.
type Store interface {
	LoadSchedule(ctx context.Context) ([]Announcement, error)
	SaveSchedule(ctx context.Context, list []Announcement) error
}
