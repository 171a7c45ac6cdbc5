package schedule

import (
	"context"
	"sync"
	"time"

	"weddingbot/internal/content"
	logx "weddingbot/pkg/logx"
)

// Wedding day anchor: 2025-09-27 08:00 in the book's timezone.
// Reminders are seeded one week before, one day before, and on the day.
func weddingDay(loc *time.Location) time.Time {
	return time.Date(2025, time.September, 27, 8, 0, 0, 0, loc)
}

func seedTimes(loc *time.Location) []time.Time {
	day := weddingDay(loc)
	return []time.Time{
		day.AddDate(0, 0, -7),
		day.AddDate(0, 0, -1),
		day,
	}
}

// Book owns the pending announcement sequence. It is the only writer of the
// persisted schedule; all mutations hold the mutex so auxiliary goroutines
// (cron broadcasts, tests) can never interleave a partial state.
//
// Invariant: after every mutation, no two entries lie within Tolerance of
// each other.
type Book struct {
	mu    sync.Mutex
	log   logx.Logger
	loc   *time.Location
	store Store // nil when persistence is disabled
	items []Announcement
}

// NewBook loads the persisted schedule and prunes duplicates. A load failure
// is logged and yields an empty schedule; it never fails the caller.
func NewBook(ctx context.Context, store Store, loc *time.Location, log logx.Logger) *Book {
	if log.IsZero() {
		log = logx.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}
	b := &Book{log: log, loc: loc, store: store}

	if store != nil {
		items, err := store.LoadSchedule(ctx)
		if err != nil {
			b.log.Warn("could not load schedule; starting empty", logx.Err(err))
		} else {
			b.items = items
			b.log.Info("schedule loaded", logx.Int("count", len(items)))
		}
	}

	b.RemoveDuplicates(ctx)
	return b
}

// Len reports the number of pending announcements.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a snapshot copy of the pending sequence.
func (b *Book) Items() []Announcement {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Announcement, len(b.items))
	copy(out, b.items)
	return out
}

// Add appends one announcement and persists before returning. It is a no-op
// when an existing entry lies within Tolerance of at.
func (b *Book) Add(ctx context.Context, at time.Time, body string, withMenu bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, it := range b.items {
		if withinTolerance(it.At, at) {
			b.log.Info("duplicate announcement skipped", logx.Time("at", at))
			return false
		}
	}
	b.items = append(b.items, Announcement{At: at, Body: body, WithMenu: withMenu})
	b.persistLocked(ctx)
	b.log.Info("announcement scheduled", logx.Time("at", at), logx.Bool("menu", withMenu))
	return true
}

// RemoveDuplicates drops every entry within Tolerance of an earlier one
// (first-seen wins) and persists only when something was dropped. Returns the
// number of entries removed.
func (b *Book) RemoveDuplicates(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return 0
	}

	unique := make([]Announcement, 0, len(b.items))
	for _, it := range b.items {
		dup := false
		for _, kept := range unique {
			if withinTolerance(it.At, kept.At) {
				dup = true
				b.log.Info("removing duplicate announcement", logx.Time("at", it.At))
				break
			}
		}
		if !dup {
			unique = append(unique, it)
		}
	}

	removed := len(b.items) - len(unique)
	if removed > 0 {
		b.items = unique
		b.persistLocked(ctx)
		b.log.Info("duplicates pruned", logx.Int("removed", removed), logx.Int("remaining", len(unique)))
	}
	return removed
}

// AlreadySeeded reports whether any stored entry lies within Tolerance of any
// expected reminder time. This is a heuristic, not an identity key: an
// unrelated announcement landing inside the window also counts as seeded.
func (b *Book) AlreadySeeded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return false
	}
	for _, want := range seedTimes(b.loc) {
		for _, it := range b.items {
			if withinTolerance(it.At, want) {
				return true
			}
		}
	}
	return false
}

// SeedReminders schedules the three wedding reminders. Calling it on every
// start is safe: when AlreadySeeded reports a prior run, nothing is added.
func (b *Book) SeedReminders(ctx context.Context) {
	if b.AlreadySeeded() {
		b.log.Info("reminder schedule already exists, skipping seed")
		return
	}

	times := seedTimes(b.loc)
	b.log.Info("seeding reminder schedule", logx.String("tz", b.loc.String()))

	b.Add(ctx, times[0], content.WeekBeforeReminder, false)
	b.Add(ctx, times[1], content.DayBeforeReminder, false)
	b.Add(ctx, times[2], content.DayOfReminder, true)

	for _, t := range times {
		b.log.Info("reminder scheduled", logx.Time("at", t))
	}
}

// Due returns a snapshot of every entry whose trigger time is at or before now.
func (b *Book) Due(now time.Time) []Announcement {
	b.mu.Lock()
	defer b.mu.Unlock()

	var due []Announcement
	for _, it := range b.items {
		if !it.At.After(now) {
			due = append(due, it)
		}
	}
	return due
}

// Remove deletes the given entries by trigger-time identity and persists once
// if anything was removed.
func (b *Book) Remove(ctx context.Context, batch []Announcement) {
	if len(batch) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.items[:0]
	for _, it := range b.items {
		matched := false
		for _, r := range batch {
			if withinTolerance(it.At, r.At) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, it)
		}
	}
	if len(kept) != len(b.items) {
		b.items = kept
		b.persistLocked(ctx)
	}
}

// persistLocked saves the current sequence. A failed save is logged; the
// in-memory state stays authoritative until the next successful save.
func (b *Book) persistLocked(ctx context.Context) {
	if b.store == nil {
		return
	}
	if err := b.store.SaveSchedule(ctx, b.items); err != nil {
		b.log.Warn("could not save schedule", logx.Err(err))
	}
}
