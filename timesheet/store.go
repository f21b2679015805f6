/*
store.go - Persistence and clock interfaces

PURPOSE:
  Defines the boundary between the engine and its collaborators. The core
  never opens a database or reads the wall clock directly; callers supply
  implementations of these interfaces.

KEY INTERFACES:
  EntryStore:        Time entry persistence and range queries
  ConfirmationStore: Week confirmation upsert/load
  Clock:             Source of "today" for future-date checks

CONCURRENCY CONTRACT:
  The lock is scoped per (user, week); writes for disjoint keys never
  conflict. Concurrent writes to the same WeekConfirmation row resolve
  last-writer-wins at the store's atomic upsert - the engine does not
  attempt optimistic concurrency. This is an accepted simplification.

IMPLEMENTATIONS:
  - timesheet/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite-backed

SEE ALSO:
  - service.go: Services orchestrating over these interfaces
*/
package timesheet

import (
	"context"
	"time"
)

// =============================================================================
// CLOCK
// =============================================================================

// Clock supplies "today" so date policies stay testable. Production code
// uses SystemClock; tests pin a fixed date.
type Clock interface {
	Today() Date
}

// SystemClock reads the machine's local date.
type SystemClock struct{}

func (SystemClock) Today() Date { return DateOf(time.Now()) }

// FixedClock always returns the same date.
type FixedClock struct {
	Date Date
}

func (c FixedClock) Today() Date { return c.Date }

// =============================================================================
// ENTRY STORE
// =============================================================================

// EntryStore persists time entries.
type EntryStore interface {
	// LoadEntries returns a user's entries within the period, ordered by
	// date then start time.
	LoadEntries(ctx context.Context, userID UserID, period Period) ([]TimeEntry, error)

	// LoadAllEntries returns every user's entries within the period.
	// Used by the all-users overtime report.
	LoadAllEntries(ctx context.Context, period Period) ([]TimeEntry, error)

	// GetEntry returns one entry by ID, or an error wrapping ErrNotFound.
	GetEntry(ctx context.Context, id EntryID) (*TimeEntry, error)

	// SaveEntries persists entries, assigning IDs to new ones. Entries with
	// existing IDs are replaced. Returns the persisted copies.
	SaveEntries(ctx context.Context, entries []TimeEntry) ([]TimeEntry, error)

	// ReplaceDay atomically swaps a user's entries on one date for the
	// given set: the delete and the inserts commit together or not at all.
	// Returns the persisted copies with IDs assigned.
	ReplaceDay(ctx context.Context, userID UserID, date Date, entries []TimeEntry) ([]TimeEntry, error)

	// DeleteEntry removes one entry, or fails wrapping ErrNotFound.
	DeleteEntry(ctx context.Context, id EntryID) error
}

// =============================================================================
// CONFIRMATION STORE
// =============================================================================

// ConfirmationStore persists week confirmations keyed (user, week Monday).
type ConfirmationStore interface {
	// LoadConfirmation returns the confirmation for a (user, week) pair, or
	// (nil, nil) when the week was never confirmed.
	LoadConfirmation(ctx context.Context, userID UserID, weekStart Date) (*WeekConfirmation, error)

	// UpsertConfirmation writes the row, replacing any existing one.
	// The write must be atomic; concurrent upserts on the same key resolve
	// last-writer-wins.
	UpsertConfirmation(ctx context.Context, wc *WeekConfirmation) error
}
