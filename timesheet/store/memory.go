// Package store provides in-memory implementations of the persistence
// interfaces, for tests and development.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements timesheet.EntryStore and timesheet.ConfirmationStore
// with mutex-guarded maps.
type Memory struct {
	mu            sync.RWMutex
	entries       map[timesheet.EntryID]timesheet.TimeEntry
	confirmations map[weekKey]timesheet.WeekConfirmation
	nextID        int
}

type weekKey struct {
	UserID    timesheet.UserID
	WeekStart string
}

func NewMemory() *Memory {
	return &Memory{
		entries:       make(map[timesheet.EntryID]timesheet.TimeEntry),
		confirmations: make(map[weekKey]timesheet.WeekConfirmation),
	}
}

// -----------------------------------------------------------------------------
// EntryStore
// -----------------------------------------------------------------------------

func (m *Memory) LoadEntries(_ context.Context, userID timesheet.UserID, period timesheet.Period) ([]timesheet.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []timesheet.TimeEntry
	for _, e := range m.entries {
		if e.UserID == userID && period.Contains(e.Date) {
			out = append(out, e.Clone())
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *Memory) LoadAllEntries(_ context.Context, period timesheet.Period) ([]timesheet.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []timesheet.TimeEntry
	for _, e := range m.entries {
		if period.Contains(e.Date) {
			out = append(out, e.Clone())
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *Memory) GetEntry(_ context.Context, id timesheet.EntryID) (*timesheet.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", id, timesheet.ErrNotFound)
	}
	out := e.Clone()
	return &out, nil
}

func (m *Memory) SaveEntries(_ context.Context, entries []timesheet.TimeEntry) ([]timesheet.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]timesheet.TimeEntry, len(entries))
	for i := range entries {
		e := entries[i].Clone()
		if e.ID == "" {
			m.nextID++
			e.ID = timesheet.EntryID(fmt.Sprintf("entry-%d", m.nextID))
		}
		m.entries[e.ID] = e.Clone()
		out[i] = e
	}
	return out, nil
}

// ReplaceDay swaps one user-day under a single lock hold, so readers never
// observe the day half-cleared.
func (m *Memory) ReplaceDay(_ context.Context, userID timesheet.UserID, date timesheet.Date, entries []timesheet.TimeEntry) ([]timesheet.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.entries {
		if e.UserID == userID && e.Date.Equal(date) {
			delete(m.entries, id)
		}
	}
	out := make([]timesheet.TimeEntry, len(entries))
	for i := range entries {
		e := entries[i].Clone()
		if e.ID == "" {
			m.nextID++
			e.ID = timesheet.EntryID(fmt.Sprintf("entry-%d", m.nextID))
		}
		m.entries[e.ID] = e.Clone()
		out[i] = e
	}
	return out, nil
}

func (m *Memory) DeleteEntry(_ context.Context, id timesheet.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("entry %s: %w", id, timesheet.ErrNotFound)
	}
	delete(m.entries, id)
	return nil
}

// -----------------------------------------------------------------------------
// ConfirmationStore
// -----------------------------------------------------------------------------

func (m *Memory) LoadConfirmation(_ context.Context, userID timesheet.UserID, weekStart timesheet.Date) (*timesheet.WeekConfirmation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wc, ok := m.confirmations[weekKey{UserID: userID, WeekStart: weekStart.String()}]
	if !ok {
		return nil, nil
	}
	out := wc
	return &out, nil
}

// UpsertConfirmation replaces the row under the store lock, giving the
// last-writer-wins semantics the engine documents.
func (m *Memory) UpsertConfirmation(_ context.Context, wc *timesheet.WeekConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.confirmations[weekKey{UserID: wc.UserID, WeekStart: wc.WeekStart.String()}] = *wc
	return nil
}

// sortEntries orders by date, then start time (nil last), then ID.
func sortEntries(entries []timesheet.TimeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		a, b := entries[i].Start, entries[j].Start
		switch {
		case a == nil && b == nil:
			return entries[i].ID < entries[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		}
		return entries[i].ID < entries[j].ID
	})
}
