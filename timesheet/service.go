/*
service.go - Orchestration over the engine and its stores

PURPOSE:
  The services tie the pure pieces together: reconciliation before every
  write, the week lock guard in front of every mutation, and period
  resolution in front of every report.

SERVICES:
  EntryService:        Day submission, single-entry update/delete, week view
  ConfirmationService: Confirm / approve / reject / unlock
  OvertimeService:     Per-user and all-users overtime reports (read-only)

ACTOR MODEL:
  Every mutating operation takes an Actor. Reviewer roles bypass the week
  lock (IsLocked) but still go through entry validation. The engine does
  not police which user a reviewer edits; authentication and ownership are
  the caller's concern.

SEE ALSO:
  - reconcile.go, confirmation.go, overtime.go: the logic being orchestrated
  - store.go: the interfaces the services depend on
*/
package timesheet

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY SERVICE
// =============================================================================

// EntryService handles time entry mutation and week views.
type EntryService struct {
	Entries       EntryStore
	Confirmations ConfirmationStore
	Clock         Clock
}

// guardWeek rejects the mutation when the week containing date is locked
// for the actor.
func (s *EntryService) guardWeek(ctx context.Context, actor Actor, userID UserID, date Date) error {
	if actor.CanReview() {
		return nil
	}
	weekStart := ISOWeekMonday(date)
	wc, err := s.Confirmations.LoadConfirmation(ctx, userID, weekStart)
	if err != nil {
		return fmt.Errorf("failed to load week confirmation: %w", err)
	}
	if wc == nil {
		return nil
	}
	if state := wc.State(); IsLocked(state, actor.Role) {
		return &WeekLockedError{UserID: userID, WeekStart: weekStart, State: state}
	}
	return nil
}

// SubmitDay replaces one day's entries with the given set, after
// reconciliation. This mirrors the weekly grid UI: the submitted rows are
// the authoritative picture of the day.
func (s *EntryService) SubmitDay(ctx context.Context, actor Actor, userID UserID, date Date, entries []TimeEntry) ([]TimeEntry, error) {
	if err := s.guardWeek(ctx, actor, userID, date); err != nil {
		return nil, err
	}

	proposed := make([]TimeEntry, len(entries))
	for i := range entries {
		proposed[i] = entries[i].Clone()
		proposed[i].UserID = userID
		proposed[i].Date = date
	}

	reconciled, err := ReconcileDay(s.Clock.Today(), proposed)
	if err != nil {
		return nil, err
	}

	// The store swaps the day atomically; a failed write never leaves the
	// day half-cleared.
	return s.Entries.ReplaceDay(ctx, userID, date, reconciled)
}

// UpdateEntry reconciles and persists a single existing entry. The entry
// is re-checked for overlaps against its date's other entries.
func (s *EntryService) UpdateEntry(ctx context.Context, actor Actor, entry TimeEntry) (*TimeEntry, error) {
	if entry.ID == "" {
		return nil, fmt.Errorf("update requires a persisted entry: %w", ErrNotFound)
	}
	current, err := s.Entries.GetEntry(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	// Updates that omit the date keep the entry on its stored day; a zero
	// date must never reach the guard or the store.
	if entry.Date.IsZero() {
		entry.Date = current.Date
	}
	if err := s.guardWeek(ctx, actor, current.UserID, current.Date); err != nil {
		return nil, err
	}
	// A moved entry must also be allowed on its new week.
	if !entry.Date.Equal(current.Date) {
		if err := s.guardWeek(ctx, actor, current.UserID, entry.Date); err != nil {
			return nil, err
		}
	}

	e := entry.Clone()
	e.UserID = current.UserID
	if err := RejectFutureDate(e.Date, s.Clock.Today()); err != nil {
		return nil, err
	}
	if err := ValidateRequired(&e); err != nil {
		return nil, err
	}
	if err := Reconcile(&e); err != nil {
		return nil, err
	}

	siblings, err := s.Entries.LoadEntries(ctx, e.UserID, Period{From: e.Date, To: e.Date})
	if err != nil {
		return nil, err
	}
	set := []TimeEntry{e}
	for i := range siblings {
		if siblings[i].ID != e.ID {
			set = append(set, siblings[i])
		}
	}
	if err := DetectOverlaps(set); err != nil {
		return nil, err
	}

	saved, err := s.Entries.SaveEntries(ctx, []TimeEntry{e})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// DeleteEntry removes one entry, subject to the week lock.
func (s *EntryService) DeleteEntry(ctx context.Context, actor Actor, id EntryID) error {
	entry, err := s.Entries.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardWeek(ctx, actor, entry.UserID, entry.Date); err != nil {
		return err
	}
	return s.Entries.DeleteEntry(ctx, id)
}

// =============================================================================
// WEEK VIEW - Read model for the weekly grid
// =============================================================================

// DayView is one day of the weekly grid.
type DayView struct {
	Date       Date
	Entries    []TimeEntry
	TotalHours decimal.Decimal
}

// WeekView is a user's week: seven days of entries plus the review state.
type WeekView struct {
	UserID    UserID
	WeekStart Date
	Week      int
	Year      int
	State     WeekState
	Days      [7]DayView
}

// WeekView assembles the weekly grid for the week containing date.
func (s *EntryService) WeekView(ctx context.Context, userID UserID, date Date) (*WeekView, error) {
	dates := WeekDates(date)
	period := Period{From: dates[0], To: dates[6]}

	entries, err := s.Entries.LoadEntries(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	wc, err := s.Confirmations.LoadConfirmation(ctx, userID, dates[0])
	if err != nil {
		return nil, err
	}

	view := &WeekView{
		UserID:    userID,
		WeekStart: dates[0],
		Week:      ISOWeekNumber(date),
		Year:      ISOYear(date),
		State:     WeekOpen,
	}
	if wc != nil {
		view.State = wc.State()
	}

	for i, d := range dates {
		view.Days[i] = DayView{Date: d, TotalHours: decimal.Zero}
	}
	for i := range entries {
		e := entries[i]
		idx := e.Date.DaysSince(dates[0])
		if idx < 0 || idx > 6 {
			continue
		}
		view.Days[idx].Entries = append(view.Days[idx].Entries, e)
		view.Days[idx].TotalHours = view.Days[idx].TotalHours.Add(e.Hours)
	}
	for i := range view.Days {
		sortByStart(view.Days[i].Entries)
		view.Days[i].TotalHours = view.Days[i].TotalHours.Round(2)
	}
	return view, nil
}

// =============================================================================
// CONFIRMATION SERVICE
// =============================================================================

// ConfirmationService drives the week review workflow.
type ConfirmationService struct {
	Confirmations ConfirmationStore
}

// Confirm submits the week containing date for review. Creates the
// confirmation row on first submission.
func (s *ConfirmationService) Confirm(ctx context.Context, actor Actor, userID UserID, date Date) (*WeekConfirmation, error) {
	weekStart := ISOWeekMonday(date)
	wc, err := s.Confirmations.LoadConfirmation(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		wc = NewWeekConfirmation(userID, weekStart)
	}
	if err := wc.Confirm(); err != nil {
		return nil, err
	}
	if err := s.Confirmations.UpsertConfirmation(ctx, wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// review loads a confirmed week for a reviewer action.
func (s *ConfirmationService) review(ctx context.Context, actor Actor, userID UserID, date Date) (*WeekConfirmation, error) {
	if !actor.CanReview() {
		return nil, fmt.Errorf("role %s cannot review weeks", actor.Role)
	}
	weekStart := ISOWeekMonday(date)
	wc, err := s.Confirmations.LoadConfirmation(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, fmt.Errorf("week of %s for %s was never confirmed: %w", weekStart, userID, ErrNotFound)
	}
	return wc, nil
}

// Approve accepts a confirmed week. Reviewer roles only.
func (s *ConfirmationService) Approve(ctx context.Context, actor Actor, userID UserID, date Date) (*WeekConfirmation, error) {
	wc, err := s.review(ctx, actor, userID, date)
	if err != nil {
		return nil, err
	}
	if err := wc.Approve(); err != nil {
		return nil, err
	}
	if err := s.Confirmations.UpsertConfirmation(ctx, wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// Reject sends a confirmed week back to the worker. Reviewer roles only.
func (s *ConfirmationService) Reject(ctx context.Context, actor Actor, userID UserID, date Date) (*WeekConfirmation, error) {
	wc, err := s.review(ctx, actor, userID, date)
	if err != nil {
		return nil, err
	}
	if err := wc.Reject(); err != nil {
		return nil, err
	}
	if err := s.Confirmations.UpsertConfirmation(ctx, wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// Unlock reopens any non-open week. Reviewer roles only.
func (s *ConfirmationService) Unlock(ctx context.Context, actor Actor, userID UserID, date Date) (*WeekConfirmation, error) {
	wc, err := s.review(ctx, actor, userID, date)
	if err != nil {
		return nil, err
	}
	if err := wc.Unlock(); err != nil {
		return nil, err
	}
	if err := s.Confirmations.UpsertConfirmation(ctx, wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// State returns the review state of the week containing date. Weeks
// without a confirmation row are Open.
func (s *ConfirmationService) State(ctx context.Context, userID UserID, date Date) (WeekState, error) {
	wc, err := s.Confirmations.LoadConfirmation(ctx, userID, ISOWeekMonday(date))
	if err != nil {
		return "", err
	}
	if wc == nil {
		return WeekOpen, nil
	}
	return wc.State(), nil
}

// =============================================================================
// OVERTIME SERVICE
// =============================================================================

// OvertimeService produces overtime reports. Read-only by construction: it
// holds no ConfirmationStore and cannot see, let alone change, lock state.
type OvertimeService struct {
	Entries EntryStore
}

// Report computes one user's overtime over the period.
func (s *OvertimeService) Report(ctx context.Context, userID UserID, period Period) (*OvertimeReport, error) {
	entries, err := s.Entries.LoadEntries(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	return ComputeOvertime(userID, period, entries), nil
}

// AllUsersReport computes every user's overtime over the period, sorted by
// total overtime descending (biggest earners first for the operator view).
func (s *OvertimeService) AllUsersReport(ctx context.Context, period Period) ([]*OvertimeReport, error) {
	entries, err := s.Entries.LoadAllEntries(ctx, period)
	if err != nil {
		return nil, err
	}

	byUser := make(map[UserID][]TimeEntry)
	for i := range entries {
		byUser[entries[i].UserID] = append(byUser[entries[i].UserID], entries[i])
	}

	reports := make([]*OvertimeReport, 0, len(byUser))
	for userID, userEntries := range byUser {
		r := ComputeOvertime(userID, period, userEntries)
		if len(r.Days) == 0 {
			continue
		}
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].TotalOvertime.Equal(reports[j].TotalOvertime) {
			return reports[i].TotalOvertime.GreaterThan(reports[j].TotalOvertime)
		}
		return reports[i].UserID < reports[j].UserID
	})
	return reports, nil
}
