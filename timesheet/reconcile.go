/*
reconcile.go - Daily validation and hours derivation

PURPOSE:
  Turns a day's proposed entries into validated, overlap-free entries whose
  Hours field is consistent with their time ranges.

RECONCILIATION RULES:
  1. End must be after Start (half-open interval [Start, End))
  2. Derived hours = (End - Start) - 0.5h lunch when elected and not day-off
  3. Explicitly declared hours may deviate from derived hours by at most
     0.25h (one form step); beyond that the entry is rejected
  4. Entries without a declared amount adopt the derived hours
  5. No two entries on the same date may overlap
  6. Entry dates must not be in the future
  7. Weekday entries require a work type, a project (unless day-off), and a
     duration; completely empty weekend rows are skipped, not rejected -
     weekend logging is optional

SEE ALSO:
  - types.go: TimeEntry and ClockTime
  - service.go: EntryService runs ReconcileDay before persisting
*/
package timesheet

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LunchDeduction is the half-hour subtracted from derived hours when the
// worker elects the lunch deduction on a non-day-off entry.
var LunchDeduction = decimal.RequireFromString("0.5")

// HoursTolerance is the maximum allowed gap between declared and derived
// hours: one quarter-hour form step.
var HoursTolerance = decimal.RequireFromString("0.25")

// =============================================================================
// HOURS DERIVATION
// =============================================================================

// ComputeHours returns (end - start) in decimal hours.
// Fails with ErrInvalidRange when the range is empty or inverted.
func ComputeHours(start, end ClockTime) (decimal.Decimal, error) {
	if !start.Before(end) {
		return decimal.Zero, ErrInvalidRange
	}
	minutes := int64(end) - int64(start)
	return decimal.New(minutes, 0).Div(decimal.New(60, 0)), nil
}

// Reconcile validates a single entry's duration in place.
//
// When both Start and End are present, the expected hours are derived from
// the range (minus the lunch deduction when elected and applicable, clamped
// to zero). Declared hours beyond tolerance fail with ErrHoursMismatch;
// undeclared hours adopt the derived value.
func Reconcile(e *TimeEntry) error {
	if e.Start != nil && e.End != nil {
		derived, err := ComputeHours(*e.Start, *e.End)
		if err != nil {
			return err
		}
		if e.LunchDeducted && !e.WorkType.IsDayOff() {
			derived = derived.Sub(LunchDeduction)
			if derived.IsNegative() {
				derived = decimal.Zero
			}
		}
		if !e.Hours.IsZero() && e.Hours.Sub(derived).Abs().GreaterThan(HoursTolerance) {
			return &HoursMismatchError{Date: e.Date, Declared: e.Hours, Expected: derived}
		}
		e.Hours = derived
		return nil
	}
	if e.Start != nil || e.End != nil {
		// Half a time range is as unusable as an inverted one.
		return ErrInvalidRange
	}
	return nil
}

// =============================================================================
// OVERLAP DETECTION
// =============================================================================

// DetectOverlaps fails with ErrOverlappingHours when two entries on the
// same date have intersecting [Start, End) intervals. Intervals are
// half-open: an entry ending 12:00 does not overlap one starting 12:00.
// Entries without a time range never overlap anything.
func DetectOverlaps(entries []TimeEntry) error {
	type timed struct {
		date       Date
		start, end ClockTime
	}
	var ranges []timed
	for i := range entries {
		e := &entries[i]
		if !e.HasTimeRange() {
			continue
		}
		ranges = append(ranges, timed{date: e.Date, start: *e.Start, end: *e.End})
	}
	sort.Slice(ranges, func(i, j int) bool {
		if !ranges[i].date.Equal(ranges[j].date) {
			return ranges[i].date.Before(ranges[j].date)
		}
		return ranges[i].start < ranges[j].start
	})
	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if prev.date.Equal(cur.date) && cur.start < prev.end {
			return &OverlapError{
				Date:      cur.date,
				First:     prev.start,
				FirstEnd:  prev.end,
				Second:    cur.start,
				SecondEnd: cur.end,
			}
		}
	}
	return nil
}

// =============================================================================
// DATE AND FIELD POLICIES
// =============================================================================

// RejectFutureDate fails with ErrFutureDate when date is after today.
func RejectFutureDate(date, today Date) error {
	if date.After(today) {
		return ErrFutureDate
	}
	return nil
}

// ValidateRequired enforces the weekday required-field policy: a work type,
// a project (unless the work type is day-off), and either declared hours or
// a start/end pair. Callers skip empty weekend entries before invoking this
// (see ReconcileDay).
func ValidateRequired(e *TimeEntry) error {
	if e.WorkType == 0 {
		return &MissingFieldError{Date: e.Date, Field: "work_type"}
	}
	if !e.WorkType.IsDayOff() && !e.HasProject() {
		return &MissingFieldError{Date: e.Date, Field: "project"}
	}
	if e.Hours.IsZero() && !e.HasTimeRange() {
		return &MissingFieldError{Date: e.Date, Field: "hours"}
	}
	return nil
}

// ReconcileDay validates and reconciles one day's proposed entries.
//
// Empty weekend rows are dropped silently. Every surviving entry is checked
// against the future-date rule, the required-field policy, and hours
// reconciliation; finally the set is checked for overlaps. Returns the
// reconciled copies, leaving the input untouched.
func ReconcileDay(today Date, entries []TimeEntry) ([]TimeEntry, error) {
	out := make([]TimeEntry, 0, len(entries))
	for i := range entries {
		e := entries[i].Clone()
		if e.Date.IsWeekend() && e.IsEmpty() {
			continue
		}
		if err := RejectFutureDate(e.Date, today); err != nil {
			return nil, err
		}
		if err := ValidateRequired(&e); err != nil {
			return nil, err
		}
		if err := Reconcile(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := DetectOverlaps(out); err != nil {
		return nil, err
	}
	return out, nil
}
