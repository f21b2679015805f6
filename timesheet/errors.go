/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All error kinds in one place. Every failure this engine can produce is a
  typed, locally recoverable condition: the HTTP layer translates them into
  user-facing validation messages, never into crashes.

ERROR CATEGORIES:
  1. Reconciliation errors - bad time ranges, mismatched hours, overlaps
  2. Policy errors         - future dates, missing required fields
  3. Workflow errors       - locked weeks, unknown weeks/entries

USAGE:
  Check with errors.Is against the sentinels:

    if errors.Is(err, timesheet.ErrWeekLocked) {
        // tell the worker the week is pending review
    }

  Structured variants carry context and unwrap to the sentinel:

    var mismatch *timesheet.HoursMismatchError
    if errors.As(err, &mismatch) {
        fmt.Println(mismatch.Declared, mismatch.Expected)
    }

SEE ALSO:
  - reconcile.go: Produces the reconciliation errors
  - confirmation.go: Produces ErrWeekLocked
  - service.go: Produces ErrNotFound for unknown weeks/entries
*/
package timesheet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when an entry's end time is not after its
	// start time.
	ErrInvalidRange = errors.New("end time must be after start time")

	// ErrHoursMismatch is returned when declared hours deviate from the
	// time-range-derived hours by more than the 0.25h tolerance.
	ErrHoursMismatch = errors.New("hours do not match time range")

	// ErrOverlappingHours is returned when two entries on the same date
	// share time.
	ErrOverlappingHours = errors.New("overlapping hours on same date")

	// ErrFutureDate is returned when an entry is dated after "today".
	ErrFutureDate = errors.New("future date not allowed")

	// ErrMissingRequiredField is returned when a weekday entry lacks a work
	// type, project, or duration.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrWeekLocked is returned when a non-reviewer mutates entries of a
	// week that is confirmed, approved, or rejected.
	ErrWeekLocked = errors.New("week is locked")

	// ErrNotFound is returned when a referenced entry or week confirmation
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidWeekNumber is returned for week numbers outside [1, 53].
	ErrInvalidWeekNumber = errors.New("invalid week number")

	// ErrInvalidPeriod is returned for malformed report period selectors.
	ErrInvalidPeriod = errors.New("invalid period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// HoursMismatchError reports the declared vs. derived hours of an entry.
type HoursMismatchError struct {
	Date     Date
	Declared decimal.Decimal
	Expected decimal.Decimal
}

func (e *HoursMismatchError) Error() string {
	return fmt.Sprintf("hours mismatch on %s: declared %s, expected %s from time range",
		e.Date, e.Declared, e.Expected)
}

func (e *HoursMismatchError) Unwrap() error { return ErrHoursMismatch }

// OverlapError reports two entries on the same date that share time.
type OverlapError struct {
	Date      Date
	First     ClockTime
	FirstEnd  ClockTime
	Second    ClockTime
	SecondEnd ClockTime
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping hours on %s: [%s, %s) and [%s, %s)",
		e.Date, e.First, e.FirstEnd, e.Second, e.SecondEnd)
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingHours }

// MissingFieldError reports which field a weekday entry is missing.
type MissingFieldError struct {
	Date  Date
	Field string // "work_type", "project", "hours"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entry on %s is missing %s", e.Date, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// WeekLockedError reports a rejected mutation on a locked week.
type WeekLockedError struct {
	UserID    UserID
	WeekStart Date
	State     WeekState
}

func (e *WeekLockedError) Error() string {
	return fmt.Sprintf("week of %s for %s is locked (state: %s)",
		e.WeekStart, e.UserID, e.State)
}

func (e *WeekLockedError) Unwrap() error { return ErrWeekLocked }

// InvalidWeekNumberError reports an out-of-range week request.
type InvalidWeekNumberError struct {
	Week int
	Year int
}

func (e *InvalidWeekNumberError) Error() string {
	return fmt.Sprintf("invalid week number %d for year %d (want 1-53)", e.Week, e.Year)
}

func (e *InvalidWeekNumberError) Unwrap() error { return ErrInvalidWeekNumber }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input and
// should surface as a user-facing validation message.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrHoursMismatch) ||
		errors.Is(err, ErrOverlappingHours) ||
		errors.Is(err, ErrFutureDate) ||
		errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrInvalidWeekNumber) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsLockViolation returns true if the error is a week-lock rejection.
func IsLockViolation(err error) bool {
	return errors.Is(err, ErrWeekLocked)
}

// IsNotFound returns true if the error indicates a missing entry or week.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
