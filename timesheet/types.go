/*
Package timesheet provides the core timesheet and overtime engine.

PURPOSE:
  This package contains the domain types and algorithms for logging daily
  work hours against projects, reconciling them with start/end time ranges,
  locking weeks behind a confirmation workflow, and computing tiered
  overtime from the reconciled entries.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeEntry: One logged work segment (work type, project, times, hours)
  - WorkType:  Integer code classifying the nature of logged time
  - ClockTime: A local time-of-day at 15-minute granularity
  - Actor:     Who is performing an operation (worker, admin, ...)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for hours to avoid floating-point drift
  2. Type Safety: Strong typing for IDs prevents mixing users and entries
  3. Purity: "today" and "current user" are always passed in, never ambient
  4. Read-only reporting: the overtime engine never mutates entries

USAGE:
  start := timesheet.MustClockTime("08:00")
  end := timesheet.MustClockTime("17:00")
  entry := timesheet.TimeEntry{
      UserID:        "emp-123",
      Date:          timesheet.NewDate(2025, time.March, 10),
      WorkType:      timesheet.WorkTypeOrdinary,
      ProjectID:     "proj-alpha",
      Start:         &start,
      End:           &end,
      LunchDeducted: true,
  }

SEE ALSO:
  - calendar.go: ISO week date arithmetic
  - reconcile.go: Hours derivation and validation
  - confirmation.go: Week locking state machine
  - overtime.go: Tiered overtime computation
*/
package timesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type EntryID string
type ProjectID string

// =============================================================================
// WORK TYPE - Integer code classifying logged time
// =============================================================================

// WorkType classifies what a time entry represents. Codes follow the
// payroll convention: 10-29 are billable/productive work categories,
// 30-39 are absence categories, 100 is commute.
type WorkType int

const (
	WorkTypeOrdinary    WorkType = 10 // regular project work
	WorkTypeProduction  WorkType = 11
	WorkTypeMaintenance WorkType = 12
	WorkTypeAdmin       WorkType = 20 // internal/administrative work
	WorkTypeTraining    WorkType = 21

	WorkTypeSick          WorkType = 30
	WorkTypeDayOff        WorkType = 31 // vacation / day off
	WorkTypePublicHoliday WorkType = 32
	WorkTypeBreak         WorkType = 40

	WorkTypeCommute WorkType = 100
)

// IsWork reports whether hours of this type accrue toward overtime.
// Productive codes (10-29) and commute (100) count; absences do not.
func (w WorkType) IsWork() bool {
	return (w >= 10 && w <= 29) || w == WorkTypeCommute
}

// IsDayOff reports whether this is the day-off code. Day-off entries do not
// require a project, are exempt from lunch deduction, and never accrue
// overtime.
func (w WorkType) IsDayOff() bool { return w == WorkTypeDayOff }

// Valid reports whether the code is one of the known categories.
func (w WorkType) Valid() bool {
	switch {
	case w >= 10 && w <= 29:
		return true
	case w >= 30 && w <= 40:
		return true
	case w == WorkTypeCommute:
		return true
	}
	return false
}

// =============================================================================
// CLOCK TIME - Local time-of-day, 15-minute granularity
// =============================================================================

// ClockTime is a local time-of-day expressed as minutes since midnight.
// Entry forms offer 15-minute steps, so parsing enforces that granularity.
type ClockTime int

// NewClockTime builds a ClockTime from an hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM". Minutes must fall on a quarter hour.
func ParseClockTime(s string) (ClockTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	if minute%15 != 0 {
		return 0, fmt.Errorf("invalid time %q: must be on a 15-minute boundary", s)
	}
	return NewClockTime(hour, minute), nil
}

// MustClockTime is ParseClockTime for literals in tests and scenarios.
func MustClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) Before(o ClockTime) bool { return c < o }
func (c ClockTime) After(o ClockTime) bool  { return c > o }

// Hours returns the duration from midnight as decimal hours.
func (c ClockTime) Hours() decimal.Decimal {
	return decimal.New(int64(c), 0).Div(decimal.New(60, 0))
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// =============================================================================
// ROLES AND ACTORS
// =============================================================================

// Role is the capability level of an actor. The lock guard in
// confirmation.go is expressed over this enum, not ad hoc booleans.
type Role string

const (
	RoleWorker        Role = "worker"
	RoleAdministratie Role = "administratie" // payroll administration
	RoleAdmin         Role = "admin"
	RoleSuperAdmin    Role = "superadmin"
)

// CanReview reports whether the role may approve, reject, and unlock weeks,
// and bypass the week lock when mutating entries.
func (r Role) CanReview() bool {
	switch r {
	case RoleAdministratie, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Actor identifies who is performing an operation. Always passed explicitly;
// the engine never reads the current user from ambient state.
type Actor struct {
	ID   UserID
	Role Role
}

// CanReview is a convenience for Actor.Role.CanReview.
func (a Actor) CanReview() bool { return a.Role.CanReview() }

// =============================================================================
// TIME ENTRY - One logged work segment
// =============================================================================

// TimeEntry is a single logged segment of a worker's day.
//
// INVARIANTS (enforced by reconcile.go):
//   - Date is never in the future relative to submission time
//   - Start < End when both are present
//   - Hours reconciles with [Start, End) within 0.25h, after lunch deduction
//   - No two entries for the same (user, date) overlap
type TimeEntry struct {
	ID     EntryID // empty until persisted
	UserID UserID
	Date   Date

	WorkType WorkType

	// ProjectID references a project. Required unless WorkType is day-off.
	// ProjectName is an optional denormalized display name, also used as a
	// free-text fallback when no project record exists.
	ProjectID   ProjectID
	ProjectName string

	// Start/End are optional; when both are set, Hours is derived from them.
	Start *ClockTime
	End   *ClockTime

	// Hours is the logged duration in decimal hours.
	Hours decimal.Decimal

	// LunchDeducted records that the worker elected the 0.5h lunch deduction.
	LunchDeducted bool

	Notes string
}

// HasTimeRange reports whether both start and end times are set.
func (e *TimeEntry) HasTimeRange() bool { return e.Start != nil && e.End != nil }

// HasProject reports whether the entry references a project, by ID or by
// free-text name.
func (e *TimeEntry) HasProject() bool { return e.ProjectID != "" || e.ProjectName != "" }

// IsEmpty reports whether the entry carries no data at all. Empty weekend
// rows are silently skipped during reconciliation (weekend logging is
// optional), instead of failing required-field validation.
func (e *TimeEntry) IsEmpty() bool {
	return e.WorkType == 0 &&
		!e.HasProject() &&
		e.Start == nil && e.End == nil &&
		e.Hours.IsZero() &&
		e.Notes == ""
}

// Clone returns a copy with its own pointer fields.
func (e *TimeEntry) Clone() TimeEntry {
	out := *e
	if e.Start != nil {
		s := *e.Start
		out.Start = &s
	}
	if e.End != nil {
		en := *e.End
		out.End = &en
	}
	return out
}
