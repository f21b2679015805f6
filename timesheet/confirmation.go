/*
confirmation.go - Week confirmation state machine

PURPOSE:
  Tracks the review status of each (user, ISO week) pair and gates every
  entry mutation behind it. Workers submit ("confirm") a finished week,
  which locks it; reviewers approve, reject, or unlock it.

STATE DIAGRAM:

    ┌──────┐ confirm(worker) ┌───────────────────────┐
    │ Open │ ──────────────▶ │ ConfirmedPendingReview │
    └──────┘                 └───────────────────────┘
       ▲                        │ approve        │ reject
       │ unlock(admin)          ▼                ▼
       │                   ┌──────────┐    ┌──────────┐
       ├───────────────────│ Approved │    │ Rejected │
       │                   └──────────┘    └──────────┘
       └──────────────────────────────────────────┘
                         unlock(admin)

  There is no timeout or expiry; every transition is an explicit actor
  action.

THE LOCK GUARD:
  IsLocked(state, role) = state != Open && !role.CanReview()

  Workers cannot touch a confirmed week until a reviewer approves and
  unlocks it (or rejects and unlocks it). Reviewers are never blocked by
  this guard, though entry validation still applies to them.

STORAGE NOTE:
  The state is derived from three persisted booleans (confirmed,
  admin_approved, admin_reviewed) rather than stored as an enum, so the
  row can be upserted blindly. Concurrent confirm/unlock on the same row
  resolves last-writer-wins at the store; see
  ConfirmationStore.UpsertConfirmation.

SEE ALSO:
  - service.go: ConfirmationService drives the transitions
  - errors.go: WeekLockedError
*/
package timesheet

import "fmt"

// =============================================================================
// WEEK STATE
// =============================================================================

// WeekState is the derived review status of a week.
type WeekState string

const (
	// WeekOpen: mutable by the owning worker. The default for weeks that
	// have never been confirmed.
	WeekOpen WeekState = "open"

	// WeekConfirmed: submitted by the worker, awaiting review. Locked for
	// the worker.
	WeekConfirmed WeekState = "confirmed"

	// WeekApproved: reviewed and accepted. Still locked for the worker.
	WeekApproved WeekState = "approved"

	// WeekRejected: reviewed and sent back. Locked until unlocked.
	WeekRejected WeekState = "rejected"
)

// IsLocked reports whether an actor with the given role is barred from
// mutating entries of a week in the given state.
func IsLocked(state WeekState, role Role) bool {
	return state != WeekOpen && !role.CanReview()
}

// =============================================================================
// WEEK CONFIRMATION - Persisted record, keyed (user, week Monday)
// =============================================================================

// WeekConfirmation is the persisted review record for one worker-week.
// WeekStart is always the Monday of an ISO week.
type WeekConfirmation struct {
	UserID    UserID
	WeekStart Date

	Confirmed     bool // worker has submitted the week
	AdminApproved bool
	AdminReviewed bool // distinguishes "pending" from "explicitly rejected"
}

// NewWeekConfirmation returns an open confirmation for the week containing
// date. The key is normalized to the week's Monday.
func NewWeekConfirmation(userID UserID, date Date) *WeekConfirmation {
	return &WeekConfirmation{UserID: userID, WeekStart: ISOWeekMonday(date)}
}

// State derives the review status from the stored flags.
func (wc *WeekConfirmation) State() WeekState {
	switch {
	case !wc.Confirmed:
		return WeekOpen
	case wc.AdminReviewed && wc.AdminApproved:
		return WeekApproved
	case wc.AdminReviewed:
		return WeekRejected
	default:
		return WeekConfirmed
	}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Confirm submits the week for review. Only valid from Open.
func (wc *WeekConfirmation) Confirm() error {
	if s := wc.State(); s != WeekOpen {
		return fmt.Errorf("can only confirm an open week, current state: %s", s)
	}
	wc.Confirmed = true
	wc.AdminApproved = false
	wc.AdminReviewed = false
	return nil
}

// Approve accepts a confirmed week. Only valid from ConfirmedPendingReview.
func (wc *WeekConfirmation) Approve() error {
	if s := wc.State(); s != WeekConfirmed {
		return fmt.Errorf("can only approve a confirmed week, current state: %s", s)
	}
	wc.AdminApproved = true
	wc.AdminReviewed = true
	return nil
}

// Reject sends a confirmed week back. Only valid from ConfirmedPendingReview.
func (wc *WeekConfirmation) Reject() error {
	if s := wc.State(); s != WeekConfirmed {
		return fmt.Errorf("can only reject a confirmed week, current state: %s", s)
	}
	wc.AdminApproved = false
	wc.AdminReviewed = true
	return nil
}

// Unlock returns the week to Open from any non-open state, resetting all
// flags so the worker can edit and re-confirm.
func (wc *WeekConfirmation) Unlock() error {
	if s := wc.State(); s == WeekOpen {
		return fmt.Errorf("week is already open")
	}
	wc.Confirmed = false
	wc.AdminApproved = false
	wc.AdminReviewed = false
	return nil
}
