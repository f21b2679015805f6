/*
service_test.go - Workflow tests over the in-memory store

Covers the full worker/admin lifecycle: logging a week, confirming it,
the lock biting on worker mutations, admin review, and unlocking.
*/
package timesheet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/timesheet"
	"github.com/warp/timesheet-engine/timesheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type fixture struct {
	entries       *timesheet.EntryService
	confirmations *timesheet.ConfirmationService
	overtime      *timesheet.OvertimeService
}

func newFixture(today string) *fixture {
	mem := store.NewMemory()
	clock := timesheet.FixedClock{Date: timesheet.MustDate(today)}
	return &fixture{
		entries: &timesheet.EntryService{
			Entries:       mem,
			Confirmations: mem,
			Clock:         clock,
		},
		confirmations: &timesheet.ConfirmationService{Confirmations: mem},
		overtime:      &timesheet.OvertimeService{Entries: mem},
	}
}

var (
	worker = timesheet.Actor{ID: "emp-1", Role: timesheet.RoleWorker}
	admin  = timesheet.Actor{ID: "adm-1", Role: timesheet.RoleAdmin}
)

func submit(t *testing.T, f *fixture, actor timesheet.Actor, date string, entries ...timesheet.TimeEntry) []timesheet.TimeEntry {
	t.Helper()
	saved, err := f.entries.SubmitDay(context.Background(), actor, "emp-1", timesheet.MustDate(date), entries)
	require.NoError(t, err)
	return saved
}

// =============================================================================
// DAY SUBMISSION
// =============================================================================

func TestSubmitDay_ReconcilesAndPersists(t *testing.T) {
	f := newFixture("2025-03-14")
	ctx := context.Background()

	saved := submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "08:00", "17:00", true))
	require.Len(t, saved, 1)
	assert.NotEmpty(t, saved[0].ID)
	assert.True(t, saved[0].Hours.Equal(hours("8.5")))

	loaded, err := f.entries.Entries.LoadEntries(ctx, "emp-1", timesheet.Period{
		From: timesheet.MustDate("2025-03-10"),
		To:   timesheet.MustDate("2025-03-10"),
	})
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

func TestSubmitDay_ReplacesExistingDay(t *testing.T) {
	f := newFixture("2025-03-14")

	submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "08:00", "17:00", true))
	saved := submit(t, f, worker, "2025-03-10",
		workEntry("2025-03-10", "08:00", "12:00", false),
		workEntry("2025-03-10", "13:00", "17:00", false),
	)
	require.Len(t, saved, 2)

	view, err := f.entries.WeekView(context.Background(), "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)
	assert.Len(t, view.Days[0].Entries, 2, "resubmission replaces the day, not appends")
	assert.True(t, view.Days[0].TotalHours.Equal(hours("8")))
}

func TestSubmitDay_RejectsFutureDate(t *testing.T) {
	f := newFixture("2025-03-12")
	_, err := f.entries.SubmitDay(context.Background(), worker, "emp-1",
		timesheet.MustDate("2025-03-13"),
		[]timesheet.TimeEntry{workEntry("2025-03-13", "08:00", "17:00", true)})
	assert.ErrorIs(t, err, timesheet.ErrFutureDate)
}

func TestSubmitDay_RejectsOverlap(t *testing.T) {
	f := newFixture("2025-03-14")
	_, err := f.entries.SubmitDay(context.Background(), worker, "emp-1",
		timesheet.MustDate("2025-03-10"),
		[]timesheet.TimeEntry{
			workEntry("2025-03-10", "08:00", "12:00", false),
			workEntry("2025-03-10", "11:00", "15:00", false),
		})
	assert.ErrorIs(t, err, timesheet.ErrOverlappingHours)
}

// =============================================================================
// ENTRY UPDATE
// =============================================================================

func TestUpdateEntry_ZeroDateKeepsStoredDay(t *testing.T) {
	f := newFixture("2025-03-14")
	ctx := context.Background()

	saved := submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "08:00", "17:00", true))

	// An update payload without a date must not move the entry off its day.
	update := saved[0].Clone()
	update.Date = timesheet.Date{}
	update.End = clockPtr("12:00")
	update.LunchDeducted = false
	update.Hours = hours("4")

	got, err := f.entries.UpdateEntry(ctx, worker, update)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", got.Date.String())

	view, err := f.entries.WeekView(ctx, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)
	require.Len(t, view.Days[0].Entries, 1, "entry must stay in its week")
	assert.True(t, view.Days[0].TotalHours.Equal(hours("4")))
}

// =============================================================================
// WEEK VIEW
// =============================================================================

func TestWeekView_SevenDaysWithState(t *testing.T) {
	f := newFixture("2025-03-16")
	ctx := context.Background()

	submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "08:00", "17:00", true))
	submit(t, f, worker, "2025-03-11", workEntry("2025-03-11", "08:00", "12:00", false))

	view, err := f.entries.WeekView(ctx, "emp-1", timesheet.MustDate("2025-03-13"))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", view.WeekStart.String())
	assert.Equal(t, 11, view.Week)
	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, timesheet.WeekOpen, view.State)
	assert.True(t, view.Days[0].TotalHours.Equal(hours("8.5")))
	assert.True(t, view.Days[1].TotalHours.Equal(hours("4")))
	assert.Empty(t, view.Days[6].Entries)

	_, err = f.confirmations.Confirm(ctx, worker, "emp-1", timesheet.MustDate("2025-03-13"))
	require.NoError(t, err)

	view, err = f.entries.WeekView(ctx, "emp-1", timesheet.MustDate("2025-03-13"))
	require.NoError(t, err)
	assert.Equal(t, timesheet.WeekConfirmed, view.State)
}

// =============================================================================
// LOCKING
// =============================================================================

func TestConfirmedWeek_LocksWorkerMutations(t *testing.T) {
	f := newFixture("2025-03-16")
	ctx := context.Background()

	saved := submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "08:00", "17:00", true))
	_, err := f.confirmations.Confirm(ctx, worker, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)

	// Worker mutations now fail with WeekLocked...
	_, err = f.entries.SubmitDay(ctx, worker, "emp-1", timesheet.MustDate("2025-03-11"),
		[]timesheet.TimeEntry{workEntry("2025-03-11", "08:00", "12:00", false)})
	assert.ErrorIs(t, err, timesheet.ErrWeekLocked)

	err = f.entries.DeleteEntry(ctx, worker, saved[0].ID)
	assert.ErrorIs(t, err, timesheet.ErrWeekLocked)

	var locked *timesheet.WeekLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, timesheet.WeekConfirmed, locked.State)
	assert.Equal(t, "2025-03-10", locked.WeekStart.String())

	// ...but the lock is scoped to that week; the next week stays open.
	// (next Monday is in the future here, so check the guard directly)
	state, err := f.confirmations.State(ctx, "emp-1", timesheet.MustDate("2025-03-17"))
	require.NoError(t, err)
	assert.Equal(t, timesheet.WeekOpen, state)
}

func TestConfirmedWeek_AdminBypassesLock(t *testing.T) {
	f := newFixture("2025-03-16")
	ctx := context.Background()

	saved := submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "08:00", "17:00", true))
	_, err := f.confirmations.Confirm(ctx, worker, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)

	assert.NoError(t, f.entries.DeleteEntry(ctx, admin, saved[0].ID))
}

// =============================================================================
// REVIEW WORKFLOW
// =============================================================================

func TestReview_RequiresConfirmedWeek(t *testing.T) {
	f := newFixture("2025-03-16")
	ctx := context.Background()

	_, err := f.confirmations.Approve(ctx, admin, "emp-1", timesheet.MustDate("2025-03-10"))
	assert.ErrorIs(t, err, timesheet.ErrNotFound)

	_, err = f.confirmations.Unlock(ctx, admin, "emp-1", timesheet.MustDate("2025-03-10"))
	assert.ErrorIs(t, err, timesheet.ErrNotFound)
}

func TestReview_WorkerCannotApprove(t *testing.T) {
	f := newFixture("2025-03-16")
	ctx := context.Background()

	_, err := f.confirmations.Confirm(ctx, worker, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)

	_, err = f.confirmations.Approve(ctx, worker, "emp-1", timesheet.MustDate("2025-03-10"))
	assert.Error(t, err)
}

// =============================================================================
// END TO END
// =============================================================================

func TestWorkerAdminLifecycle(t *testing.T) {
	// GIVEN: a worker logs Monday 08:00-17:00 with lunch and Tuesday
	// 08:00-12:00 without, both on project Alpha
	f := newFixture("2025-03-16")
	ctx := context.Background()

	monday := workEntry("2025-03-10", "08:00", "17:00", true)
	monday.ProjectName = "Alpha"
	tuesday := workEntry("2025-03-11", "08:00", "12:00", false)
	tuesday.ProjectName = "Alpha"

	savedMon := submit(t, f, worker, "2025-03-10", monday)
	submit(t, f, worker, "2025-03-11", tuesday)
	assert.True(t, savedMon[0].Hours.Equal(hours("8.5")))

	// WHEN: the worker confirms the week and an admin approves it
	_, err := f.confirmations.Confirm(ctx, worker, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)
	wc, err := f.confirmations.Approve(ctx, admin, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, timesheet.WeekApproved, wc.State())

	// THEN: the worker cannot delete Monday's entry
	err = f.entries.DeleteEntry(ctx, worker, savedMon[0].ID)
	assert.ErrorIs(t, err, timesheet.ErrWeekLocked)

	// AND: the admin can
	require.NoError(t, f.entries.DeleteEntry(ctx, admin, savedMon[0].ID))

	// AND: unlocking reopens the week for the worker
	wc, err = f.confirmations.Unlock(ctx, admin, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, timesheet.WeekOpen, wc.State())
	assert.False(t, wc.Confirmed)
	assert.False(t, wc.AdminApproved)
	assert.False(t, wc.AdminReviewed)

	submit(t, f, worker, "2025-03-10", workEntry("2025-03-10", "09:00", "17:00", true))
}

// =============================================================================
// OVERTIME SERVICE
// =============================================================================

func TestOvertimeService_ReportIgnoresLockState(t *testing.T) {
	f := newFixture("2025-03-16")
	ctx := context.Background()

	long := workEntry("2025-03-10", "07:00", "18:30", true) // 11h after lunch
	submit(t, f, worker, "2025-03-10", long)
	_, err := f.confirmations.Confirm(ctx, worker, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)

	report, err := f.overtime.Report(ctx, "emp-1", marchWeek())
	require.NoError(t, err)
	require.Len(t, report.Days, 1)
	assert.True(t, report.Days[0].Overtime.Equal(hours("3")))

	state, err := f.confirmations.State(ctx, "emp-1", timesheet.MustDate("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, timesheet.WeekConfirmed, state, "reporting must not touch the lock")
}

func TestOvertimeService_AllUsersSortedByTotalDescending(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	_, err := mem.SaveEntries(ctx, []timesheet.TimeEntry{
		loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "9"), // emp-1: 1h
		{UserID: "emp-2", Date: timesheet.MustDate("2025-03-10"), WorkType: timesheet.WorkTypeOrdinary, ProjectID: "p", Hours: hours("12")}, // emp-2: 4h
		{UserID: "emp-3", Date: timesheet.MustDate("2025-03-10"), WorkType: timesheet.WorkTypeOrdinary, ProjectID: "p", Hours: hours("7")},  // no overtime
	})
	require.NoError(t, err)

	svc := &timesheet.OvertimeService{Entries: mem}
	reports, err := svc.AllUsersReport(ctx, marchWeek())
	require.NoError(t, err)

	require.Len(t, reports, 2, "users without overtime are omitted")
	assert.Equal(t, timesheet.UserID("emp-2"), reports[0].UserID)
	assert.Equal(t, timesheet.UserID("emp-1"), reports[1].UserID)
	assert.True(t, reports[0].TotalOvertime.Equal(hours("4")))
}
