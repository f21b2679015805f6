package timesheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func marchWeek() timesheet.Period {
	return timesheet.Period{
		From: timesheet.MustDate("2025-03-10"), // Monday
		To:   timesheet.MustDate("2025-03-16"), // Sunday
	}
}

func loggedHours(date string, workType timesheet.WorkType, amount string) timesheet.TimeEntry {
	return timesheet.TimeEntry{
		UserID:    "emp-1",
		Date:      timesheet.MustDate(date),
		WorkType:  workType,
		ProjectID: "proj-alpha",
		Hours:     hours(amount),
	}
}

// =============================================================================
// WEEKDAY TIERS
// =============================================================================

func TestComputeOvertime_WeekdayTiers(t *testing.T) {
	// GIVEN: a Monday with 11 worked hours
	entries := []timesheet.TimeEntry{loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "11")}

	// WHEN: computing overtime
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	// THEN: 8 normal, 2h at 125%, 1h at 150%
	require.Len(t, report.Days, 1)
	day := report.Days[0]
	assert.True(t, day.NormalHours.Equal(hours("8")), "normal: %s", day.NormalHours)
	assert.True(t, day.Overtime.Equal(hours("3")), "overtime: %s", day.Overtime)
	assert.True(t, day.Hours125.Equal(hours("2")), "125: %s", day.Hours125)
	assert.True(t, day.Hours150.Equal(hours("1")), "150: %s", day.Hours150)
	assert.True(t, day.Hours200.IsZero())
	assert.True(t, report.TotalOvertime.Equal(hours("3")))
}

func TestComputeOvertime_WeekdayWithinEightHours(t *testing.T) {
	entries := []timesheet.TimeEntry{loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "8")}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	// Days without overtime are not emitted at all.
	assert.Empty(t, report.Days)
	assert.True(t, report.TotalOvertime.IsZero())
}

func TestComputeOvertime_WeekdaySmallExcessStaysIn125(t *testing.T) {
	entries := []timesheet.TimeEntry{loggedHours("2025-03-11", timesheet.WorkTypeOrdinary, "9.5")}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	require.Len(t, report.Days, 1)
	day := report.Days[0]
	assert.True(t, day.Hours125.Equal(hours("1.5")))
	assert.True(t, day.Hours150.IsZero())
}

// =============================================================================
// WEEKEND TIERS
// =============================================================================

func TestComputeOvertime_SaturdayAll150(t *testing.T) {
	entries := []timesheet.TimeEntry{loggedHours("2025-03-15", timesheet.WorkTypeOrdinary, "3")}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	require.Len(t, report.Days, 1)
	day := report.Days[0]
	assert.Equal(t, time.Saturday, day.Date.Weekday())
	assert.True(t, day.NormalHours.IsZero())
	assert.True(t, day.Overtime.Equal(hours("3")))
	assert.True(t, day.Hours150.Equal(hours("3")))
	assert.True(t, day.Hours125.IsZero())
}

func TestComputeOvertime_SundayAll200(t *testing.T) {
	entries := []timesheet.TimeEntry{loggedHours("2025-03-16", timesheet.WorkTypeOrdinary, "5.25")}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	require.Len(t, report.Days, 1)
	day := report.Days[0]
	assert.Equal(t, time.Sunday, day.Date.Weekday())
	assert.True(t, day.Overtime.Equal(hours("5.25")))
	assert.True(t, day.Hours200.Equal(hours("5.25")))
}

// =============================================================================
// WORK TYPE FILTERING
// =============================================================================

func TestComputeOvertime_DayOffNeverAccrues(t *testing.T) {
	// GIVEN: 6 worked hours plus a 5-hour day-off entry on the same Monday
	entries := []timesheet.TimeEntry{
		loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "6"),
		loggedHours("2025-03-10", timesheet.WorkTypeDayOff, "5"),
	}

	// WHEN: computing overtime
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	// THEN: the day-off hours do not push the day over the threshold
	assert.Empty(t, report.Days)
}

func TestComputeOvertime_SickAndHolidayExcluded(t *testing.T) {
	entries := []timesheet.TimeEntry{
		loggedHours("2025-03-16", timesheet.WorkTypeSick, "4"),
		loggedHours("2025-03-16", timesheet.WorkTypePublicHoliday, "4"),
	}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)
	assert.Empty(t, report.Days, "absence codes must not earn Sunday rates")
}

func TestComputeOvertime_CommuteCountsAsWork(t *testing.T) {
	entries := []timesheet.TimeEntry{
		loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "8"),
		loggedHours("2025-03-10", timesheet.WorkTypeCommute, "1"),
	}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	require.Len(t, report.Days, 1)
	assert.True(t, report.Days[0].Overtime.Equal(hours("1")))
}

func TestComputeOvertime_IgnoresEntriesOutsidePeriod(t *testing.T) {
	entries := []timesheet.TimeEntry{
		loggedHours("2025-03-03", timesheet.WorkTypeOrdinary, "12"), // previous week
		loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "9"),
	}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	require.Len(t, report.Days, 1)
	assert.Equal(t, "2025-03-10", report.Days[0].Date.String())
}

// =============================================================================
// ORDERING AND AGGREGATION
// =============================================================================

func TestComputeOvertime_DaysAscendingEntriesByStart(t *testing.T) {
	evening := workEntry("2025-03-15", "13:00", "16:00", false)
	morning := workEntry("2025-03-15", "09:00", "11:00", false)
	morning.Hours = hours("2")
	evening.Hours = hours("3")
	untimed := loggedHours("2025-03-15", timesheet.WorkTypeOrdinary, "1")

	entries := []timesheet.TimeEntry{
		loggedHours("2025-03-16", timesheet.WorkTypeOrdinary, "2"),
		evening,
		untimed,
		morning,
	}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	require.Len(t, report.Days, 2)
	assert.Equal(t, "2025-03-15", report.Days[0].Date.String())
	assert.Equal(t, "2025-03-16", report.Days[1].Date.String())

	saturday := report.Days[0]
	require.Len(t, saturday.Entries, 3)
	assert.Equal(t, "09:00", saturday.Entries[0].Start.String())
	assert.Equal(t, "13:00", saturday.Entries[1].Start.String())
	assert.Nil(t, saturday.Entries[2].Start, "untimed entries sort last")
}

func TestComputeOvertime_TotalsAcrossTiers(t *testing.T) {
	entries := []timesheet.TimeEntry{
		loggedHours("2025-03-10", timesheet.WorkTypeOrdinary, "11"),   // 2 @125, 1 @150
		loggedHours("2025-03-15", timesheet.WorkTypeOrdinary, "3"),    // 3 @150
		loggedHours("2025-03-16", timesheet.WorkTypeOrdinary, "2.25"), // 2.25 @200
	}
	report := timesheet.ComputeOvertime("emp-1", marchWeek(), entries)

	assert.True(t, report.Total125.Equal(hours("2")))
	assert.True(t, report.Total150.Equal(hours("4")))
	assert.True(t, report.Total200.Equal(hours("2.25")))
	assert.True(t, report.TotalOvertime.Equal(hours("8.25")))
}

// =============================================================================
// PERIOD RESOLUTION
// =============================================================================

func TestResolvePeriod(t *testing.T) {
	clock := timesheet.FixedClock{Date: timesheet.MustDate("2025-03-12")}

	week, err := timesheet.ResolvePeriod(clock, timesheet.PeriodWeek, 11, 0, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", week.From.String())
	assert.Equal(t, "2025-03-16", week.To.String())

	month, err := timesheet.ResolvePeriod(clock, timesheet.PeriodMonth, 0, 2, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", month.From.String())
	assert.Equal(t, "2025-02-28", month.To.String())

	year, err := timesheet.ResolvePeriod(clock, timesheet.PeriodYear, 0, 0, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", year.From.String())
	assert.Equal(t, "2025-12-31", year.To.String())

	all, err := timesheet.ResolvePeriod(clock, timesheet.PeriodAll, 0, 0, 0)
	require.NoError(t, err)
	assert.True(t, all.Contains(timesheet.MustDate("1999-07-04")))
	assert.True(t, all.Contains(timesheet.MustDate("2031-01-01")))
}

func TestResolvePeriod_DefaultsToClock(t *testing.T) {
	clock := timesheet.FixedClock{Date: timesheet.MustDate("2025-03-12")}

	month, err := timesheet.ResolvePeriod(clock, timesheet.PeriodMonth, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", month.From.String())
	assert.Equal(t, "2025-03-31", month.To.String())
}

func TestResolvePeriod_Invalid(t *testing.T) {
	clock := timesheet.FixedClock{Date: timesheet.MustDate("2025-03-12")}

	_, err := timesheet.ResolvePeriod(clock, timesheet.PeriodWeek, 60, 0, 2025)
	assert.ErrorIs(t, err, timesheet.ErrInvalidWeekNumber)

	_, err = timesheet.ResolvePeriod(clock, timesheet.PeriodMonth, 0, 13, 2025)
	assert.ErrorIs(t, err, timesheet.ErrInvalidPeriod)

	_, err = timesheet.ResolvePeriod(clock, "fortnight", 0, 0, 2025)
	assert.ErrorIs(t, err, timesheet.ErrInvalidPeriod)
}
