/*
overtime.go - Tiered overtime computation

PURPOSE:
  Computes per-day and per-period overtime from reconciled entries, split
  into pay-rate tiers. Read-only: never touches entries or confirmations,
  so reports can be produced regardless of week lock state.

TIER RULES:
  Mon-Fri: first 8h are normal; of the excess, the first 2h pay 125%,
           anything beyond pays 150%
  Saturday: every hour pays 150%
  Sunday:   every hour pays 200%

  Only "work" entries accrue overtime: codes 10-29 and commute (100).
  Sick, day-off, and public-holiday hours are excluded even when they push
  a day's total past 8 hours.

NUMERIC SEMANTICS:
  Hours stay decimal throughout; every reported figure is rounded to two
  decimal places at the edge.

SEE ALSO:
  - reconcile.go: Entries are expected to be reconciled before reporting
  - calendar.go: Period resolution for the week/month/year selectors
*/
package timesheet

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// WeekdayNormalHours is the daily threshold before weekday overtime starts.
var WeekdayNormalHours = decimal.New(8, 0)

// Tier125Cap is how much weekday overtime pays 125% before escalating to 150%.
var Tier125Cap = decimal.New(2, 0)

// =============================================================================
// REPORT TYPES
// =============================================================================

// DayOvertime is one day's overtime breakdown, with the constituent entries
// for operator drill-down.
type DayOvertime struct {
	Date        Date
	TotalHours  decimal.Decimal
	NormalHours decimal.Decimal
	Overtime    decimal.Decimal

	Hours125 decimal.Decimal
	Hours150 decimal.Decimal
	Hours200 decimal.Decimal

	// Entries sorted by start time; entries without a start time sort last.
	Entries []TimeEntry
}

// OvertimeReport aggregates one user's overtime over a period. Days are
// ascending and contain only dates with overtime > 0.
type OvertimeReport struct {
	UserID UserID
	Period Period

	Days []DayOvertime

	TotalOvertime decimal.Decimal
	Total125      decimal.Decimal
	Total150      decimal.Decimal
	Total200      decimal.Decimal
}

// =============================================================================
// COMPUTATION
// =============================================================================

// ComputeOvertime builds a user's overtime report from a set of entries.
// Entries outside the period or with non-work codes are ignored.
func ComputeOvertime(userID UserID, period Period, entries []TimeEntry) *OvertimeReport {
	byDate := make(map[Date][]TimeEntry)
	for i := range entries {
		e := &entries[i]
		if !e.WorkType.IsWork() || !period.Contains(e.Date) {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e.Clone())
	}

	report := &OvertimeReport{
		UserID:        userID,
		Period:        period,
		TotalOvertime: decimal.Zero,
		Total125:      decimal.Zero,
		Total150:      decimal.Zero,
		Total200:      decimal.Zero,
	}

	for date, dayEntries := range byDate {
		total := decimal.Zero
		for i := range dayEntries {
			total = total.Add(dayEntries[i].Hours)
		}

		day := classifyDay(date, total)
		if !day.Overtime.IsPositive() {
			continue
		}

		sortByStart(dayEntries)
		day.Entries = dayEntries
		report.Days = append(report.Days, day)

		report.TotalOvertime = report.TotalOvertime.Add(day.Overtime)
		report.Total125 = report.Total125.Add(day.Hours125)
		report.Total150 = report.Total150.Add(day.Hours150)
		report.Total200 = report.Total200.Add(day.Hours200)
	}

	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date.Before(report.Days[j].Date)
	})

	report.TotalOvertime = report.TotalOvertime.Round(2)
	report.Total125 = report.Total125.Round(2)
	report.Total150 = report.Total150.Round(2)
	report.Total200 = report.Total200.Round(2)
	return report
}

// classifyDay splits a day's total worked hours into tiers by weekday.
func classifyDay(date Date, total decimal.Decimal) DayOvertime {
	day := DayOvertime{
		Date:        date,
		TotalHours:  total.Round(2),
		NormalHours: decimal.Zero,
		Overtime:    decimal.Zero,
		Hours125:    decimal.Zero,
		Hours150:    decimal.Zero,
		Hours200:    decimal.Zero,
	}

	switch date.Weekday() {
	case time.Sunday:
		day.Overtime = total
		day.Hours200 = total
	case time.Saturday:
		day.Overtime = total
		day.Hours150 = total
	default:
		normal := decimal.Min(total, WeekdayNormalHours)
		excess := decimal.Max(decimal.Zero, total.Sub(WeekdayNormalHours))
		day.NormalHours = normal
		day.Overtime = excess
		day.Hours125 = decimal.Min(excess, Tier125Cap)
		day.Hours150 = decimal.Max(decimal.Zero, excess.Sub(Tier125Cap))
	}

	day.NormalHours = day.NormalHours.Round(2)
	day.Overtime = day.Overtime.Round(2)
	day.Hours125 = day.Hours125.Round(2)
	day.Hours150 = day.Hours150.Round(2)
	day.Hours200 = day.Hours200.Round(2)
	return day
}

// sortByStart orders entries by start time, nil starts last, ties by ID so
// the order is stable for display.
func sortByStart(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
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

// =============================================================================
// PERIOD SELECTION
// =============================================================================

// PeriodSelector picks how a report's date range is derived.
type PeriodSelector string

const (
	PeriodWeek  PeriodSelector = "week"
	PeriodMonth PeriodSelector = "month"
	PeriodYear  PeriodSelector = "year"
	PeriodAll   PeriodSelector = "all"
)

// allTime spans every date the engine will ever see.
var allTime = Period{
	From: NewDate(1970, time.January, 1),
	To:   NewDate(9999, time.December, 31),
}

// ResolvePeriod turns a selector plus explicit week/month/year values into
// an inclusive date range. Zero month/year values default to today's.
func ResolvePeriod(clock Clock, sel PeriodSelector, week, month, year int) (Period, error) {
	today := clock.Today()
	if year == 0 {
		year = today.Year()
	}

	switch sel {
	case PeriodWeek:
		from, to, err := WeekDateRange(week, year)
		if err != nil {
			return Period{}, err
		}
		return Period{From: from, To: to}, nil

	case PeriodMonth:
		if month == 0 {
			month = int(today.Month())
		}
		if month < 1 || month > 12 {
			return Period{}, ErrInvalidPeriod
		}
		from := NewDate(year, time.Month(month), 1)
		return Period{From: from, To: from.AddDays(daysInMonth(year, time.Month(month)) - 1)}, nil

	case PeriodYear:
		return Period{
			From: NewDate(year, time.January, 1),
			To:   NewDate(year, time.December, 31),
		}, nil

	case PeriodAll:
		return allTime, nil
	}
	return Period{}, ErrInvalidPeriod
}

func daysInMonth(year int, month time.Month) int {
	return NewDate(year, month+1, 1).AddDays(-1).Day()
}
