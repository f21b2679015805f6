/*
calendar.go - Date values and ISO-8601 week arithmetic

PURPOSE:
  Pure date arithmetic for the weekly timesheet grid. Computes ISO week
  numbers, the Monday of a week, the seven dates of a week, and the date
  range covered by a (week, year) pair.

ISO WEEKS:
  Weeks start on Monday. Week 1 is the week containing the year's first
  Thursday, which is why all derivations below anchor on the Thursday of
  a week: the Thursday always lands inside the ISO year the week belongs
  to. Week 53 exists only in some years (e.g. 2020, 2026).

FALLBACK POLICY:
  WeekDateRange rejects week numbers outside [1, 53] with
  ErrInvalidWeekNumber. The legacy behavior of silently degrading to the
  current calendar week is preserved in WeekDateRangeOrCurrent for report
  callers that prefer a usable default over an error; it reports the
  fallback explicitly so callers can tell a degraded answer from a real
  one.

SEE ALSO:
  - overtime.go: ResolvePeriod uses WeekDateRange for weekly reports
  - confirmation.go: week keys are always ISO week Mondays
*/
package timesheet

import "time"

// =============================================================================
// DATE - Calendar date without a time component
// =============================================================================

// Date is a calendar date. It is timezone-free: all arithmetic happens on
// UTC midnight so two Dates compare by calendar day only.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// MustDate is ParseDate for literals in tests and scenarios.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysSince returns the number of whole days from o to d.
func (d Date) DaysSince(o Date) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// mondayWeekday maps Sunday..Saturday onto Monday=0 .. Sunday=6 numbering.
func (d Date) mondayWeekday() int {
	return (int(d.Weekday()) + 6) % 7
}

// =============================================================================
// ISO WEEK DERIVATIONS
// =============================================================================

// thursdayOf shifts a date to the Thursday of its Monday-based week.
func thursdayOf(d Date) Date {
	return d.AddDays(3 - d.mondayWeekday())
}

// week1Monday returns the Monday of ISO week 1 of the given year: the
// Monday of the week containing January 4th.
func week1Monday(year int) Date {
	jan4 := NewDate(year, time.January, 4)
	return jan4.AddDays(-jan4.mondayWeekday())
}

// ISOWeekNumber returns the ISO-8601 week number of d.
func ISOWeekNumber(d Date) int {
	thursday := thursdayOf(d)
	return thursday.DaysSince(week1Monday(thursday.Year()))/7 + 1
}

// ISOYear returns the ISO year d's week belongs to, which differs from the
// calendar year around New Year (e.g. 2024-12-30 is week 1 of ISO 2025).
func ISOYear(d Date) int {
	return thursdayOf(d).Year()
}

// ISOWeekMonday returns the Monday of the ISO week containing d.
func ISOWeekMonday(d Date) Date {
	return d.AddDays(-d.mondayWeekday())
}

// WeekDates returns the seven dates Monday..Sunday of d's week.
func WeekDates(d Date) [7]Date {
	var dates [7]Date
	monday := ISOWeekMonday(d)
	for i := range dates {
		dates[i] = monday.AddDays(i)
	}
	return dates
}

// WeekDateRange returns the Monday and Sunday of the given ISO week.
// Week numbers outside [1, 53] fail with ErrInvalidWeekNumber. A week-53
// request in a 52-week year is not rejected; it lands on week 1 of the
// following ISO year, which is valid (if startling) per the date math.
func WeekDateRange(week, year int) (Date, Date, error) {
	if week < 1 || week > 53 {
		return Date{}, Date{}, &InvalidWeekNumberError{Week: week, Year: year}
	}
	from := week1Monday(year).AddDays((week - 1) * 7)
	return from, from.AddDays(6), nil
}

// WeekDateRangeOrCurrent is WeekDateRange with the legacy degrade policy:
// an invalid week number yields the current calendar week instead of an
// error. The third return reports whether the fallback was taken, since
// the degraded range is otherwise indistinguishable from a genuine answer
// when the request names the current year.
func WeekDateRangeOrCurrent(clock Clock, week, year int) (Date, Date, bool) {
	from, to, err := WeekDateRange(week, year)
	if err != nil {
		monday := ISOWeekMonday(clock.Today())
		return monday, monday.AddDays(6), true
	}
	return from, to, false
}

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive [From, To] date range.
type Period struct {
	From Date
	To   Date
}

func (p Period) Contains(d Date) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// Days returns every date in the period, ascending.
func (p Period) Days() []Date {
	var days []Date
	for d := p.From; !d.After(p.To); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.From.String() + ", " + p.To.String() + "]"
}
