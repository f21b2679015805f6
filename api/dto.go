/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CONVERSIONS:
  Dates and times travel as strings ("2006-01-02", "HH:MM"); hours travel
  as float64 rounded to two decimals. Parsing back into domain types
  happens in the handlers, which is also where validation errors surface.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TIME ENTRIES
// =============================================================================

// TimeEntryDTO represents a time entry in API responses.
type TimeEntryDTO struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	WorkType      int     `json:"work_type"`
	ProjectID     string  `json:"project_id,omitempty"`
	ProjectName   string  `json:"project_name,omitempty"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	Hours         float64 `json:"hours"`
	LunchDeducted bool    `json:"lunch_deducted"`
	Notes         string  `json:"notes,omitempty"`
}

// TimeEntryInput is one proposed entry in a day submission or update.
type TimeEntryInput struct {
	ID            string  `json:"id,omitempty"`
	Date          string  `json:"date,omitempty"`
	WorkType      int     `json:"work_type"`
	ProjectID     string  `json:"project_id,omitempty"`
	ProjectName   string  `json:"project_name,omitempty"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	Hours         float64 `json:"hours,omitempty"`
	LunchDeducted bool    `json:"lunch_deducted"`
	Notes         string  `json:"notes,omitempty"`
}

// SubmitDayRequest replaces one day's entries.
type SubmitDayRequest struct {
	Entries []TimeEntryInput `json:"entries"`
}

// =============================================================================
// WEEKS
// =============================================================================

// DayViewDTO is one day of the weekly grid.
type DayViewDTO struct {
	Date       string         `json:"date"`
	TotalHours float64        `json:"total_hours"`
	Entries    []TimeEntryDTO `json:"entries"`
}

// WeekViewDTO is the weekly grid plus review state.
type WeekViewDTO struct {
	UserID    string       `json:"user_id"`
	WeekStart string       `json:"week_start"`
	Week      int          `json:"week"`
	Year      int          `json:"year"`
	State     string       `json:"state"`
	Days      []DayViewDTO `json:"days"`
}

// WeekConfirmationDTO is the review record for a worker-week.
type WeekConfirmationDTO struct {
	UserID        string `json:"user_id"`
	WeekStart     string `json:"week_start"`
	State         string `json:"state"`
	Confirmed     bool   `json:"confirmed"`
	AdminApproved bool   `json:"admin_approved"`
	AdminReviewed bool   `json:"admin_reviewed"`
}

// =============================================================================
// OVERTIME REPORTS
// =============================================================================

// DayOvertimeDTO is one day's overtime breakdown.
type DayOvertimeDTO struct {
	Date        string         `json:"date"`
	TotalHours  float64        `json:"total_hours"`
	NormalHours float64        `json:"normal_hours"`
	Overtime    float64        `json:"overtime"`
	Hours125    float64        `json:"hours_125"`
	Hours150    float64        `json:"hours_150"`
	Hours200    float64        `json:"hours_200"`
	Entries     []TimeEntryDTO `json:"entries"`
}

// OvertimeReportDTO is one user's overtime over a period.
type OvertimeReportDTO struct {
	UserID        string           `json:"user_id"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	Days          []DayOvertimeDTO `json:"days"`
	TotalOvertime float64          `json:"total_overtime"`
	Total125      float64          `json:"total_125"`
	Total150      float64          `json:"total_150"`
	Total200      float64          `json:"total_200"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEntryDTO(e timesheet.TimeEntry) TimeEntryDTO {
	dto := TimeEntryDTO{
		ID:            string(e.ID),
		UserID:        string(e.UserID),
		Date:          e.Date.String(),
		WorkType:      int(e.WorkType),
		ProjectID:     string(e.ProjectID),
		ProjectName:   e.ProjectName,
		Hours:         roundedFloat(e.Hours),
		LunchDeducted: e.LunchDeducted,
		Notes:         e.Notes,
	}
	if e.Start != nil {
		s := e.Start.String()
		dto.StartTime = &s
	}
	if e.End != nil {
		s := e.End.String()
		dto.EndTime = &s
	}
	return dto
}

func toEntryDTOs(entries []timesheet.TimeEntry) []TimeEntryDTO {
	out := make([]TimeEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = toEntryDTO(e)
	}
	return out
}

func fromEntryInput(in TimeEntryInput) (timesheet.TimeEntry, error) {
	entry := timesheet.TimeEntry{
		ID:            timesheet.EntryID(in.ID),
		WorkType:      timesheet.WorkType(in.WorkType),
		ProjectID:     timesheet.ProjectID(in.ProjectID),
		ProjectName:   in.ProjectName,
		Hours:         decimal.NewFromFloat(in.Hours),
		LunchDeducted: in.LunchDeducted,
		Notes:         in.Notes,
	}
	if in.Date != "" {
		d, err := timesheet.ParseDate(in.Date)
		if err != nil {
			return entry, err
		}
		entry.Date = d
	}
	if in.StartTime != nil {
		ct, err := timesheet.ParseClockTime(*in.StartTime)
		if err != nil {
			return entry, err
		}
		entry.Start = &ct
	}
	if in.EndTime != nil {
		ct, err := timesheet.ParseClockTime(*in.EndTime)
		if err != nil {
			return entry, err
		}
		entry.End = &ct
	}
	return entry, nil
}

func toConfirmationDTO(wc *timesheet.WeekConfirmation) WeekConfirmationDTO {
	return WeekConfirmationDTO{
		UserID:        string(wc.UserID),
		WeekStart:     wc.WeekStart.String(),
		State:         string(wc.State()),
		Confirmed:     wc.Confirmed,
		AdminApproved: wc.AdminApproved,
		AdminReviewed: wc.AdminReviewed,
	}
}

func toWeekViewDTO(v *timesheet.WeekView) WeekViewDTO {
	dto := WeekViewDTO{
		UserID:    string(v.UserID),
		WeekStart: v.WeekStart.String(),
		Week:      v.Week,
		Year:      v.Year,
		State:     string(v.State),
		Days:      make([]DayViewDTO, len(v.Days)),
	}
	for i, day := range v.Days {
		dto.Days[i] = DayViewDTO{
			Date:       day.Date.String(),
			TotalHours: roundedFloat(day.TotalHours),
			Entries:    toEntryDTOs(day.Entries),
		}
	}
	return dto
}

func toReportDTO(r *timesheet.OvertimeReport) OvertimeReportDTO {
	dto := OvertimeReportDTO{
		UserID:        string(r.UserID),
		From:          r.Period.From.String(),
		To:            r.Period.To.String(),
		Days:          make([]DayOvertimeDTO, len(r.Days)),
		TotalOvertime: roundedFloat(r.TotalOvertime),
		Total125:      roundedFloat(r.Total125),
		Total150:      roundedFloat(r.Total150),
		Total200:      roundedFloat(r.Total200),
	}
	for i, day := range r.Days {
		dto.Days[i] = DayOvertimeDTO{
			Date:        day.Date.String(),
			TotalHours:  roundedFloat(day.TotalHours),
			NormalHours: roundedFloat(day.NormalHours),
			Overtime:    roundedFloat(day.Overtime),
			Hours125:    roundedFloat(day.Hours125),
			Hours150:    roundedFloat(day.Hours150),
			Hours200:    roundedFloat(day.Hours200),
			Entries:     toEntryDTOs(day.Entries),
		}
	}
	return dto
}

func roundedFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
