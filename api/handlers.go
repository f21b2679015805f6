/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the timesheet and overtime engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Entries:
    GET    /api/users/{id}/weeks/{date}        Weekly grid (any date in week)
    PUT    /api/users/{id}/days/{date}         Replace one day's entries
    PUT    /api/entries/{id}                   Update one entry
    DELETE /api/entries/{id}                   Delete one entry

  Week review:
    POST   /api/users/{id}/weeks/{date}/confirm  Worker submits the week
    POST   /api/users/{id}/weeks/{date}/approve  Reviewer accepts
    POST   /api/users/{id}/weeks/{date}/reject   Reviewer sends back
    POST   /api/users/{id}/weeks/{date}/unlock   Reviewer reopens

  Reports:
    GET    /api/reports/overtime   ?user_id=&period=week|month|year|all
                                   &week=&month=&year=

  Scenarios:
    GET    /api/scenarios          List demo scenarios
    POST   /api/scenarios/load     Load a demo scenario

ACTOR HEADERS:
  The acting user travels in X-User-ID and X-User-Role headers. This is a
  stand-in for real authentication, which is out of scope; an upstream
  gateway is expected to set these from a session.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Entry or week not found
  - 409: Week locked
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Entries       *timesheet.EntryService
	Confirmations *timesheet.ConfirmationService
	Overtime      *timesheet.OvertimeService
	Clock         timesheet.Clock

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires the services over the given stores.
func NewHandler(entries timesheet.EntryStore, confirmations timesheet.ConfirmationStore, clock timesheet.Clock) *Handler {
	return &Handler{
		Entries: &timesheet.EntryService{
			Entries:       entries,
			Confirmations: confirmations,
			Clock:         clock,
		},
		Confirmations: &timesheet.ConfirmationService{Confirmations: confirmations},
		Overtime:      &timesheet.OvertimeService{Entries: entries},
		Clock:         clock,
	}
}

// actor reads the acting user from the request headers. Unknown roles
// default to worker, which is the least privileged.
func actor(r *http.Request) timesheet.Actor {
	role := timesheet.Role(r.Header.Get("X-User-Role"))
	switch role {
	case timesheet.RoleAdministratie, timesheet.RoleAdmin, timesheet.RoleSuperAdmin:
	default:
		role = timesheet.RoleWorker
	}
	return timesheet.Actor{
		ID:   timesheet.UserID(r.Header.Get("X-User-ID")),
		Role: role,
	}
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// GetWeek returns the weekly grid for the week containing {date}.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	userID := timesheet.UserID(chi.URLParam(r, "id"))
	date, err := timesheet.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	view, err := h.Entries.WeekView(r.Context(), userID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekViewDTO(view))
}

// SubmitDay replaces one day's entries with the submitted set.
func (h *Handler) SubmitDay(w http.ResponseWriter, r *http.Request) {
	userID := timesheet.UserID(chi.URLParam(r, "id"))
	date, err := timesheet.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	var req SubmitDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	entries := make([]timesheet.TimeEntry, 0, len(req.Entries))
	for _, in := range req.Entries {
		entry, err := fromEntryInput(in)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid entry: "+err.Error())
			return
		}
		entries = append(entries, entry)
	}

	saved, err := h.Entries.SubmitDay(r.Context(), actor(r), userID, date, entries)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(saved))
}

// UpdateEntry updates a single persisted entry.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in TimeEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	in.ID = id

	entry, err := fromEntryInput(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry: "+err.Error())
		return
	}

	saved, err := h.Entries.UpdateEntry(r.Context(), actor(r), entry)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(*saved))
}

// DeleteEntry removes a single entry.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := timesheet.EntryID(chi.URLParam(r, "id"))

	if err := h.Entries.DeleteEntry(r.Context(), actor(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// WEEK REVIEW HANDLERS
// =============================================================================

func (h *Handler) ConfirmWeek(w http.ResponseWriter, r *http.Request) {
	h.weekAction(w, r, h.Confirmations.Confirm)
}

func (h *Handler) ApproveWeek(w http.ResponseWriter, r *http.Request) {
	h.weekAction(w, r, h.Confirmations.Approve)
}

func (h *Handler) RejectWeek(w http.ResponseWriter, r *http.Request) {
	h.weekAction(w, r, h.Confirmations.Reject)
}

func (h *Handler) UnlockWeek(w http.ResponseWriter, r *http.Request) {
	h.weekAction(w, r, h.Confirmations.Unlock)
}

func (h *Handler) weekAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, actor timesheet.Actor, userID timesheet.UserID, date timesheet.Date) (*timesheet.WeekConfirmation, error),
) {
	userID := timesheet.UserID(chi.URLParam(r, "id"))
	date, err := timesheet.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	wc, err := action(r.Context(), actor(r), userID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfirmationDTO(wc))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// OvertimeReport computes the overtime report for one user, or for all
// users when user_id is omitted.
func (h *Handler) OvertimeReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sel := timesheet.PeriodSelector(q.Get("period"))
	if sel == "" {
		sel = timesheet.PeriodAll
	}
	week, err := intParam(q.Get("week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week: "+err.Error())
		return
	}
	month, err := intParam(q.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month: "+err.Error())
		return
	}
	year, err := intParam(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year: "+err.Error())
		return
	}

	period, err := timesheet.ResolvePeriod(h.Clock, sel, week, month, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if userID := q.Get("user_id"); userID != "" {
		report, err := h.Overtime.Report(r.Context(), timesheet.UserID(userID), period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(report))
		return
	}

	reports, err := h.Overtime.AllUsersReport(r.Context(), period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]OvertimeReportDTO, len(reports))
	for i, report := range reports {
		dtos[i] = toReportDTO(report)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// intParam parses an optional numeric query parameter. Absent means zero;
// present but non-numeric is an error, not a silent default.
func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case timesheet.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case timesheet.IsLockViolation(err):
		writeError(w, http.StatusConflict, err.Error())
	case timesheet.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
