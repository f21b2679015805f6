/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for demos. Each scenario creates workers, a few weeks of entries,
	and confirmation states that demonstrate specific features.

AVAILABLE SCENARIOS:

	plain-week:      One worker, one open week of ordinary entries
	pending-review:  A confirmed week waiting for an admin
	overtime-heavy:  Long weekdays plus weekend work across two workers

HOW SCENARIOS WORK:
 1. Seed entries day by day through the EntryService (so reconciliation
    and overlap rules apply to demo data too)
 2. Optionally confirm weeks through the ConfirmationService

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overtime-heavy"}

NOTE:

	Scenarios write into the live store. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Error helpers, Handler definition
  - server.go: Route wiring
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Current     bool   `json:"current,omitempty"`
}

// LoadScenarioRequest selects which scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "plain-week",
		Name:        "Plain Week",
		Description: "One worker, one open week of ordinary 9-to-5 entries",
	},
	{
		ID:          "pending-review",
		Name:        "Pending Review",
		Description: "A confirmed week waiting for an admin decision",
	},
	{
		ID:          "overtime-heavy",
		Name:        "Overtime Heavy",
		Description: "Long weekdays and weekend work across two workers",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s
		out[i].Current = s.ID == h.currentScenario
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadScenario seeds the store with one of the demo scenarios.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var err error
	switch req.ScenarioID {
	case "plain-week":
		err = h.loadPlainWeek(r.Context())
	case "pending-review":
		err = h.loadPendingReview(r.Context())
	case "overtime-heavy":
		err = h.loadOvertimeHeavy(r.Context())
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown scenario: %s", req.ScenarioID))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scenario: "+err.Error())
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// seedDay writes one worker-day through the EntryService so demo data
// passes the same validation as real data.
func (h *Handler) seedDay(ctx context.Context, userID timesheet.UserID, date timesheet.Date, entries []timesheet.TimeEntry) error {
	admin := timesheet.Actor{ID: "seed", Role: timesheet.RoleAdmin}
	_, err := h.Entries.SubmitDay(ctx, admin, userID, date, entries)
	return err
}

func workDay(project timesheet.ProjectID, start, end string, lunch bool) []timesheet.TimeEntry {
	s := timesheet.MustClockTime(start)
	e := timesheet.MustClockTime(end)
	return []timesheet.TimeEntry{{
		WorkType:      timesheet.WorkTypeOrdinary,
		ProjectID:     project,
		Start:         &s,
		End:           &e,
		LunchDeducted: lunch,
	}}
}

// lastOpenMonday returns the Monday of the previous ISO week, so seeded
// entries never trip the future-date rule.
func (h *Handler) lastOpenMonday() timesheet.Date {
	return timesheet.ISOWeekMonday(h.Clock.Today()).AddDays(-7)
}

func (h *Handler) loadPlainWeek(ctx context.Context) error {
	monday := h.lastOpenMonday()
	for i := 0; i < 5; i++ {
		if err := h.seedDay(ctx, "demo-worker", monday.AddDays(i), workDay("proj-alpha", "08:00", "17:00", true)); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadPendingReview(ctx context.Context) error {
	if err := h.loadPlainWeek(ctx); err != nil {
		return err
	}
	worker := timesheet.Actor{ID: "demo-worker", Role: timesheet.RoleWorker}
	_, err := h.Confirmations.Confirm(ctx, worker, "demo-worker", h.lastOpenMonday())
	return err
}

func (h *Handler) loadOvertimeHeavy(ctx context.Context) error {
	monday := h.lastOpenMonday()

	// Worker one: 11-hour weekdays, hits both the 125% and 150% tiers.
	for i := 0; i < 5; i++ {
		if err := h.seedDay(ctx, "demo-worker", monday.AddDays(i), workDay("proj-alpha", "07:00", "18:30", true)); err != nil {
			return err
		}
	}
	// Saturday work pays 150%, Sunday 200%.
	if err := h.seedDay(ctx, "demo-worker", monday.AddDays(5), workDay("proj-alpha", "09:00", "12:00", false)); err != nil {
		return err
	}
	if err := h.seedDay(ctx, "demo-worker", monday.AddDays(6), workDay("proj-alpha", "10:00", "12:00", false)); err != nil {
		return err
	}

	// Worker two: modest overtime for the ranking in the all-users report.
	for i := 0; i < 5; i++ {
		if err := h.seedDay(ctx, "demo-colleague", monday.AddDays(i), workDay("proj-beta", "08:00", "17:30", true)); err != nil {
			return err
		}
	}
	return nil
}
