/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario seeds the expected state:
	- Entries land on the right days with reconciled hours
	- Confirmation state matches the scenario's story
	- Seeded data survives the overtime report
*/
package api

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/timesheet"
	"github.com/warp/timesheet-engine/timesheet/store"
)

func hoursDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setupTestHandler() *Handler {
	mem := store.NewMemory()
	clock := timesheet.FixedClock{Date: timesheet.MustDate("2025-03-12")}
	return NewHandler(mem, mem, clock)
}

func TestScenario_PlainWeek(t *testing.T) {
	// GIVEN: the plain-week scenario
	// WHEN: loading it
	// THEN: demo-worker has five reconciled weekdays in an open week

	handler := setupTestHandler()
	ctx := context.Background()

	if err := handler.loadPlainWeek(ctx); err != nil {
		t.Fatalf("Failed to load plain-week scenario: %v", err)
	}

	// The scenario seeds the week before the clock's current week.
	monday := handler.lastOpenMonday()
	if monday.String() != "2025-03-03" {
		t.Fatalf("Expected seeded week to start 2025-03-03, got %s", monday)
	}

	view, err := handler.Entries.WeekView(ctx, "demo-worker", monday)
	if err != nil {
		t.Fatalf("Failed to load week view: %v", err)
	}
	if view.State != timesheet.WeekOpen {
		t.Errorf("Expected open week, got %s", view.State)
	}
	for i := 0; i < 5; i++ {
		if len(view.Days[i].Entries) != 1 {
			t.Errorf("Expected 1 entry on day %d, got %d", i, len(view.Days[i].Entries))
		}
		// 08:00-17:00 minus lunch.
		if !view.Days[i].TotalHours.Equal(hoursDec("8.5")) {
			t.Errorf("Expected 8.5h on day %d, got %s", i, view.Days[i].TotalHours)
		}
	}
	if len(view.Days[5].Entries) != 0 || len(view.Days[6].Entries) != 0 {
		t.Error("Plain week should not seed weekend entries")
	}
}

func TestScenario_PendingReview(t *testing.T) {
	handler := setupTestHandler()
	ctx := context.Background()

	if err := handler.loadPendingReview(ctx); err != nil {
		t.Fatalf("Failed to load pending-review scenario: %v", err)
	}

	state, err := handler.Confirmations.State(ctx, "demo-worker", handler.lastOpenMonday())
	if err != nil {
		t.Fatalf("Failed to load week state: %v", err)
	}
	if state != timesheet.WeekConfirmed {
		t.Errorf("Expected confirmed week, got %s", state)
	}
}

func TestScenario_OvertimeHeavy(t *testing.T) {
	handler := setupTestHandler()
	ctx := context.Background()

	if err := handler.loadOvertimeHeavy(ctx); err != nil {
		t.Fatalf("Failed to load overtime-heavy scenario: %v", err)
	}

	monday := handler.lastOpenMonday()
	period := timesheet.Period{From: monday, To: monday.AddDays(6)}

	reports, err := handler.Overtime.AllUsersReport(ctx, period)
	if err != nil {
		t.Fatalf("Failed to compute reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Expected reports for both demo workers, got %d", len(reports))
	}
	// demo-worker's long days plus weekend beat demo-colleague's modest 5x1h.
	if reports[0].UserID != "demo-worker" || reports[1].UserID != "demo-colleague" {
		t.Errorf("Expected demo-worker ranked first, got %s then %s", reports[0].UserID, reports[1].UserID)
	}
	if !reports[0].Total200.Equal(hoursDec("2")) {
		t.Errorf("Expected 2h at 200%% from Sunday, got %s", reports[0].Total200)
	}
}

func TestLoadScenario_UnknownID(t *testing.T) {
	handler := setupTestHandler()

	if err := handler.loadPlainWeek(context.Background()); err != nil {
		t.Fatalf("Failed to load plain-week scenario: %v", err)
	}
	// The HTTP handler rejects unknown IDs before touching the store; the
	// loaded scenario list itself must contain every loadable ID.
	known := map[string]bool{}
	for _, s := range scenarios {
		known[s.ID] = true
	}
	for _, id := range []string{"plain-week", "pending-review", "overtime-heavy"} {
		if !known[id] {
			t.Errorf("Scenario %s is loadable but not listed", id)
		}
	}
}
