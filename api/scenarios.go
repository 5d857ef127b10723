/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates farmers, shift logs
	and advances that demonstrate specific features.

AVAILABLE SCENARIOS:

	single-farmer:  One farmer, both shifts on one day
	village-week:   Three farmers over a week, with advances

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Create farmers
 3. Upsert shift logs
 4. Insert advances and reconcile balances

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "village-week"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: shares the Handler context
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/panchamrit/milkbook/dairy"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "single-farmer",
		Name:        "Single Farmer",
		Description: "One farmer at the default rate with both shifts logged on one day",
	},
	{
		ID:          "village-week",
		Name:        "Village Week",
		Description: "Three farmers across a week of collections, with outstanding advances",
	},
}

// resettable is satisfied by both the sqlite and the memory store.
type resettable interface {
	Reset(ctx context.Context) error
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the store and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	store, ok := h.Store.(resettable)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Store does not support scenario loading", nil)
		return
	}

	ctx := r.Context()
	if err := store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "single-farmer":
		err = h.loadSingleFarmerScenario(ctx)
	case "village-week":
		err = h.loadVillageWeekScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadSingleFarmerScenario(ctx context.Context) error {
	farmer := dairy.Farmer{
		ID:        "farmer-demo-1",
		FarmerNo:  1,
		Name:      "Ram Bahadur",
		FixedRate: dairy.DefaultRate,
	}
	if err := h.Store.UpsertFarmer(ctx, farmer); err != nil {
		return err
	}

	logs := []dairy.DailyLog{
		{Date: "2081-01-20", FarmerID: farmer.ID, FarmerNo: 1, Shift: dairy.ShiftMorning, Milk: dairy.Qty(5.0), Fat: dairy.Qty(4.2)},
		{Date: "2081-01-20", FarmerID: farmer.ID, FarmerNo: 1, Shift: dairy.ShiftEvening, Milk: dairy.Qty(4.0), Fat: dairy.Qty(4.5)},
	}
	for _, l := range logs {
		if _, err := h.Store.UpsertLog(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadVillageWeekScenario(ctx context.Context) error {
	farmers := []dairy.Farmer{
		{ID: "farmer-demo-1", FarmerNo: 1, Name: "Ram Bahadur", FixedRate: dairy.DefaultRate},
		{ID: "farmer-demo-2", FarmerNo: 2, Name: "Sita Devi", FixedRate: dairy.Qty(16.5)},
		{ID: "farmer-demo-3", FarmerNo: 3, Name: "Hari Prasad", FixedRate: dairy.Qty(15.5)},
	}
	for _, f := range farmers {
		if err := h.Store.UpsertFarmer(ctx, f); err != nil {
			return err
		}
	}

	// A week of collections, 2081-01-16 through 2081-01-22. Farmer 3 skips
	// evenings; day 19 is a festival with no evening collection at all.
	dates := []string{"2081-01-16", "2081-01-17", "2081-01-18", "2081-01-19", "2081-01-20", "2081-01-21", "2081-01-22"}
	for i, date := range dates {
		for _, f := range farmers {
			morning := dairy.DailyLog{
				Date: date, FarmerID: f.ID, FarmerNo: f.FarmerNo, Shift: dairy.ShiftMorning,
				Milk: dairy.Qty(4.0 + 0.5*float64(f.FarmerNo)), Fat: dairy.Qty(4.0 + 0.1*float64(i%3)),
			}
			if _, err := h.Store.UpsertLog(ctx, morning); err != nil {
				return err
			}

			if f.FarmerNo == 3 || date == "2081-01-19" {
				continue
			}
			evening := dairy.DailyLog{
				Date: date, FarmerID: f.ID, FarmerNo: f.FarmerNo, Shift: dairy.ShiftEvening,
				Milk: dairy.Qty(3.5 + 0.5*float64(f.FarmerNo)), Fat: dairy.Qty(4.3),
			}
			if _, err := h.Store.UpsertLog(ctx, evening); err != nil {
				return err
			}
		}
	}

	advances := []dairy.Advance{
		{FarmerID: "farmer-demo-1", FarmerNo: 1, Date: "2081-01-16", Amount: dairy.Qty(500), Remarks: "Seed purchase"},
		{FarmerID: "farmer-demo-1", FarmerNo: 1, Date: "2081-01-18", Amount: dairy.Qty(300), Remarks: ""},
		{FarmerID: "farmer-demo-2", FarmerNo: 2, Date: "2081-01-17", Amount: dairy.Qty(1000), Remarks: "Medical"},
	}
	for _, a := range advances {
		if _, err := h.Store.InsertAdvance(ctx, a); err != nil {
			return err
		}
	}
	for _, f := range farmers {
		if _, err := h.Reconciler.ReconcileAdvance(ctx, f.ID); err != nil {
			return err
		}
	}
	return nil
}
