/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates terms, courses,
	faculty, sections, and preferences that demonstrate specific engine
	behaviors.

AVAILABLE SCENARIOS:

	steady-state:    FT capacity covers the published demand
	pt-gap:          Demand outruns FT capacity, PT hires needed
	leave-season:    Key faculty on approved leave this term
	pre-enlistment:  No published sections; demand from pre-enlistment
	history-blend:   Demand estimated from historical fill rates

HOW SCENARIOS WORK:
 1. Build a complete Dataset in memory
 2. ReplaceAll swaps it into the store atomically
 3. Query GET /api/reports/pt-risk?department=CS to see the outcome

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "pt-gap"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create a dataset function: xxxDataset()
 3. Add case to LoadScenario handler

NOTE:

	Loading a scenario replaces ALL data. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Report handler the scenarios feed
  - forecast/store/memory.go: Dataset and Seeder types
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/animoassign/load-engine/forecast"
	seedstore "github.com/animoassign/load-engine/forecast/store"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-state",
		Name:        "Steady State",
		Description: "Full-time capacity covers every published section",
		Category:    "coverage",
	},
	{
		ID:          "pt-gap",
		Name:        "Part-Time Gap",
		Description: "Published demand outruns full-time capacity",
		Category:    "coverage",
	},
	{
		ID:          "leave-season",
		Name:        "Leave Season",
		Description: "Key faculty on approved leave for the current term",
		Category:    "coverage",
	},
	{
		ID:          "pre-enlistment",
		Name:        "Pre-Enlistment Only",
		Description: "No published sections; demand comes from pre-enlistment (query with allow_fallback=true)",
		Category:    "estimation",
	},
	{
		ID:          "history-blend",
		Name:        "Historical Blend",
		Description: "Demand estimated from three terms of fill history (query with allow_fallback=true)",
		Category:    "estimation",
	},
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var data seedstore.Dataset
	switch req.ScenarioID {
	case "steady-state":
		data = steadyStateDataset()
	case "pt-gap":
		data = ptGapDataset()
	case "leave-season":
		data = leaveSeasonDataset()
	case "pre-enlistment":
		data = preEnlistmentDataset()
	case "history-blend":
		data = historyBlendDataset()
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario: "+req.ScenarioID, nil)
		return
	}

	if err := h.Store.ReplaceAll(r.Context(), data); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()
	h.Logger.Info().Str("scenario", req.ScenarioID).Msg("scenario loaded")

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetStore clears all data.
// POST /api/scenarios/reset
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ReplaceAll(r.Context(), seedstore.Dataset{}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO DATASETS
// =============================================================================

// demoTerms: three completed terms of AY2023 plus the current first term of
// AY2024. Every scenario shares this calendar.
func demoTerms() []forecast.Term {
	return []forecast.Term{
		{ID: "AY23T1", AcadYearStart: 2023, TermNumber: 1},
		{ID: "AY23T2", AcadYearStart: 2023, TermNumber: 2},
		{ID: "AY23T3", AcadYearStart: 2023, TermNumber: 3},
		{ID: "AY24T1", AcadYearStart: 2024, TermNumber: 1, IsCurrent: true},
	}
}

func demoFaculty() []forecast.FacultyProfile {
	return []forecast.FacultyProfile{
		{ID: "F1", Name: "Alice Tan", DepartmentID: "CS", Employment: forecast.EmploymentFullTime, QualifiedKACs: []string{"K-PROG"}},
		{ID: "F2", Name: "Ben Uy", DepartmentID: "CS", Employment: forecast.EmploymentFullTime, QualifiedKACs: []string{"K-ALGO"}},
		{ID: "F3", Name: "Carla Reyes", DepartmentID: "CS", Employment: forecast.EmploymentFullTime},
	}
}

func demoPreferences(units ...int) []forecast.FacultyPreference {
	ids := []forecast.FacultyID{"F1", "F2", "F3"}
	prefs := make([]forecast.FacultyPreference, 0, len(units))
	for i, u := range units {
		prefs = append(prefs, forecast.FacultyPreference{
			FacultyID: ids[i], TermID: "AY23T3", PreferredUnits: u,
		})
	}
	return prefs
}

func currentSections(course forecast.CourseID, n int) []forecast.Section {
	sections := make([]forecast.Section, n)
	for i := range sections {
		sections[i] = forecast.Section{
			ID:       string(course) + "-S" + string(rune('1'+i)),
			TermID:   "AY24T1",
			CourseID: course,
			Status:   forecast.SectionStatusActive,
			SeatCap:  40,
		}
	}
	return sections
}

func steadyStateDataset() seedstore.Dataset {
	return seedstore.Dataset{
		Terms: demoTerms(),
		Courses: []forecast.Course{
			{ID: "CCPROG1", Code: "CCPROG1", DepartmentID: "CS", UnitsPerSection: 3, KACIDs: []string{"K-PROG"}},
		},
		Faculty:     demoFaculty(),
		Sections:    currentSections("CCPROG1", 3),
		Preferences: demoPreferences(6, 3, 3),
	}
}

func ptGapDataset() seedstore.Dataset {
	data := steadyStateDataset()
	data.Sections = currentSections("CCPROG1", 6)
	data.Preferences = demoPreferences(3, 3)
	return data
}

func leaveSeasonDataset() seedstore.Dataset {
	data := steadyStateDataset()
	data.Leaves = []forecast.Leave{
		{FacultyID: "F1", ApprovalStatus: forecast.LeaveApproved, StartTermID: "AY24T1", EndTermID: "AY24T1"},
		{FacultyID: "F2", ApprovalStatus: forecast.LeaveApproved, StartTermID: "AY23T3", EndTermID: "AY24T1"},
	}
	return data
}

func preEnlistmentDataset() seedstore.Dataset {
	data := steadyStateDataset()
	data.Sections = []forecast.Section{
		{ID: "CCPROG1-OLD", TermID: "AY23T3", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 38},
	}
	data.PreEnlistments = []forecast.PreEnlistment{
		{TermID: "AY24T1", CourseID: "CCPROG1", SeatsRequested: 160},
	}
	return data
}

func historyBlendDataset() seedstore.Dataset {
	data := steadyStateDataset()
	data.Sections = []forecast.Section{
		{ID: "H1", TermID: "AY23T3", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 40},
		{ID: "H2", TermID: "AY23T3", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 40},
		{ID: "H3", TermID: "AY23T2", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 32},
		{ID: "H4", TermID: "AY23T2", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 32},
		{ID: "H5", TermID: "AY23T2", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 32},
		{ID: "H6", TermID: "AY23T1", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40, Enrolled: 36},
	}
	return data
}
