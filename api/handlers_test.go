package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animoassign/load-engine/api"
	"github.com/animoassign/load-engine/forecast"
	seedstore "github.com/animoassign/load-engine/forecast/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *seedstore.Memory) {
	t.Helper()
	store := seedstore.NewMemory()
	handler := api.NewHandler(store, zerolog.Nop())
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server, store
}

func seedDataset(t *testing.T, store *seedstore.Memory, data seedstore.Dataset) {
	t.Helper()
	require.NoError(t, store.ReplaceAll(context.Background(), data))
}

// reportDataset: CS department with one course needing 2 sections and one
// full-time member able to cover both.
func reportDataset() seedstore.Dataset {
	return seedstore.Dataset{
		Terms: []forecast.Term{
			{ID: "AY23T3", AcadYearStart: 2023, TermNumber: 3},
			{ID: "AY24T1", AcadYearStart: 2024, TermNumber: 1, IsCurrent: true},
		},
		Courses: []forecast.Course{
			{ID: "CCPROG1", Code: "CCPROG1", DepartmentID: "CS", UnitsPerSection: 3},
		},
		Faculty: []forecast.FacultyProfile{
			{ID: "F1", Name: "Alice Tan", DepartmentID: "CS", Employment: forecast.EmploymentFullTime},
		},
		Sections: []forecast.Section{
			{ID: "S1", TermID: "AY24T1", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40},
			{ID: "S2", TermID: "AY24T1", CourseID: "CCPROG1", Status: forecast.SectionStatusActive, SeatCap: 40},
		},
		Preferences: []forecast.FacultyPreference{
			{FacultyID: "F1", TermID: "AY23T3", PreferredUnits: 6},
		},
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// REPORT ENDPOINT
// =============================================================================

func TestGetPTRiskReport_OK(t *testing.T) {
	server, store := newTestServer(t)
	seedDataset(t, store, reportDataset())

	var report api.ReportDTO
	status := getJSON(t, server.URL+"/api/reports/pt-risk?department=CS", &report)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CS", report.DepartmentID)
	assert.Equal(t, "AY24T1", report.TermID)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 2, report.Rows[0].DemandSections)
	assert.Equal(t, 2, report.Rows[0].FTFilledSections)
	assert.Equal(t, string(forecast.RiskLow), report.Rows[0].Risk)
	assert.Equal(t, 0, report.Summary.TotalPTSections)
}

func TestGetPTRiskReport_MissingDepartment(t *testing.T) {
	server, store := newTestServer(t)
	seedDataset(t, store, reportDataset())

	var body api.ErrorResponse
	status := getJSON(t, server.URL+"/api/reports/pt-risk", &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body.Error)
}

func TestGetPTRiskReport_BadQueryParam(t *testing.T) {
	server, store := newTestServer(t)
	seedDataset(t, store, reportDataset())

	status := getJSON(t, server.URL+"/api/reports/pt-risk?department=CS&overload=lots", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetPTRiskReport_SectionsNotPublished_Conflict(t *testing.T) {
	server, store := newTestServer(t)
	data := reportDataset()
	data.Sections = nil
	seedDataset(t, store, data)

	var body api.ErrorResponse
	status := getJSON(t, server.URL+"/api/reports/pt-risk?department=CS", &body)

	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body.Details, "AY24T1")
}

func TestGetPTRiskReport_FallbackParam(t *testing.T) {
	server, store := newTestServer(t)
	data := reportDataset()
	data.Sections = nil
	data.PreEnlistments = []forecast.PreEnlistment{
		{TermID: "AY24T1", CourseID: "CCPROG1", SeatsRequested: 80},
	}
	seedDataset(t, store, data)

	var report api.ReportDTO
	status := getJSON(t, server.URL+"/api/reports/pt-risk?department=CS&allow_fallback=true", &report)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 2, report.Rows[0].DemandSections)
}

// =============================================================================
// TERMS AND HEALTH
// =============================================================================

func TestListTerms_Ordered(t *testing.T) {
	server, store := newTestServer(t)
	seedDataset(t, store, reportDataset())

	var terms []api.TermDTO
	status := getJSON(t, server.URL+"/api/terms", &terms)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, terms, 2)
	assert.Equal(t, "AY23T3", terms[0].ID)
	assert.True(t, terms[1].IsCurrent)
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, server.URL+"/healthz", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	seedDataset(t, store, reportDataset())

	// A run populates the gauges the scrape should expose.
	status := getJSON(t, server.URL+"/api/reports/pt-risk?department=CS", nil)
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarios_ListLoadCurrent(t *testing.T) {
	server, _ := newTestServer(t)

	var list []api.ScenarioDTO
	status := getJSON(t, server.URL+"/api/scenarios/", &list)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, list)

	resp, err := http.Post(server.URL+"/api/scenarios/load", "application/json",
		strings.NewReader(`{"scenario_id":"pt-gap"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var current api.ScenarioDTO
	status = getJSON(t, server.URL+"/api/scenarios/current", &current)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pt-gap", current.ID)

	// The loaded scenario must actually drive the report.
	var report api.ReportDTO
	status = getJSON(t, server.URL+"/api/reports/pt-risk?department=CS", &report)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, report.Rows, 1)
	assert.Greater(t, report.Rows[0].PTNeededSections, 0, "pt-gap scenario must show a gap")
}

func TestScenarios_UnknownID(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/scenarios/load", "application/json",
		strings.NewReader(`{"scenario_id":"nope"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenarios_Reset(t *testing.T) {
	server, store := newTestServer(t)
	seedDataset(t, store, reportDataset())

	resp, err := http.Post(server.URL+"/api/scenarios/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var terms []api.TermDTO
	status := getJSON(t, server.URL+"/api/terms", &terms)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, terms)
}
