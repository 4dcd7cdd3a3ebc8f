/*
handlers.go - HTTP API handlers for the load forecast engine

PURPOSE:
  Exposes the forecast engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Reports:
    GET    /api/reports/pt-risk        Run the part-time risk forecast

  Terms:
    GET    /api/terms                  List academic terms in order

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    GET    /api/scenarios/current      Currently loaded scenario
    POST   /api/scenarios/load         Load a demo scenario
    POST   /api/scenarios/reset        Clear all data

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Data access (also seeds scenarios)
  - Logger: Structured request-scoped logging

REQUEST FLOW:
  1. Parse HTTP request / query parameters
  2. Call domain logic (forecast.Run)
  3. Record metrics
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 409: Precondition failed (no current term, sections not published)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/animoassign/load-engine/forecast"
	seedstore "github.com/animoassign/load-engine/forecast/store"
	"github.com/animoassign/load-engine/metrics"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is what the API needs from a backing store: the forecast accessors
// plus the ability to swap in a scenario dataset wholesale.
type Store interface {
	forecast.Store
	seedstore.Seeder
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  Store
	Logger zerolog.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store Store, logger zerolog.Logger) *Handler {
	return &Handler{Store: store, Logger: logger}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetPTRiskReport runs the forecast for one department and returns the report.
// GET /api/reports/pt-risk?department=CS
//
// Optional query parameters:
//
//	overload             int, extra units per faculty member (default 0)
//	history_terms        int, lookback window for the history pool (default 3)
//	units_default        int, unit cost when the catalog has none (default 3)
//	require_preferences  bool, drop faculty without a preference record
//	allow_fallback       bool, run even without published sections
//	statuses             comma-separated section statuses counted as published
func (h *Handler) GetPTRiskReport(w http.ResponseWriter, r *http.Request) {
	params, err := parseReportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	start := time.Now()
	report, err := forecast.Run(r.Context(), h.Store, params)
	metrics.RunDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrDepartmentRequired):
			metrics.RunsTotal.WithLabelValues("precondition_failed").Inc()
			writeError(w, http.StatusBadRequest, "The department parameter is required", err)
		case forecast.IsPrecondition(err):
			metrics.RunsTotal.WithLabelValues("precondition_failed").Inc()
			writeError(w, http.StatusConflict, "Forecast preconditions not met", err)
		default:
			metrics.RunsTotal.WithLabelValues("error").Inc()
			h.Logger.Error().Err(err).Str("department", params.DepartmentScope).Msg("forecast run failed")
			writeError(w, http.StatusInternalServerError, "Forecast run failed", err)
		}
		return
	}

	metrics.RunsTotal.WithLabelValues("ok").Inc()
	recordReportMetrics(report)
	h.Logger.Info().
		Str("run_id", report.RunID).
		Str("department", report.DepartmentID).
		Str("term", string(report.TermID)).
		Int("courses", len(report.Rows)).
		Int("pt_sections", report.Summary.TotalPTSections).
		Msg("forecast run complete")

	writeJSON(w, http.StatusOK, toReportDTO(report))
}

func parseReportParams(r *http.Request) (forecast.Params, error) {
	q := r.URL.Query()
	params := forecast.Params{DepartmentScope: q.Get("department")}

	var err error
	if params.OverloadAllowanceUnits, err = intParam(q.Get("overload")); err != nil {
		return params, err
	}
	if params.HistoryTermsForExperience, err = intParam(q.Get("history_terms")); err != nil {
		return params, err
	}
	if params.UnitsDefaultPerSection, err = intParam(q.Get("units_default")); err != nil {
		return params, err
	}
	if params.IncludeOnlyWithPreferences, err = boolParam(q.Get("require_preferences")); err != nil {
		return params, err
	}
	if params.AllowFallbackWithoutSections, err = boolParam(q.Get("allow_fallback")); err != nil {
		return params, err
	}
	if raw := q.Get("statuses"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				params.AllowedSectionStatus = append(params.AllowedSectionStatus, s)
			}
		}
	}
	return params, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// recordReportMetrics publishes the per-run gauges for the given report.
func recordReportMetrics(report *forecast.Report) {
	metrics.ResetRunGauges()

	var demand, filled int
	for _, row := range report.Rows {
		demand += row.DemandSections
		filled += row.FTFilledSections
		metrics.CoursesAtRisk.WithLabelValues(string(row.Risk)).Inc()
	}
	metrics.DemandSectionsTotal.Set(float64(demand))
	metrics.FTFilledSectionsTotal.Set(float64(filled))
	metrics.PTNeededSectionsTotal.Set(float64(report.Summary.TotalPTSections))
	metrics.CoursesProcessed.Observe(float64(len(report.Rows)))
}

// =============================================================================
// TERM HANDLERS
// =============================================================================

// ListTerms returns all academic terms, oldest first.
// GET /api/terms
func (h *Handler) ListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.Store.Terms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list terms", err)
		return
	}

	seq := forecast.NewTermSequencer(terms)
	ordered := seq.Ordered()
	dtos := make([]TermDTO, len(ordered))
	for i, t := range ordered {
		dtos[i] = toTermDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HEALTH
// =============================================================================

// Healthz reports liveness.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
