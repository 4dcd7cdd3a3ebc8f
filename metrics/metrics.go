// Package metrics provides Prometheus observability metrics for the load
// forecast engine. Gauges reflect the most recent forecast run; counters
// accumulate over the life of the process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// FORECAST OUTCOME METRICS
// =============================================================================

// DemandSectionsTotal tracks total estimated section demand in the last run.
var DemandSectionsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "forecast",
	Name:      "demand_sections_total",
	Help:      "Total section demand estimated in the most recent forecast run",
})

// FTFilledSectionsTotal tracks sections covered by full-time capacity.
var FTFilledSectionsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "forecast",
	Name:      "ft_filled_sections_total",
	Help:      "Sections covered by full-time faculty in the most recent forecast run",
})

// PTNeededSectionsTotal tracks sections needing part-time hires.
// High values indicate staffing gaps for the upcoming term.
var PTNeededSectionsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "forecast",
	Name:      "pt_needed_sections_total",
	Help:      "Sections that require part-time coverage in the most recent forecast run",
})

// CoursesAtRisk tracks courses by risk label in the last run.
var CoursesAtRisk = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "forecast",
	Name:      "courses_at_risk",
	Help:      "Courses in the most recent forecast run broken down by risk label",
}, []string{"risk"})

// =============================================================================
// OPERATIONAL METRICS
// =============================================================================

// RunsTotal tracks forecast runs by outcome.
var RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "forecast",
	Name:      "runs_total",
	Help:      "Total forecast runs by outcome (ok, precondition_failed, error)",
}, []string{"outcome"})

// RunDurationSeconds tracks time to produce a full department report.
var RunDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "forecast",
	Name:      "run_duration_seconds",
	Help:      "Time taken to produce a department forecast report",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// CoursesProcessed tracks courses evaluated per run.
var CoursesProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "forecast",
	Name:      "courses_processed",
	Help:      "Number of courses evaluated per forecast run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetRunGauges resets the per-run gauges before recording a new run.
func ResetRunGauges() {
	DemandSectionsTotal.Set(0)
	FTFilledSectionsTotal.Set(0)
	PTNeededSectionsTotal.Set(0)
	CoursesAtRisk.Reset()
}
