/*
scheduler.go - Periodic forecast refresh

PURPOSE:
  Re-runs the forecast for a fixed set of departments on a timer so the
  Prometheus gauges stay current between interactive report requests.

DESIGN:
  - Runs a background goroutine with configurable refresh interval
  - Refreshes once immediately on start
  - A department whose preconditions fail (no current term, sections not
    published) is logged and skipped; the refresh moves on

CONFIGURATION:
  - Interval: How often to refresh (default: 15 minutes)
  - Departments: Which departments to refresh

USAGE:
  scheduler := NewForecastScheduler(store, logger, []string{"CS"})
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GetPTRiskReport (interactive runs, same metrics)
  - metrics/metrics.go: The gauges this keeps fresh
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/animoassign/load-engine/forecast"
	"github.com/animoassign/load-engine/metrics"
)

// ForecastScheduler keeps forecast metrics fresh in the background.
type ForecastScheduler struct {
	Store       forecast.Store
	Logger      zerolog.Logger
	Departments []string
	Interval    time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewForecastScheduler creates a scheduler for the given departments.
func NewForecastScheduler(store forecast.Store, logger zerolog.Logger, departments []string) *ForecastScheduler {
	return &ForecastScheduler{
		Store:       store,
		Logger:      logger,
		Departments: departments,
		Interval:    15 * time.Minute,
		stop:        make(chan struct{}),
	}
}

// Start begins the scheduler. A scheduler with no departments stays idle.
func (fs *ForecastScheduler) Start() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if len(fs.Departments) == 0 {
		fs.Logger.Info().Msg("forecast scheduler idle, no departments configured")
		return
	}

	fs.ticker = time.NewTicker(fs.Interval)
	fs.wg.Add(1)
	go fs.run()

	fs.Logger.Info().
		Dur("interval", fs.Interval).
		Strs("departments", fs.Departments).
		Msg("forecast scheduler started")
}

// Stop stops the scheduler and waits for an in-flight refresh to finish.
func (fs *ForecastScheduler) Stop() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.ticker != nil {
		fs.ticker.Stop()
		close(fs.stop)
		fs.wg.Wait()
		fs.Logger.Info().Msg("forecast scheduler stopped")
	}
}

func (fs *ForecastScheduler) run() {
	defer fs.wg.Done()

	// Refresh immediately on start
	fs.refresh()

	for {
		select {
		case <-fs.ticker.C:
			fs.refresh()
		case <-fs.stop:
			return
		}
	}
}

func (fs *ForecastScheduler) refresh() {
	ctx := context.Background()

	for _, dept := range fs.Departments {
		start := time.Now()
		report, err := forecast.Run(ctx, fs.Store, forecast.Params{DepartmentScope: dept})
		metrics.RunDurationSeconds.Observe(time.Since(start).Seconds())

		if err != nil {
			if forecast.IsPrecondition(err) {
				metrics.RunsTotal.WithLabelValues("precondition_failed").Inc()
				fs.Logger.Warn().Err(err).Str("department", dept).Msg("forecast refresh skipped")
			} else {
				metrics.RunsTotal.WithLabelValues("error").Inc()
				fs.Logger.Error().Err(err).Str("department", dept).Msg("forecast refresh failed")
			}
			continue
		}

		metrics.RunsTotal.WithLabelValues("ok").Inc()
		recordReportMetrics(report)
		fs.Logger.Debug().
			Str("department", dept).
			Int("pt_sections", report.Summary.TotalPTSections).
			Msg("forecast metrics refreshed")
	}
}

// RunNow triggers an immediate refresh (for testing/admin).
func (fs *ForecastScheduler) RunNow() {
	fs.refresh()
}
