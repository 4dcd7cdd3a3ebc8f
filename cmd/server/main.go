/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the faculty load forecast server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize store (SQLite file or in-memory)
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Optionally start the metrics refresh scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: forecast.db)
             Use "mem" for the in-memory store
  -refresh   Comma-separated departments for periodic metrics refresh
             (default: none, scheduler stays idle)
  -interval  Metrics refresh interval (default: 15m)
  -debug     Enable debug-level logging

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/forecast.db"

  # Run with in-memory store and periodic refresh for two departments
  ./server -db=mem -refresh=CS,MATH -interval=5m

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/animoassign/load-engine/api"
	seedstore "github.com/animoassign/load-engine/forecast/store"
	"github.com/animoassign/load-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "forecast.db", "SQLite database path, or 'mem' for in-memory")
	refresh := flag.String("refresh", "", "comma-separated departments for periodic metrics refresh")
	interval := flag.Duration("interval", 15*time.Minute, "metrics refresh interval")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	// Initialize store
	var (
		handlerStore api.Store
		closeStore   func() error
	)
	if *dbPath == "mem" {
		handlerStore = seedstore.NewMemory()
		closeStore = func() error { return nil }
	} else {
		store, err := sqlite.New(*dbPath)
		if err != nil {
			logger.Fatal().Err(err).Str("db", *dbPath).Msg("failed to initialize database")
		}
		handlerStore = store
		closeStore = store.Close
	}
	defer closeStore()

	// Initialize handler and router
	handler := api.NewHandler(handlerStore, logger)
	router := api.NewRouter(handler)

	// Optional background metrics refresh
	var departments []string
	for _, d := range strings.Split(*refresh, ",") {
		if d = strings.TrimSpace(d); d != "" {
			departments = append(departments, d)
		}
	}
	scheduler := api.NewForecastScheduler(handlerStore, logger, departments)
	scheduler.Interval = *interval
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
