/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the milkbook server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (flags over environment over .env)
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Start the advance-balance sweep scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides MILKBOOK_PORT)
  -db      SQLite database path (overrides MILKBOOK_DB)
           Use ":memory:" for an in-memory database
  -env     Optional .env file to load

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler, close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/milkbook.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
  - scheduler/scheduler.go: Periodic reconciliation
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/panchamrit/milkbook/api"
	"github.com/panchamrit/milkbook/bsdate"
	"github.com/panchamrit/milkbook/config"
	"github.com/panchamrit/milkbook/dairy"
	"github.com/panchamrit/milkbook/pkg/logger"
	"github.com/panchamrit/milkbook/scheduler"
	"github.com/panchamrit/milkbook/store/sqlite"
)

func main() {
	// Flags
	port := flag.String("port", "", "HTTP server port (overrides MILKBOOK_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides MILKBOOK_DB)")
	envFile := flag.String("env", "", "optional .env file")
	flag.Parse()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to initialize database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer store.Close()

	// Wire handler and router
	cal := bsdate.New()
	handler := api.NewHandler(store, cal, logger.Named(log, "api"))
	router := api.NewRouter(handler)

	// Periodic advance-balance sweep
	reconciler := dairy.NewReconciler(store, logger.Named(log, "reconciler"))
	sched := scheduler.New(cfg.Reconcile.CronSchedule, reconciler, logger.Named(log, "scheduler"))
	sched.Start()
	defer sched.Stop()

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
