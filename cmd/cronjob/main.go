package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	_ "github.com/lib/pq"

	"krishimitra-backend/internal/config"
	"krishimitra-backend/internal/jobs"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository/postgres"
	"krishimitra-backend/internal/scheduler"
	"krishimitra-backend/internal/service"
)

const allJobs = "all"

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run one job and exit ('release-expired-leases' or 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting KrishiMitra job runner", "log_level", cfg.Log.Level)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "port", cfg.Database.Port)

	store := postgres.NewStore(db)
	runner := jobs.NewJobRunner(&jobs.Services{
		Lease: service.NewLeaseService(store, store.LedgerRepository),
	}, cfg)

	if *runOnce != "" {
		job, ok := jobTable(runner)[*runOnce]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown job %q, available: %v\n", *runOnce, jobNames(runner))
			os.Exit(1)
		}
		logger.Info("Running job once", "job", *runOnce)
		job()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cronScheduler := scheduler.NewScheduler(runner)
	cronScheduler.Start()
	logger.Info("Scheduler running, press Ctrl+C to stop")

	<-ctx.Done()
	cronScheduler.Stop()
}

func jobTable(runner *jobs.JobRunner) map[string]func() {
	return map[string]func(){
		jobs.ReleaseExpiredLeasesJob: runner.ReleaseExpiredLeases,
		allJobs:                      runner.RunAllJobs,
	}
}

func jobNames(runner *jobs.JobRunner) []string {
	var names []string
	for name := range jobTable(runner) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
