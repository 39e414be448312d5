package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	_ "github.com/lib/pq"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/billing"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/config"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/jobs"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository/postgres"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/scheduler"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'gap-correction-sweep', 'gap-correction-report', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Espace Iris cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	calc := billing.NewGapCalculator(billing.Rates{
		CopaymentRate: decimal.NewFromFloat(cfg.Billing.CopaymentRate),
		MonthDays:     cfg.Billing.MonthDays,
	})
	gapService := service.NewGapCorrectionService(
		store,
		store.Repositories(),
		calc,
		billing.NewPeriodCorrector(calc, decimal.NewFromFloat(cfg.Billing.TolerancePercent())),
		billing.NewReportFormatter(cfg.Billing.Currency),
	)

	jobServices := &jobs.Services{
		GapCorrection: gapService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.",
		"gap_correction_sweep", cfg.Scheduler.GapCorrectionSweep,
		"dry_run", cfg.Scheduler.SweepDryRun(),
		"next_run", cronScheduler.NextRun())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "gap-correction-sweep":
		jobRunner.RunGapCorrectionSweep()
	case "gap-correction-report":
		jobRunner.ReportGapCorrections()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - gap-correction-sweep\n")
		fmt.Printf("  - gap-correction-report\n")
		fmt.Printf("  - all-nightly\n")
		os.Exit(1)
	}
}
