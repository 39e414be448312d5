package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/lib/pq"

	httpapi "github.com/taha-yassine-romdhane/espace-iris-sub013/internal/api/http"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/billing"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/config"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/logger"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository/postgres"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Espace Iris billing server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Billing configuration",
		"copayment_rate", cfg.Billing.CopaymentRate,
		"month_days", cfg.Billing.MonthDays,
		"tolerance_percent", cfg.Billing.TolerancePercent(),
		"currency", cfg.Billing.Currency)

	// Apply migrations before opening the pool
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.MigrationsPath, cfg.GetDatabaseConnectionString()); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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

	// Initialize billing engine
	calc := billing.NewGapCalculator(billing.Rates{
		CopaymentRate: decimal.NewFromFloat(cfg.Billing.CopaymentRate),
		MonthDays:     cfg.Billing.MonthDays,
	})
	corrector := billing.NewPeriodCorrector(calc, decimal.NewFromFloat(cfg.Billing.TolerancePercent()))
	formatter := billing.NewReportFormatter(cfg.Billing.Currency)

	// Initialize Services
	periodSvc := service.NewPeriodService(store, store.Repositories())
	gapSvc := service.NewGapCorrectionService(store, store.Repositories(), calc, corrector, formatter)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	router := httpapi.NewRouter(httpapi.Services{
		Periods:       periodSvc,
		GapCorrection: gapSvc,
		Notifications: noteSvc,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
