// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopcanopy/splitrank-go/internal/application/container"
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
	"github.com/shopcanopy/splitrank-go/internal/presentation/http/server"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	log.Println("Initializing SplitRank...")

	// Step 1: Structured logging
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.OutputToFile = config.LogToFile
	loggerConfig.LogDirectory = config.LogDirectory
	loggerConfig.JSONFormat = config.LogJSONFormat
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Step 2: Database connection
	driverName, dataSourceName := resolveDatabase()
	db, err := database.NewConnectionWithLogger(driverName, dataSourceName, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Step 3: Schema and seed data
	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := tableCreator.SeedInitialContent(db.DB); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Startup().Info("Database schema ready", "driver", driverName)

	// Step 4: Experiment table, immutable for the process lifetime
	table, err := experiment.LoadTable(config.ExperimentsConfigPath, config.ABTestSalt)
	if err != nil {
		return fmt.Errorf("failed to load experiment table: %w", err)
	}
	for name, exp := range table.Experiments {
		attrs := []any{
			"experiment", name,
			"enabled", exp.Enabled,
			"defaultGroup", exp.DefaultGroup,
			"groups", len(exp.Groups),
		}
		if !exp.WeightsSumTo100() {
			logger.Startup().Warn("Experiment weights do not sum to 100, bandit selection will fall back to hash bucketing", attrs...)
		} else {
			logger.Startup().Info("Experiment loaded", attrs...)
		}
	}

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(db, table, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Background event recorder
	appContainer.EventService.Start()

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	logger.Startup().Info("SplitRank ready",
		slog.String("port", config.Port),
		slog.String("activeExperiment", config.ActiveExperiment))

	// Step 8: Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		logger.Shutdown().Info("Shutdown signal received", "signal", sig.String())
	}

	// Step 9: Graceful shutdown - stop accepting requests, then drain the
	// event queue so accepted interactions reach the log.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("HTTP server shutdown failed", "error", err.Error())
	}
	appContainer.EventService.Stop()
	logger.Shutdown().Info("Shutdown complete")

	return nil
}

// resolveDatabase picks the driver and DSN: a configured Turso URL wins,
// otherwise the local sqlite file is used.
func resolveDatabase() (string, string) {
	if config.TursoDatabaseURL != "" {
		dsn := config.TursoDatabaseURL
		if config.TursoAuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.TursoDatabaseURL, config.TursoAuthToken)
		}
		return "libsql", dsn
	}
	return config.DBDriver, config.DBPath
}
