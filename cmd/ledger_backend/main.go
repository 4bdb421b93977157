package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/property_ledger/internal/core/services"
	"github.com/SscSPs/property_ledger/internal/handlers"
	"github.com/SscSPs/property_ledger/internal/middleware"
	"github.com/SscSPs/property_ledger/internal/platform/config"
	"github.com/SscSPs/property_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/property_ledger/internal/scheduler"
	"github.com/SscSPs/property_ledger/pkg/database"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 15 * time.Second

// @title Property Ledger API
// @version 1.0
// @description Obligations, payments and owner settlements for a property management agency.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
		EnableCheck:      cfg.EnableDBCheck,
		StatementTimeout: cfg.DBStatementTimeout,
		LockTimeout:      cfg.DBLockTimeout,
	})
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer, err := services.NewServiceContainer(cfg, repos)
	if err != nil {
		return err
	}

	if cfg.RunLegacyMigrationOnStart {
		result, err := serviceContainer.Migration.MigrateLegacyPayments(middleware.WithLogger(ctx, logger))
		if err != nil {
			return err
		}
		logger.Info("Legacy migration finished",
			slog.Int("migrated", result.Migrated),
			slog.Int("payments_created", result.PaymentsCreated),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", len(result.Errors)))
	}

	if cfg.OverdueSweepSchedule != "" {
		var locker scheduler.Locker
		if redisClient != nil {
			locker = scheduler.NewRedisLocker(redisClient)
		}
		sweeper, err := scheduler.NewOverdueSweeper(cfg.OverdueSweepSchedule, serviceContainer.Overdue, locker, logger)
		if err != nil {
			return err
		}
		sweeper.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			sweeper.Stop(stopCtx)
		}()
	}

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, repos.Health, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrations(logger *slog.Logger, cfg *config.Config) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
