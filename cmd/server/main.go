package main

import (
	"alcyxob/fitness-admin/internal/api"
	"alcyxob/fitness-admin/internal/app"
	"alcyxob/fitness-admin/internal/config"
	"alcyxob/fitness-admin/internal/logging"
	"alcyxob/fitness-admin/internal/service"
	"alcyxob/fitness-admin/internal/worker"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionSweepSchedule = "@every 5m"

// @title Fitness Admin API
// @version 1.0
// @description Admin dashboard API for workout plans, the exercise library and dashboard accounts.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Must(cfg.Log)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server exiting")
}

func run(cfg config.Config, logger *zap.Logger) error {
	logger.Info("starting fitness admin server", zap.String("address", cfg.Server.Address))
	ctx := context.Background()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing resources")
		if err := a.Close(); err != nil {
			logger.Error("failed to close resources", zap.Error(err))
		}
	}()

	provider, err := a.Identity()
	if err != nil {
		return fmt.Errorf("identity provider: %w", err)
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(provider, a.Repos.Accounts, a.Notifier, logger, cfg.JWT.Secret, cfg.JWT.Expiration)
	accountService := service.NewAccountService(a.Repos.Accounts, a.Notifier, logger)
	planService := service.NewPlanService(a.Repos, a.Notifier, logger)
	libraryService := service.NewGlobalWorkoutService(a.Repos, a.Notifier, logger)
	migrationService := service.NewMigrationService(a.Repos, a.Notifier, logger, a.Files, cfg.Migration.ReportPrefix, a.PresignExpiry())

	editorOpts := []service.EditorOption{
		service.WithSessionTTL(cfg.Editor.SessionTTL),
		service.WithImportLimit(cfg.Import.MaxBytes),
	}
	if a.Files != nil {
		editorOpts = append(editorOpts, service.WithExportStorage(a.Files, "exports/", a.PresignExpiry()))
	}
	editor := service.NewEditor(planService, a.Notifier, logger, editorOpts...)

	// --- Background jobs ---
	scheduler := worker.NewScheduler(logger)
	if err := scheduler.Add(sessionSweepSchedule, "expire-sessions", worker.SessionJob(editor)); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	if cfg.Sweeper.Enabled {
		sweeper := worker.NewSweeper(a.Repos, logger)
		if err := scheduler.Add(cfg.Sweeper.Schedule, "orphan-sweep", worker.OrphanJob(sweeper)); err != nil {
			return fmt.Errorf("schedule orphan sweep: %w", err)
		}
		logger.Info("orphan sweeper enabled", zap.String("schedule", cfg.Sweeper.Schedule))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, logger, api.Services{
		Auth:           authService,
		Accounts:       accountService,
		Plans:          planService,
		Editor:         editor,
		GlobalWorkouts: libraryService,
		Migrations:     migrationService,
		Notifications:  a.Queue,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
