// Command fitness-migrate runs one-off maintenance against the plan store:
// the workout reference migration, cascading plan deletion and the orphan
// sweep.
package main

import (
	"alcyxob/fitness-admin/internal/app"
	"alcyxob/fitness-admin/internal/config"
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/logging"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:           "fitness-migrate",
	Short:         "Maintenance jobs for the fitness plan store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")
	rootCmd.AddCommand(workoutsCmd, cascadeDeleteCmd, sweepCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// confirmer asks on the terminal unless --yes was given.
func confirmer() confirm.Confirmer {
	if assumeYes {
		return confirm.Static(true)
	}
	return confirm.Prompt{In: os.Stdin, Out: os.Stdout}
}

// withApp loads configuration, opens the store and runs fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close resources", zap.Error(err))
		}
	}()
	return fn(ctx, a)
}

var errMigrationIncomplete = errors.New("migration finished with errors")
