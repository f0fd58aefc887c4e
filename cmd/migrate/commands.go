package main

import (
	"alcyxob/fitness-admin/internal/app"
	"alcyxob/fitness-admin/internal/service"
	"alcyxob/fitness-admin/internal/worker"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dryRun  bool
	outFile string
)

var workoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Rewrite plan workouts to reference the global workout library",
	Long: `Walks every plan, week and day and rewrites each workout that still
carries its own name, type, muscle groups and equipment so that it points at
the global workout with the same name instead. The display fields are removed.

Workouts that already hold a reference are skipped. Workouts without a name,
or whose name has no library match, are left alone and listed as warnings.

The summary is printed and the full report is written to --out. The command
exits non-zero when any workout failed to migrate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			migrations := service.NewMigrationService(a.Repos, a.Notifier, a.Log, a.Files, a.Config.Migration.ReportPrefix, a.PresignExpiry())
			stats, err := migrations.MigrateWorkouts(ctx, service.MigrationOptions{DryRun: dryRun, Confirmer: confirmer()})
			if errors.Is(err, service.ErrCancelled) {
				fmt.Println("Migration cancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			if err := stats.WriteSummary(os.Stdout); err != nil {
				return err
			}
			if outFile != "" {
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(outFile, data, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Printf("\nReport written to %s\n", outFile)
			}
			if key, url, err := migrations.SaveReport(ctx, stats); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: report not uploaded: %v\n", err)
			} else if key != "" {
				fmt.Printf("Report uploaded to %s\n%s\n", key, url)
			}

			if !stats.OK() {
				return errMigrationIncomplete
			}
			return nil
		})
	},
}

var cascadeDeleteCmd = &cobra.Command{
	Use:   "cascade-delete <planId>",
	Short: "Delete a plan together with its weeks, days and workouts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			plans := service.NewPlanService(a.Repos, a.Notifier, a.Log)
			result, err := plans.Delete(ctx, args[0], true, confirmer())
			if errors.Is(err, service.ErrCancelled) {
				fmt.Println("Deletion cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Deleted plan %s: %d weeks, %d days, %d workouts\n", result.PlanID, result.Weeks, result.Days, result.Workouts)
			return nil
		})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove weeks, days and workouts whose parent no longer exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			result, err := worker.NewSweeper(a.Repos, a.Log).Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d weeks, %d days, %d workouts\n", result.Weeks, result.Days, result.Workouts)
			return nil
		})
	},
}

func init() {
	workoutsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify workouts without writing")
	workoutsCmd.Flags().StringVarP(&outFile, "out", "o", "migration-log.json", "where to write the JSON report; empty to skip")
}
