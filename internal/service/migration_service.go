package service

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MigrationStats is the report of one migration run. The JSON layout is the
// one operators already keep in migration-log.json.
type MigrationStats struct {
	TotalPlans      int       `json:"totalPlans"`
	TotalWeeks      int       `json:"totalWeeks"`
	TotalDays       int       `json:"totalDays"`
	TotalWorkouts   int       `json:"totalWorkouts"`
	WorkoutsUpdated int       `json:"workoutsUpdated"`
	WorkoutsSkipped int       `json:"workoutsSkipped"`
	Errors          []string  `json:"errors"`
	Warnings        []string  `json:"warnings"`
	DryRun          bool      `json:"dryRun,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
}

// OK reports whether the run finished without errors. Warnings do not count.
func (s *MigrationStats) OK() bool {
	return len(s.Errors) == 0
}

// WriteSummary prints the human-readable report.
func (s *MigrationStats) WriteSummary(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nMIGRATION SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total Plans:        %d\n", s.TotalPlans)
	fmt.Fprintf(&b, "Total Weeks:        %d\n", s.TotalWeeks)
	fmt.Fprintf(&b, "Total Days:         %d\n", s.TotalDays)
	fmt.Fprintf(&b, "Total Workouts:     %d\n", s.TotalWorkouts)
	fmt.Fprintf(&b, "Workouts Updated:   %d\n", s.WorkoutsUpdated)
	fmt.Fprintf(&b, "Workouts Skipped:   %d\n", s.WorkoutsSkipped)
	fmt.Fprintf(&b, "Errors:             %d\n", len(s.Errors))
	fmt.Fprintf(&b, "Warnings:           %d\n", len(s.Warnings))
	b.WriteString(rule + "\n")
	if s.DryRun {
		b.WriteString("Dry run: no documents were written.\n")
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\nWARNINGS:\n")
		for i, msg := range s.Warnings {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, msg)
		}
	}
	if len(s.Errors) > 0 {
		b.WriteString("\nERRORS:\n")
		for i, msg := range s.Errors {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// MigrationOptions controls one run.
type MigrationOptions struct {
	// DryRun walks and classifies every workout without writing.
	DryRun    bool
	Confirmer confirm.Confirmer
}

// MigrationService rewrites workout documents from denormalized display
// fields to a reference into the Global Workout library.
type MigrationService interface {
	MigrateWorkouts(ctx context.Context, opts MigrationOptions) (*MigrationStats, error)
	// SaveReport stores the report in object storage and returns its key
	// and a download URL. It is a no-op without storage.
	SaveReport(ctx context.Context, stats *MigrationStats) (key, url string, err error)
}

const migrationConfirmText = "This will migrate all workout documents to use globalWorkoutId references.\n\n" +
	"The migration will:\n" +
	"1. Add globalWorkoutId field to all workouts\n" +
	"2. Remove redundant fields (name, type, muscleGroups, equipment)\n\n" +
	"This operation is IRREVERSIBLE. Make sure you have a backup!\n\n" +
	"Continue?"

type migrationService struct {
	repos    repository.Repositories
	notifier notify.Notifier
	log      *zap.Logger

	files         storage.FileStorage
	reportPrefix  string
	presignExpiry time.Duration
	now           func() time.Time
}

// NewMigrationService creates the migration runner. files may be nil.
func NewMigrationService(repos repository.Repositories, notifier notify.Notifier, log *zap.Logger, files storage.FileStorage, reportPrefix string, presignExpiry time.Duration) MigrationService {
	return &migrationService{
		repos:         repos,
		notifier:      notifier,
		log:           log.Named("migration"),
		files:         files,
		reportPrefix:  reportPrefix,
		presignExpiry: presignExpiry,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *migrationService) MigrateWorkouts(ctx context.Context, opts MigrationOptions) (*MigrationStats, error) {
	if opts.Confirmer == nil {
		return nil, fmt.Errorf("%w: migration requires confirmation", ErrInvalidInput)
	}
	ok, err := opts.Confirmer.Confirm(ctx, confirm.Request{
		Title:       "Migrate workouts",
		Message:     migrationConfirmText,
		ConfirmText: "Run migration",
		Destructive: !opts.DryRun,
	})
	if err != nil {
		return nil, fmt.Errorf("confirm migration: %w", err)
	}
	if !ok {
		return nil, ErrCancelled
	}

	stats := &MigrationStats{
		Errors:    []string{},
		Warnings:  []string{},
		DryRun:    opts.DryRun,
		StartedAt: s.now(),
	}
	s.log.Info("starting workout migration to globalWorkoutId references", zap.Bool("dryRun", opts.DryRun))
	if err := s.run(ctx, stats, opts.DryRun); err != nil {
		s.log.Error("migration failed", zap.Error(err))
		stats.Errors = append(stats.Errors, fmt.Sprintf("Migration failed: %v", err))
	}
	stats.FinishedAt = s.now()

	s.log.Info("migration finished",
		zap.Int("totalPlans", stats.TotalPlans),
		zap.Int("totalWeeks", stats.TotalWeeks),
		zap.Int("totalDays", stats.TotalDays),
		zap.Int("totalWorkouts", stats.TotalWorkouts),
		zap.Int("workoutsUpdated", stats.WorkoutsUpdated),
		zap.Int("workoutsSkipped", stats.WorkoutsSkipped),
		zap.Int("errors", len(stats.Errors)),
		zap.Int("warnings", len(stats.Warnings)))
	if stats.OK() {
		s.notifier.Success("Migration completed successfully!")
	} else {
		s.notifier.Warning("Migration completed with errors. Check the logs below.")
	}
	return stats, nil
}

// run walks plan -> week -> day -> workout. A failure to read stops the walk;
// a failure to write one workout is recorded and the walk goes on.
func (s *migrationService) run(ctx context.Context, stats *MigrationStats, dryRun bool) error {
	all, err := s.repos.GlobalWorkouts.List(ctx, false)
	if err != nil {
		return fmt.Errorf("fetch global workouts: %w", err)
	}
	library := domain.NewWorkoutIndex(all)
	s.log.Info("loaded global workouts", zap.Int("count", library.Len()))

	return s.repos.Plans.Each(ctx, func(plan domain.Plan) error {
		stats.TotalPlans++
		log := s.log.With(zap.String("planId", plan.ID))
		log.Info("processing plan", zap.String("name", plan.Name))

		weeks, err := s.repos.Weeks.ListByPlan(ctx, plan.ID)
		if err != nil {
			return fmt.Errorf("list weeks of plan %s: %w", plan.ID, err)
		}
		stats.TotalWeeks += len(weeks)
		for _, week := range weeks {
			days, err := s.repos.Days.ListByWeek(ctx, week.ID)
			if err != nil {
				return fmt.Errorf("list days of week %s: %w", week.ID, err)
			}
			stats.TotalDays += len(days)
			for _, day := range days {
				err := s.repos.Workouts.EachLegacyByDay(ctx, day.ID, func(w domain.LegacyWorkout) error {
					stats.TotalWorkouts++
					s.migrateWorkout(ctx, log, w, library, stats, dryRun)
					return nil
				})
				if err != nil {
					return fmt.Errorf("list workouts of day %s: %w", day.ID, err)
				}
			}
		}
		return nil
	})
}

func (s *migrationService) migrateWorkout(ctx context.Context, log *zap.Logger, w domain.LegacyWorkout, library *domain.WorkoutIndex, stats *MigrationStats, dryRun bool) {
	if w.GlobalWorkoutID != "" {
		stats.WorkoutsSkipped++
		log.Debug("already migrated", zap.String("workoutId", w.ID))
		return
	}
	if w.Name == "" {
		stats.Warnings = append(stats.Warnings, fmt.Sprintf("Workout %s has no name field - skipping", w.ID))
		stats.WorkoutsSkipped++
		return
	}
	ref, ok := library.ByName(w.Name)
	if !ok {
		stats.Warnings = append(stats.Warnings, fmt.Sprintf("No global workout found for %q (ID: %s)", w.Name, w.ID))
		stats.WorkoutsSkipped++
		return
	}
	if !dryRun {
		if err := s.repos.Workouts.SetReference(ctx, w.ID, ref.ID); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("Failed to migrate workout %s: %v", w.ID, err))
			log.Error("error migrating workout", zap.String("workoutId", w.ID), zap.Error(err))
			return
		}
	}
	stats.WorkoutsUpdated++
	log.Info("migrated workout",
		zap.String("workoutId", w.ID),
		zap.String("name", w.Name),
		zap.String("globalWorkoutId", ref.ID),
		zap.Bool("dryRun", dryRun))
}

func (s *migrationService) SaveReport(ctx context.Context, stats *MigrationStats) (string, string, error) {
	if s.files == nil {
		return "", "", nil
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal report: %w", err)
	}
	key := s.reportPrefix + stats.StartedAt.Format("20060102T150405Z") + ".json"
	if err := s.files.PutObject(ctx, key, "application/json", data); err != nil {
		s.log.Error("failed to store migration report", zap.String("key", key), zap.Error(err))
		return "", "", fmt.Errorf("upload report: %w", err)
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return key, "", fmt.Errorf("presign report: %w", err)
	}
	return key, url, nil
}
