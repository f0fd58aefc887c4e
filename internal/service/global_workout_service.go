package service

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the numeric suffixes tried when a slug is taken.
const maxSlugAttempts = 50

// GlobalWorkoutInput carries the editable fields of a library entry. A nil
// IsActive leaves the flag as it is (or true on create).
type GlobalWorkoutInput struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	MuscleGroups   []string `json:"muscleGroups"`
	Equipment      []string `json:"equipment"`
	SearchKeywords []string `json:"searchKeywords"`
	IsActive       *bool    `json:"isActive"`
}

// GlobalWorkoutService manages the shared exercise library.
type GlobalWorkoutService interface {
	List(ctx context.Context, activeOnly bool) ([]domain.GlobalWorkout, error)
	Get(ctx context.Context, id string) (*domain.GlobalWorkout, error)
	// Search ranks active entries by fuzzy match against name and keywords.
	Search(ctx context.Context, query string, limit int) ([]domain.GlobalWorkout, error)
	Create(ctx context.Context, in GlobalWorkoutInput) (*domain.GlobalWorkout, error)
	Update(ctx context.Context, id string, in GlobalWorkoutInput) (*domain.GlobalWorkout, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.GlobalWorkout, error)
	// References lists the plans holding a workout that points at id.
	References(ctx context.Context, id string) ([]domain.PlanSummary, error)
	// Delete refuses while plans reference the entry unless force is set.
	Delete(ctx context.Context, id string, force bool, confirmer confirm.Confirmer) error
}

type globalWorkoutService struct {
	repos    repository.Repositories
	notifier notify.Notifier
	log      *zap.Logger
}

func NewGlobalWorkoutService(repos repository.Repositories, notifier notify.Notifier, log *zap.Logger) GlobalWorkoutService {
	return &globalWorkoutService{
		repos:    repos,
		notifier: notifier,
		log:      log.Named("global_workouts"),
	}
}

func (s *globalWorkoutService) List(ctx context.Context, activeOnly bool) ([]domain.GlobalWorkout, error) {
	workouts, err := s.repos.GlobalWorkouts.List(ctx, activeOnly)
	if err != nil {
		s.notifier.Error("Failed to load workouts")
		return nil, fmt.Errorf("list global workouts: %w", err)
	}
	return workouts, nil
}

func (s *globalWorkoutService) Get(ctx context.Context, id string) (*domain.GlobalWorkout, error) {
	g, err := s.repos.GlobalWorkouts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGlobalWorkoutGone
		}
		return nil, fmt.Errorf("get global workout: %w", err)
	}
	return g, nil
}

// searchSource adapts library entries to fuzzy.Source.
type searchSource []domain.GlobalWorkout

func (s searchSource) String(i int) string {
	g := s[i]
	return strings.ToLower(strings.Join(append([]string{g.Name}, g.SearchKeywords...), " "))
}

func (s searchSource) Len() int { return len(s) }

func (s *globalWorkoutService) Search(ctx context.Context, query string, limit int) ([]domain.GlobalWorkout, error) {
	active, err := s.repos.GlobalWorkouts.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list global workouts: %w", err)
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return truncate(active, limit), nil
	}
	matches := fuzzy.FindFrom(query, searchSource(active))
	out := make([]domain.GlobalWorkout, 0, len(matches))
	for _, m := range matches {
		out = append(out, active[m.Index])
	}
	return truncate(out, limit), nil
}

func truncate(workouts []domain.GlobalWorkout, limit int) []domain.GlobalWorkout {
	if limit > 0 && len(workouts) > limit {
		return workouts[:limit]
	}
	return workouts
}

func (s *globalWorkoutService) Create(ctx context.Context, in GlobalWorkoutInput) (*domain.GlobalWorkout, error) {
	g := &domain.GlobalWorkout{IsActive: true}
	if err := applyInput(g, in); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, g.Name, ""); err != nil {
		return nil, err
	}
	if len(g.SearchKeywords) == 0 {
		g.SearchKeywords = strings.Fields(strings.ToLower(g.Name))
	}

	base := domain.Slug(g.Name)
	if base == "" {
		base = "workout"
	}
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		g.ID = base
		if attempt > 1 {
			g.ID = fmt.Sprintf("%s-%d", base, attempt)
		}
		_, err := s.repos.GlobalWorkouts.Create(ctx, g)
		if err == nil {
			s.log.Info("global workout created", zap.String("id", g.ID), zap.String("name", g.Name))
			s.notifier.Success("Workout created successfully!")
			return g, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			s.notifier.Error("Failed to save workout")
			return nil, fmt.Errorf("create global workout: %w", err)
		}
	}
	s.notifier.Error("Failed to save workout")
	return nil, fmt.Errorf("create global workout: no free id for %q", base)
}

func (s *globalWorkoutService) Update(ctx context.Context, id string, in GlobalWorkoutInput) (*domain.GlobalWorkout, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(g, in); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, g.Name, id); err != nil {
		return nil, err
	}
	if err := s.repos.GlobalWorkouts.Update(ctx, g); err != nil {
		s.notifier.Error("Failed to save workout")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGlobalWorkoutGone
		}
		return nil, fmt.Errorf("update global workout: %w", err)
	}
	s.notifier.Success("Workout updated successfully!")
	return g, nil
}

func (s *globalWorkoutService) SetActive(ctx context.Context, id string, active bool) (*domain.GlobalWorkout, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.IsActive == active {
		return g, nil
	}
	g.IsActive = active
	if err := s.repos.GlobalWorkouts.Update(ctx, g); err != nil {
		s.notifier.Error("Failed to update workout status")
		return nil, fmt.Errorf("update global workout: %w", err)
	}
	return g, nil
}

func (s *globalWorkoutService) References(ctx context.Context, id string) ([]domain.PlanSummary, error) {
	planIDs, err := s.repos.Workouts.PlanIDsReferencing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find referencing plans: %w", err)
	}
	out := make([]domain.PlanSummary, 0, len(planIDs))
	for _, planID := range planIDs {
		p, err := s.repos.Plans.GetByID(ctx, planID)
		if errors.Is(err, repository.ErrNotFound) {
			continue // workouts left behind by a deleted plan
		}
		if err != nil {
			return nil, fmt.Errorf("get plan %s: %w", planID, err)
		}
		out = append(out, domain.PlanSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			TotalWeeks:  p.WeekCount,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return out, nil
}

func (s *globalWorkoutService) Delete(ctx context.Context, id string, force bool, confirmer confirm.Confirmer) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	refs, err := s.References(ctx, id)
	if err != nil {
		return err
	}
	if len(refs) > 0 && !force {
		return fmt.Errorf("%w: used by %d plan(s)", ErrGlobalWorkoutInUse, len(refs))
	}

	msg := "Are you sure you want to delete this workout?"
	if len(refs) > 0 {
		msg = fmt.Sprintf("%q is used by %d plan(s). Those workouts will show without a name. %s", g.Name, len(refs), msg)
	}
	ok, err := confirmer.Confirm(ctx, confirm.Request{
		Title:       "Delete Workout",
		Message:     msg,
		ConfirmText: "Delete",
		Destructive: true,
	})
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	if err := s.repos.GlobalWorkouts.Delete(ctx, id); err != nil {
		s.notifier.Error("Failed to delete workout")
		return fmt.Errorf("delete global workout: %w", err)
	}
	s.log.Info("global workout deleted", zap.String("id", id), zap.Int("referencingPlans", len(refs)))
	s.notifier.Success("Workout deleted successfully!")
	return nil
}

// ensureUniqueName compares names case-insensitively; selfID is skipped.
func (s *globalWorkoutService) ensureUniqueName(ctx context.Context, name, selfID string) error {
	all, err := s.repos.GlobalWorkouts.List(ctx, false)
	if err != nil {
		return fmt.Errorf("list global workouts: %w", err)
	}
	for _, g := range all {
		if g.ID != selfID && strings.EqualFold(g.Name, name) {
			return &DuplicateNameError{Name: g.Name}
		}
	}
	return nil
}

// DuplicateNameError names the existing entry a new name collides with.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a workout named %q already exists", e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrGlobalWorkoutFound }

func applyInput(g *domain.GlobalWorkout, in GlobalWorkoutInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	t, ok := domain.ParseWorkoutType(in.Type)
	if !ok {
		return fmt.Errorf("%w: type must be \"Weight\" or \"Timer\"", ErrInvalidInput)
	}
	g.Name = name
	g.Type = t
	g.MuscleGroups = cleanList(in.MuscleGroups, false)
	g.Equipment = cleanList(in.Equipment, false)
	g.SearchKeywords = cleanList(in.SearchKeywords, true)
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
	return nil
}

// cleanList trims entries and drops blanks, the way the library form splits
// its comma-separated inputs.
func cleanList(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if lower {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	return out
}
