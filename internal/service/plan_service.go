package service

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DeleteResult reports what a plan delete removed.
type DeleteResult struct {
	PlanID   string `json:"planId"`
	Weeks    int64  `json:"weeks"`
	Days     int64  `json:"days"`
	Workouts int64  `json:"workouts"`
}

// PlanService reads, saves and deletes workout plans.
type PlanService interface {
	List(ctx context.Context) ([]domain.PlanSummary, error)
	// Create returns an empty plan that exists only locally until saved.
	Create(name, description string) (*plantree.Tree, error)
	Load(ctx context.Context, planID string) (*plantree.Tree, error)
	// Save writes the differences between local and snapshot. A nil
	// snapshot means nothing is known to be persisted yet.
	Save(ctx context.Context, local, snapshot *plantree.Tree) (*SaveResult, error)
	Delete(ctx context.Context, planID string, cascade bool, confirmer confirm.Confirmer) (*DeleteResult, error)
	// DeleteDescendants removes the weeks, days and workouts of a plan
	// without asking and without touching the plan document.
	DeleteDescendants(ctx context.Context, planID string) (*DeleteResult, error)
	Library(ctx context.Context) (*domain.WorkoutIndex, error)
}

type planService struct {
	repos    repository.Repositories
	notifier notify.Notifier
	log      *zap.Logger
}

func NewPlanService(repos repository.Repositories, notifier notify.Notifier, log *zap.Logger) PlanService {
	return &planService{
		repos:    repos,
		notifier: notifier,
		log:      log.Named("plans"),
	}
}

func (s *planService) List(ctx context.Context) ([]domain.PlanSummary, error) {
	plans, err := s.repos.Plans.List(ctx)
	if err != nil {
		s.notifier.Error("Failed to fetch workout plans")
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]domain.PlanSummary, 0, len(plans))
	for _, p := range plans {
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

func (s *planService) Create(name, description string) (*plantree.Tree, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrInvalidInput)
	}
	return plantree.New(name, strings.TrimSpace(description)), nil
}

func (s *planService) Library(ctx context.Context) (*domain.WorkoutIndex, error) {
	all, err := s.repos.GlobalWorkouts.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list global workouts: %w", err)
	}
	return domain.NewWorkoutIndex(all), nil
}

// Load reads the plan with all its descendants in display order. Weeks are
// sorted by number, days by day number and workouts by order.
func (s *planService) Load(ctx context.Context, planID string) (*plantree.Tree, error) {
	plan, err := s.repos.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	library, err := s.Library(ctx)
	if err != nil {
		return nil, err
	}

	tree := plantree.FromPlan(*plan)
	weeks, err := s.repos.Weeks.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	for _, w := range weeks {
		if _, err := tree.AttachWeek(w.ID, w.Number); err != nil {
			return nil, fmt.Errorf("attach week %s: %w", w.ID, err)
		}
		days, err := s.repos.Days.ListByWeek(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("list days: %w", err)
		}
		for _, d := range days {
			if _, err := tree.AttachDay(w.ID, d.ID, d.Name); err != nil {
				return nil, fmt.Errorf("attach day %s: %w", d.ID, err)
			}
			workouts, err := s.repos.Workouts.ListByDay(ctx, d.ID)
			if err != nil {
				return nil, fmt.Errorf("list workouts: %w", err)
			}
			for _, k := range workouts {
				node := plantree.WorkoutNode{
					ID:              k.ID,
					DayID:           d.ID,
					GlobalWorkoutID: k.GlobalWorkoutID,
					Order:           k.Order,
					Config:          k.Config,
				}
				if g, ok := library.ByID(k.GlobalWorkoutID); ok {
					node.Display = g.Display()
				} else {
					s.log.Warn("workout references a missing library entry",
						zap.String("planId", planID),
						zap.String("workoutId", k.ID),
						zap.String("globalWorkoutId", k.GlobalWorkoutID))
				}
				if _, err := tree.AttachWorkout(node); err != nil {
					return nil, fmt.Errorf("attach workout %s: %w", k.ID, err)
				}
			}
		}
	}
	return tree, nil
}

func (s *planService) Save(ctx context.Context, local, snapshot *plantree.Tree) (*SaveResult, error) {
	if strings.TrimSpace(local.Name) == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrInvalidInput)
	}
	r := newReconciler(s.repos, local, snapshot)
	if err := r.run(ctx); err != nil {
		s.log.Error("plan save aborted",
			zap.String("planId", local.PlanID),
			zap.Int("created", r.result.Created),
			zap.Int("updated", r.result.Updated),
			zap.Int("deleted", r.result.Deleted),
			zap.Error(err))
		s.notifier.Error("Failed to save plan. Please try again.")
		return r.result, err
	}
	s.log.Info("plan saved",
		zap.String("planId", r.result.PlanID),
		zap.Int("created", r.result.Created),
		zap.Int("updated", r.result.Updated),
		zap.Int("deleted", r.result.Deleted))
	s.notifier.Success("Plan saved successfully!")
	return r.result, nil
}

// Delete removes a plan after confirmation. Without cascade only the plan
// document goes; its weeks, days and workouts stay until swept.
func (s *planService) Delete(ctx context.Context, planID string, cascade bool, confirmer confirm.Confirmer) (*DeleteResult, error) {
	plan, err := s.repos.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	msg := fmt.Sprintf("Are you sure you want to delete %q?", plan.Name)
	if cascade {
		msg += " This will also delete all weeks, days, and workouts."
	}
	ok, err := confirmer.Confirm(ctx, confirm.Request{
		Title:       "Delete Workout Plan",
		Message:     msg,
		ConfirmText: "Delete",
		Destructive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return nil, ErrCancelled
	}

	result := &DeleteResult{PlanID: planID}
	if cascade {
		if result, err = s.DeleteDescendants(ctx, planID); err != nil {
			s.notifier.Error("Failed to delete workout plan")
			return result, err
		}
	}
	if err := s.repos.Plans.Delete(ctx, planID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.notifier.Error("Failed to delete workout plan")
		return result, fmt.Errorf("delete plan: %w", err)
	}
	s.log.Info("plan deleted",
		zap.String("planId", planID),
		zap.Bool("cascade", cascade),
		zap.Int64("weeks", result.Weeks),
		zap.Int64("days", result.Days),
		zap.Int64("workouts", result.Workouts))
	s.notifier.Success("Workout plan deleted")
	return result, nil
}

// DeleteDescendants removes children before parents so an interrupted run
// never leaves a child whose parent is already gone.
func (s *planService) DeleteDescendants(ctx context.Context, planID string) (*DeleteResult, error) {
	result := &DeleteResult{PlanID: planID}
	var err error
	if result.Workouts, err = s.repos.Workouts.DeleteByPlan(ctx, planID); err != nil {
		return result, fmt.Errorf("delete workouts: %w", err)
	}
	if result.Days, err = s.repos.Days.DeleteByPlan(ctx, planID); err != nil {
		return result, fmt.Errorf("delete days: %w", err)
	}
	if result.Weeks, err = s.repos.Weeks.DeleteByPlan(ctx, planID); err != nil {
		return result, fmt.Errorf("delete weeks: %w", err)
	}
	return result, nil
}
