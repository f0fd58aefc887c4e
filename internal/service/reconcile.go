package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"
)

// SaveResult counts the writes one save issued.
type SaveResult struct {
	PlanID  string `json:"planId"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Deleted int    `json:"deleted"`
}

// Writes is the total number of store mutations.
func (r *SaveResult) Writes() int {
	return r.Created + r.Updated + r.Deleted
}

// reconciler pushes one local tree to the store. Statuses come from a diff
// taken before any write; identities are swapped on the tree as the store
// assigns them, so a failed pass can be retried without duplicating nodes.
type reconciler struct {
	repos    repository.Repositories
	local    *plantree.Tree
	snapshot *plantree.Tree
	changes  *plantree.Changes
	result   *SaveResult

	storedWeeks    map[string]domain.Week
	storedDays     map[string]domain.Day
	storedWorkouts map[string]domain.PlanWorkout
}

func newReconciler(repos repository.Repositories, local, snapshot *plantree.Tree) *reconciler {
	return &reconciler{
		repos:          repos,
		local:          local,
		snapshot:       snapshot,
		changes:        plantree.Diff(local, snapshot),
		result:         &SaveResult{PlanID: local.PlanID},
		storedWeeks:    make(map[string]domain.Week),
		storedDays:     make(map[string]domain.Day),
		storedWorkouts: make(map[string]domain.PlanWorkout),
	}
}

func (r *reconciler) run(ctx context.Context) error {
	if err := r.savePlan(ctx); err != nil {
		return err
	}
	if err := r.removeOrphans(ctx); err != nil {
		return err
	}
	if err := r.saveWeeks(ctx); err != nil {
		return err
	}
	if err := r.saveDays(ctx); err != nil {
		return err
	}
	return r.saveWorkouts(ctx)
}

func (r *reconciler) savePlan(ctx context.Context) error {
	plan := &domain.Plan{
		ID:          r.local.PlanID,
		Name:        r.local.Name,
		Description: r.local.Description,
		WeekCount:   len(r.local.WeekIDs),
	}
	if r.local.IsNew() {
		id, err := r.repos.Plans.Create(ctx, plan)
		if err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		r.local.RekeyPlan(id)
		r.result.PlanID = id
		r.result.Created++
		return nil
	}
	if r.snapshot != nil && r.changes.Plan == plantree.Unchanged {
		return nil
	}
	if err := r.repos.Plans.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("update plan: %w", err)
	}
	r.result.Updated++
	return nil
}

// removeOrphans deletes stored nodes that no longer exist locally. Only the
// node itself is deleted; descendants of a removed week or day stay in the
// store and are left to the sweeper.
func (r *reconciler) removeOrphans(ctx context.Context) error {
	planID := r.local.PlanID
	weeks, err := r.repos.Weeks.ListByPlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("list weeks: %w", err)
	}
	for _, w := range weeks {
		if _, ok := r.local.Week(w.ID); !ok {
			if err := r.deleteWith(ctx, r.repos.Weeks.Delete, w.ID); err != nil {
				return fmt.Errorf("delete week %s: %w", w.ID, err)
			}
			continue
		}
		r.storedWeeks[w.ID] = w
	}

	for _, week := range r.local.Weeks() {
		if _, ok := r.storedWeeks[week.ID]; !ok {
			continue
		}
		days, err := r.repos.Days.ListByWeek(ctx, week.ID)
		if err != nil {
			return fmt.Errorf("list days of week %d: %w", week.Number, err)
		}
		for _, d := range days {
			local, ok := r.local.Day(d.ID)
			if !ok || local.WeekID != week.ID {
				if err := r.deleteWith(ctx, r.repos.Days.Delete, d.ID); err != nil {
					return fmt.Errorf("delete day %s: %w", d.ID, err)
				}
				continue
			}
			r.storedDays[d.ID] = d
		}
	}

	for _, week := range r.local.Weeks() {
		for _, day := range r.local.Days(week.ID) {
			if _, ok := r.storedDays[day.ID]; !ok {
				continue
			}
			workouts, err := r.repos.Workouts.ListByDay(ctx, day.ID)
			if err != nil {
				return fmt.Errorf("list workouts of %q: %w", day.Name, err)
			}
			for _, k := range workouts {
				local, ok := r.local.Workout(k.ID)
				if !ok || local.DayID != day.ID {
					if err := r.deleteWith(ctx, r.repos.Workouts.Delete, k.ID); err != nil {
						return fmt.Errorf("delete workout %s: %w", k.ID, err)
					}
					continue
				}
				r.storedWorkouts[k.ID] = k
			}
		}
	}
	return nil
}

func (r *reconciler) deleteWith(ctx context.Context, del func(context.Context, string) error, id string) error {
	err := del(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err == nil {
		r.result.Deleted++
	}
	return nil
}

func (r *reconciler) saveWeeks(ctx context.Context) error {
	for _, week := range r.local.Weeks() {
		id := week.ID
		stored, persisted := r.storedWeeks[id]
		doc := &domain.Week{ID: id, PlanID: r.local.PlanID, Number: week.Number}
		if !persisted {
			newID, err := r.repos.Weeks.Create(ctx, doc)
			if err != nil {
				return fmt.Errorf("create week %d: %w", week.Number, err)
			}
			if err := r.local.RekeyWeek(id, newID); err != nil {
				return err
			}
			r.result.Created++
			continue
		}
		if !r.weekNeedsWrite(week, stored) {
			continue
		}
		if err := r.repos.Weeks.Update(ctx, doc); err != nil {
			return fmt.Errorf("update week %d: %w", week.Number, err)
		}
		r.result.Updated++
	}
	return nil
}

func (r *reconciler) weekNeedsWrite(week *plantree.WeekNode, stored domain.Week) bool {
	switch r.changes.Weeks[week.ID] {
	case plantree.Changed:
		prev, _ := r.snapshot.Week(week.ID)
		return prev.Number != week.Number
	case plantree.Added:
		// Written by an earlier save that did not finish.
		return stored.Number != week.Number
	}
	return false
}

func (r *reconciler) saveDays(ctx context.Context) error {
	for _, week := range r.local.Weeks() {
		for i, day := range r.local.Days(week.ID) {
			id := day.ID
			stored, persisted := r.storedDays[id]
			doc := &domain.Day{
				ID:        id,
				PlanID:    r.local.PlanID,
				WeekID:    week.ID,
				Name:      day.Name,
				DayNumber: i + 1,
			}
			if !persisted {
				newID, err := r.repos.Days.Create(ctx, doc)
				if err != nil {
					return fmt.Errorf("create day %q in week %d: %w", day.Name, week.Number, err)
				}
				if err := r.local.RekeyDay(id, newID); err != nil {
					return err
				}
				r.result.Created++
				continue
			}
			if !r.dayNeedsWrite(day, stored) {
				continue
			}
			if err := r.repos.Days.Update(ctx, doc); err != nil {
				return fmt.Errorf("update day %q in week %d: %w", day.Name, week.Number, err)
			}
			r.result.Updated++
		}
	}
	return nil
}

func (r *reconciler) dayNeedsWrite(day *plantree.DayNode, stored domain.Day) bool {
	switch r.changes.Days[day.ID] {
	case plantree.Changed:
		prev, _ := r.snapshot.Day(day.ID)
		return prev.Name != day.Name
	case plantree.Added:
		return stored.Name != day.Name
	}
	return false
}

func (r *reconciler) saveWorkouts(ctx context.Context) error {
	for _, week := range r.local.Weeks() {
		for _, day := range r.local.Days(week.ID) {
			for _, k := range r.local.Workouts(day.ID) {
				id := k.ID
				stored, persisted := r.storedWorkouts[id]
				doc := &domain.PlanWorkout{
					ID:              id,
					PlanID:          r.local.PlanID,
					WeekID:          week.ID,
					DayID:           day.ID,
					GlobalWorkoutID: k.GlobalWorkoutID,
					Order:           k.Order,
					Config:          k.Config,
				}
				if !persisted {
					newID, err := r.repos.Workouts.Create(ctx, doc)
					if err != nil {
						return fmt.Errorf("create workout %d of %q: %w", k.Order, day.Name, err)
					}
					if err := r.local.RekeyWorkout(id, newID); err != nil {
						return err
					}
					r.result.Created++
					continue
				}
				if !r.workoutNeedsWrite(k, stored) {
					continue
				}
				if err := r.repos.Workouts.Update(ctx, doc); err != nil {
					return fmt.Errorf("update workout %d of %q: %w", k.Order, day.Name, err)
				}
				r.result.Updated++
			}
		}
	}
	return nil
}

func (r *reconciler) workoutNeedsWrite(k *plantree.WorkoutNode, stored domain.PlanWorkout) bool {
	switch r.changes.Workouts[k.ID] {
	case plantree.Changed:
		return true
	case plantree.Added:
		return stored.GlobalWorkoutID != k.GlobalWorkoutID || stored.Order != k.Order || stored.Config != k.Config
	}
	return false
}
