// Package worker runs background maintenance jobs.
package worker

import (
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SweepResult counts the orphaned documents one pass removed.
type SweepResult struct {
	Weeks    int64 `json:"weeks"`
	Days     int64 `json:"days"`
	Workouts int64 `json:"workouts"`
}

// Sweeper removes weeks, days and workouts whose parent no longer exists.
// Saving a plan deletes removed nodes one level at a time, and deleting a
// plan without cascade leaves everything below it; this is what collects
// the leftovers.
type Sweeper struct {
	repos repository.Repositories
	log   *zap.Logger
}

func NewSweeper(repos repository.Repositories, log *zap.Logger) *Sweeper {
	return &Sweeper{repos: repos, log: log.Named("sweeper")}
}

// Sweep goes top-down so a whole orphaned subtree goes in one pass.
func (s *Sweeper) Sweep(ctx context.Context) (*SweepResult, error) {
	res := &SweepResult{}

	planIDs, err := s.repos.Weeks.DistinctPlanIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list week parents: %w", err)
	}
	for _, id := range planIDs {
		_, err := s.repos.Plans.GetByID(ctx, id)
		gone, err := missing(err)
		if err != nil {
			return res, fmt.Errorf("check plan %s: %w", id, err)
		}
		if !gone {
			continue
		}
		n, err := s.repos.Weeks.DeleteByPlan(ctx, id)
		if err != nil {
			return res, fmt.Errorf("delete weeks of plan %s: %w", id, err)
		}
		res.Weeks += n
	}

	weekIDs, err := s.repos.Days.DistinctWeekIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list day parents: %w", err)
	}
	for _, id := range weekIDs {
		_, err := s.repos.Weeks.GetByID(ctx, id)
		gone, err := missing(err)
		if err != nil {
			return res, fmt.Errorf("check week %s: %w", id, err)
		}
		if !gone {
			continue
		}
		n, err := s.repos.Days.DeleteByWeek(ctx, id)
		if err != nil {
			return res, fmt.Errorf("delete days of week %s: %w", id, err)
		}
		res.Days += n
	}

	dayIDs, err := s.repos.Workouts.DistinctDayIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list workout parents: %w", err)
	}
	for _, id := range dayIDs {
		_, err := s.repos.Days.GetByID(ctx, id)
		gone, err := missing(err)
		if err != nil {
			return res, fmt.Errorf("check day %s: %w", id, err)
		}
		if !gone {
			continue
		}
		n, err := s.repos.Workouts.DeleteByDay(ctx, id)
		if err != nil {
			return res, fmt.Errorf("delete workouts of day %s: %w", id, err)
		}
		res.Workouts += n
	}

	if res.Weeks+res.Days+res.Workouts > 0 {
		s.log.Info("orphans removed",
			zap.Int64("weeks", res.Weeks),
			zap.Int64("days", res.Days),
			zap.Int64("workouts", res.Workouts))
	}
	return res, nil
}

func missing(err error) (bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	return false, err
}
