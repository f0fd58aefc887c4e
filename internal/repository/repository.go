package repository

import (
	"alcyxob/fitness-admin/internal/domain"
	"context"
	"time"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DeleteBatchSize caps how many documents a cascade delete removes per round trip.
const DeleteBatchSize = 500

// PlanRepository stores plan root documents.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context) ([]domain.Plan, error) // Most recently updated first
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id string) error
	// Each streams every plan; used by whole-store jobs.
	Each(ctx context.Context, fn func(domain.Plan) error) error
}

// WeekRepository stores weeks. Deleting a week leaves its days in place.
type WeekRepository interface {
	Create(ctx context.Context, week *domain.Week) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Week, error)
	ListByPlan(ctx context.Context, planID string) ([]domain.Week, error) // Sorted by week number
	Update(ctx context.Context, week *domain.Week) error
	Delete(ctx context.Context, id string) error
	DeleteByPlan(ctx context.Context, planID string) (int64, error)
	DistinctPlanIDs(ctx context.Context) ([]string, error)
}

// DayRepository stores days. Deleting a day leaves its workouts in place.
type DayRepository interface {
	Create(ctx context.Context, day *domain.Day) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Day, error)
	ListByWeek(ctx context.Context, weekID string) ([]domain.Day, error) // Sorted by day number
	Update(ctx context.Context, day *domain.Day) error
	Delete(ctx context.Context, id string) error
	DeleteByPlan(ctx context.Context, planID string) (int64, error)
	DeleteByWeek(ctx context.Context, weekID string) (int64, error)
	DistinctWeekIDs(ctx context.Context) ([]string, error)
}

// WorkoutRepository stores plan-local workouts.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.PlanWorkout) (string, error)
	ListByDay(ctx context.Context, dayID string) ([]domain.PlanWorkout, error) // Sorted by order
	Update(ctx context.Context, workout *domain.PlanWorkout) error
	Delete(ctx context.Context, id string) error
	DeleteByPlan(ctx context.Context, planID string) (int64, error)
	DeleteByDay(ctx context.Context, dayID string) (int64, error)
	DistinctDayIDs(ctx context.Context) ([]string, error)
	// PlanIDsReferencing returns the plans holding at least one workout
	// pointing at the given library entry.
	PlanIDsReferencing(ctx context.Context, globalWorkoutID string) ([]string, error)

	// EachLegacyByDay streams the raw workout documents of a day, including
	// any denormalized fields still present.
	EachLegacyByDay(ctx context.Context, dayID string, fn func(domain.LegacyWorkout) error) error
	// SetReference stores the library reference and removes the
	// denormalized name, type, muscle groups and equipment fields.
	SetReference(ctx context.Context, id, globalWorkoutID string) error
}

// GlobalWorkoutRepository stores the shared exercise library.
type GlobalWorkoutRepository interface {
	Create(ctx context.Context, workout *domain.GlobalWorkout) (string, error) // ID is chosen by the caller
	GetByID(ctx context.Context, id string) (*domain.GlobalWorkout, error)
	List(ctx context.Context, activeOnly bool) ([]domain.GlobalWorkout, error) // Sorted by name
	Update(ctx context.Context, workout *domain.GlobalWorkout) error
	Delete(ctx context.Context, id string) error
}

// AccountRepository stores dashboard accounts keyed by normalized email.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, email string) error
	TouchLastLogin(ctx context.Context, email string, at time.Time) error
}

// Repositories bundles every store the services need.
type Repositories struct {
	Plans          PlanRepository
	Weeks          WeekRepository
	Days           DayRepository
	Workouts       WorkoutRepository
	GlobalWorkouts GlobalWorkoutRepository
	Accounts       AccountRepository
}
