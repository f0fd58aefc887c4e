package mongo

import (
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// NewRepositories wires every MongoDB-backed repository against db.
func NewRepositories(db *mongo.Database, batchSize int32) repository.Repositories {
	return repository.Repositories{
		Plans:          NewMongoPlanRepository(db, batchSize),
		Weeks:          NewMongoWeekRepository(db),
		Days:           NewMongoDayRepository(db),
		Workouts:       NewMongoWorkoutRepository(db, batchSize),
		GlobalWorkouts: NewMongoGlobalWorkoutRepository(db),
		Accounts:       NewMongoAccountRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection concurrently and
// returns the first failure.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		planCollectionName:          EnsurePlanIndexes,
		weekCollectionName:          EnsureWeekIndexes,
		dayCollectionName:           EnsureDayIndexes,
		workoutCollectionName:       EnsureWorkoutIndexes,
		globalWorkoutCollectionName: EnsureGlobalWorkoutIndexes,
		accountCollectionName:       EnsureAccountIndexes,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, fn := range ensure {
		g.Go(func() error {
			if err := fn(gctx, db.Collection(name)); err != nil {
				return fmt.Errorf("indexes for %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
