// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	batchSize  int32
}

// NewMongoWorkoutRepository creates a new plan workout repository.
func NewMongoWorkoutRepository(db *mongo.Database, batchSize int32) repository.WorkoutRepository {
	if batchSize <= 0 {
		batchSize = defaultCursorBatchSize
	}
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
		batchSize:  batchSize,
	}
}

// Create inserts a new workout. Only the reference and the config are stored.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.PlanWorkout) (string, error) {
	if workout.PlanID == "" || workout.WeekID == "" || workout.DayID == "" || workout.GlobalWorkoutID == "" {
		return "", errors.New("workout requires planId, weekId, dayId and globalWorkoutId")
	}
	workout.ID = newID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return "", insertErr(err)
	}
	return workout.ID, nil
}

// ListByDay retrieves the workouts of a day sorted by their order field.
func (r *mongoWorkoutRepository) ListByDay(ctx context.Context, dayID string) ([]domain.PlanWorkout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	return findAll[domain.PlanWorkout](ctx, r.collection, bson.M{"dayId": dayID}, findOptions)
}

// Update writes the reference, order and every config field.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.PlanWorkout) error {
	if workout.ID == "" {
		return errors.New("workout ID is required for update")
	}
	workout.UpdatedAt = time.Now().UTC()
	return updateSet(ctx, r.collection, workout.ID, bson.M{
		"globalWorkoutId":        workout.GlobalWorkoutID,
		"order":                  workout.Order,
		"numSets":                workout.Config.NumSets,
		"targetReps":             workout.Config.TargetReps,
		"baseWeight":             workout.Config.BaseWeight,
		"restTimerSeconds":       workout.Config.RestTimerSeconds,
		"workoutDurationSeconds": workout.Config.WorkoutDurationSeconds,
		"updatedAt":              workout.UpdatedAt,
	})
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id)
}

func (r *mongoWorkoutRepository) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	return deleteInBatches(ctx, r.collection, bson.M{"planId": planID}, repository.DeleteBatchSize)
}

func (r *mongoWorkoutRepository) DeleteByDay(ctx context.Context, dayID string) (int64, error) {
	return deleteInBatches(ctx, r.collection, bson.M{"dayId": dayID}, repository.DeleteBatchSize)
}

func (r *mongoWorkoutRepository) DistinctDayIDs(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.collection, "dayId", nil)
}

func (r *mongoWorkoutRepository) PlanIDsReferencing(ctx context.Context, globalWorkoutID string) ([]string, error) {
	return distinctStrings(ctx, r.collection, "planId", bson.M{"globalWorkoutId": globalWorkoutID})
}

// EachLegacyByDay streams a day's workouts as raw documents, fetched from the
// server in batches.
func (r *mongoWorkoutRepository) EachLegacyByDay(ctx context.Context, dayID string, fn func(domain.LegacyWorkout) error) error {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetBatchSize(r.batchSize)
	return each(ctx, r.collection, bson.M{"dayId": dayID}, findOptions, fn)
}

// SetReference points the workout at a library entry and strips the
// denormalized display fields.
func (r *mongoWorkoutRepository) SetReference(ctx context.Context, id, globalWorkoutID string) error {
	update := bson.M{
		"$set": bson.M{
			"globalWorkoutId": globalWorkoutID,
			"updatedAt":       time.Now().UTC(),
		},
		"$unset": bson.M{
			"name":         "",
			"type":         "",
			"muscleGroups": "",
			"equipment":    "",
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Loading a day sorted by position
			Keys: bson.D{{Key: "dayId", Value: 1}, {Key: "order", Value: 1}},
		},
		{Keys: bson.D{{Key: "planId", Value: 1}}},
		{
			// Reference lookups from the library screen
			Keys:    bson.D{{Key: "globalWorkoutId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
