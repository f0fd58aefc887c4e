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

// mongoGlobalWorkoutRepository implements repository.GlobalWorkoutRepository
type mongoGlobalWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoGlobalWorkoutRepository creates a new library repository backed by MongoDB.
func NewMongoGlobalWorkoutRepository(db *mongo.Database) repository.GlobalWorkoutRepository {
	return &mongoGlobalWorkoutRepository{
		collection: db.Collection(globalWorkoutCollectionName),
	}
}

// Create inserts a library entry under the ID chosen by the caller.
func (r *mongoGlobalWorkoutRepository) Create(ctx context.Context, workout *domain.GlobalWorkout) (string, error) {
	if workout.ID == "" || workout.Name == "" {
		return "", errors.New("global workout ID and name are required")
	}
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return "", insertErr(err)
	}
	return workout.ID, nil
}

func (r *mongoGlobalWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.GlobalWorkout, error) {
	var workout domain.GlobalWorkout
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout); err != nil {
		return nil, notFound(err)
	}
	normalizeType(&workout)
	return &workout, nil
}

// List returns the library sorted by name.
func (r *mongoGlobalWorkoutRepository) List(ctx context.Context, activeOnly bool) ([]domain.GlobalWorkout, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	workouts, err := findAll[domain.GlobalWorkout](ctx, r.collection, filter, findOptions)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		normalizeType(&workouts[i])
	}
	return workouts, nil
}

func (r *mongoGlobalWorkoutRepository) Update(ctx context.Context, workout *domain.GlobalWorkout) error {
	if workout.ID == "" {
		return errors.New("global workout ID is required for update")
	}
	if workout.Name == "" {
		return errors.New("global workout name cannot be empty")
	}
	workout.UpdatedAt = time.Now().UTC()
	return updateSet(ctx, r.collection, workout.ID, bson.M{
		"name":           workout.Name,
		"type":           workout.Type,
		"muscleGroups":   workout.MuscleGroups,
		"equipment":      workout.Equipment,
		"searchKeywords": workout.SearchKeywords,
		"isActive":       workout.IsActive,
		"updatedAt":      workout.UpdatedAt,
	})
}

func (r *mongoGlobalWorkoutRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id)
}

// Older library documents spell the type in lowercase.
func normalizeType(w *domain.GlobalWorkout) {
	if t, ok := domain.ParseWorkoutType(string(w.Type)); ok {
		w.Type = t
	}
}

// EnsureGlobalWorkoutIndexes creates necessary indexes for the library collection.
func EnsureGlobalWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
