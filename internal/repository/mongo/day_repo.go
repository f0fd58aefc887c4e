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

// mongoDayRepository implements repository.DayRepository
type mongoDayRepository struct {
	collection *mongo.Collection
}

func NewMongoDayRepository(db *mongo.Database) repository.DayRepository {
	return &mongoDayRepository{
		collection: db.Collection(dayCollectionName),
	}
}

func (r *mongoDayRepository) Create(ctx context.Context, day *domain.Day) (string, error) {
	if day.PlanID == "" || day.WeekID == "" {
		return "", errors.New("day requires planId and weekId")
	}
	day.ID = newID()
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, day); err != nil {
		return "", insertErr(err)
	}
	return day.ID, nil
}

func (r *mongoDayRepository) GetByID(ctx context.Context, id string) (*domain.Day, error) {
	var day domain.Day
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&day); err != nil {
		return nil, notFound(err)
	}
	return &day, nil
}

func (r *mongoDayRepository) ListByWeek(ctx context.Context, weekID string) ([]domain.Day, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}, {Key: "createdAt", Value: 1}})
	return findAll[domain.Day](ctx, r.collection, bson.M{"weekId": weekID}, findOptions)
}

// Update writes the day name and position.
func (r *mongoDayRepository) Update(ctx context.Context, day *domain.Day) error {
	if day.ID == "" {
		return errors.New("day ID is required for update")
	}
	day.UpdatedAt = time.Now().UTC()
	return updateSet(ctx, r.collection, day.ID, bson.M{
		"name":      day.Name,
		"dayNumber": day.DayNumber,
		"updatedAt": day.UpdatedAt,
	})
}

func (r *mongoDayRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id)
}

func (r *mongoDayRepository) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	return deleteInBatches(ctx, r.collection, bson.M{"planId": planID}, repository.DeleteBatchSize)
}

func (r *mongoDayRepository) DeleteByWeek(ctx context.Context, weekID string) (int64, error) {
	return deleteInBatches(ctx, r.collection, bson.M{"weekId": weekID}, repository.DeleteBatchSize)
}

func (r *mongoDayRepository) DistinctWeekIDs(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.collection, "weekId", nil)
}

// EnsureDayIndexes creates necessary indexes for the days collection.
func EnsureDayIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "weekId", Value: 1}, {Key: "dayNumber", Value: 1}}},
		{Keys: bson.D{{Key: "planId", Value: 1}}},
	})
	return err
}
