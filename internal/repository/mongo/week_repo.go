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

// mongoWeekRepository implements repository.WeekRepository
type mongoWeekRepository struct {
	collection *mongo.Collection
}

func NewMongoWeekRepository(db *mongo.Database) repository.WeekRepository {
	return &mongoWeekRepository{
		collection: db.Collection(weekCollectionName),
	}
}

func (r *mongoWeekRepository) Create(ctx context.Context, week *domain.Week) (string, error) {
	if week.PlanID == "" {
		return "", errors.New("week requires planId")
	}
	week.ID = newID()
	now := time.Now().UTC()
	week.CreatedAt = now
	week.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, week); err != nil {
		return "", insertErr(err)
	}
	return week.ID, nil
}

func (r *mongoWeekRepository) GetByID(ctx context.Context, id string) (*domain.Week, error) {
	var week domain.Week
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&week); err != nil {
		return nil, notFound(err)
	}
	return &week, nil
}

// ListByPlan returns a plan's weeks sorted by week number. Weeks sharing a
// number keep their creation order.
func (r *mongoWeekRepository) ListByPlan(ctx context.Context, planID string) ([]domain.Week, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}, {Key: "createdAt", Value: 1}})
	return findAll[domain.Week](ctx, r.collection, bson.M{"planId": planID}, findOptions)
}

// Update writes the week number.
func (r *mongoWeekRepository) Update(ctx context.Context, week *domain.Week) error {
	if week.ID == "" {
		return errors.New("week ID is required for update")
	}
	week.UpdatedAt = time.Now().UTC()
	return updateSet(ctx, r.collection, week.ID, bson.M{
		"weekNumber": week.Number,
		"updatedAt":  week.UpdatedAt,
	})
}

func (r *mongoWeekRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id)
}

func (r *mongoWeekRepository) DeleteByPlan(ctx context.Context, planID string) (int64, error) {
	return deleteInBatches(ctx, r.collection, bson.M{"planId": planID}, repository.DeleteBatchSize)
}

func (r *mongoWeekRepository) DistinctPlanIDs(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.collection, "planId", nil)
}

// EnsureWeekIndexes creates necessary indexes for the weeks collection.
func EnsureWeekIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}},
	})
	return err
}
