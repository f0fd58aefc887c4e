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

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
	batchSize  int32
}

// NewMongoPlanRepository creates a new plan repository backed by MongoDB.
// batchSize is the cursor batch size used by Each; zero picks a default.
func NewMongoPlanRepository(db *mongo.Database, batchSize int32) repository.PlanRepository {
	if batchSize <= 0 {
		batchSize = defaultCursorBatchSize
	}
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
		batchSize:  batchSize,
	}
}

// Create inserts a new plan and returns its store-assigned ID.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (string, error) {
	if plan.Name == "" {
		return "", errors.New("plan name is required")
	}
	plan.ID = newID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return "", insertErr(err)
	}
	return plan.ID, nil
}

func (r *mongoPlanRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	var plan domain.Plan
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return nil, notFound(err)
	}
	return &plan, nil
}

// List returns every plan, most recently updated first.
func (r *mongoPlanRepository) List(ctx context.Context) ([]domain.Plan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return findAll[domain.Plan](ctx, r.collection, bson.M{}, findOptions)
}

// Update writes the plan's own fields. Child documents are untouched.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == "" {
		return errors.New("plan ID is required for update")
	}
	plan.UpdatedAt = time.Now().UTC()
	return updateSet(ctx, r.collection, plan.ID, bson.M{
		"name":        plan.Name,
		"description": plan.Description,
		"weekCount":   plan.WeekCount,
		"updatedAt":   plan.UpdatedAt,
	})
}

// Delete removes the plan document only; weeks, days and workouts stay.
func (r *mongoPlanRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id)
}

func (r *mongoPlanRepository) Each(ctx context.Context, fn func(domain.Plan) error) error {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetBatchSize(r.batchSize)
	return each(ctx, r.collection, bson.M{}, findOptions, fn)
}

// EnsurePlanIndexes creates necessary indexes for the plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: -1}},
	})
	return err
}
