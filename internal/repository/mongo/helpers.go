package mongo

import (
	"alcyxob/fitness-admin/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared with the mobile app.
const (
	planCollectionName          = "workout_plans"
	weekCollectionName          = "weeks"
	dayCollectionName           = "days"
	workoutCollectionName       = "workouts"
	globalWorkoutCollectionName = "global_workouts"
	accountCollectionName       = "users"
)

// defaultCursorBatchSize is used when the config leaves database.batch_size unset.
const defaultCursorBatchSize int32 = 200

// newID returns the hex form of a fresh ObjectID. Documents use string keys
// so ids can travel through JSON and URLs unchanged.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// notFound maps the driver's "no documents" error onto repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

// insertErr maps duplicate key failures onto repository.ErrDuplicate.
func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// updateSet runs a $set on one document and reports ErrNotFound when nothing matched.
func updateSet(ctx context.Context, coll *mongo.Collection, id string, set bson.M) error {
	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// deleteInBatches removes every document matching filter, at most batch
// documents per DeleteMany call.
func deleteInBatches(ctx context.Context, coll *mongo.Collection, filter bson.M, batch int) (int64, error) {
	if batch <= 0 {
		batch = repository.DeleteBatchSize
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetLimit(int64(batch))

	var total int64
	for {
		cursor, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return total, err
		}
		var docs []struct {
			ID string `bson:"_id"`
		}
		if err := cursor.All(ctx, &docs); err != nil {
			return total, err
		}
		if len(docs) == 0 {
			return total, nil
		}

		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID
		}
		result, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return total, fmt.Errorf("delete batch from %s: %w", coll.Name(), err)
		}
		total += result.DeletedCount
		if len(docs) < batch {
			return total, nil
		}
	}
}

// distinctStrings returns the distinct non-empty string values of field.
func distinctStrings(ctx context.Context, coll *mongo.Collection, field string, filter bson.M) ([]string, error) {
	if filter == nil {
		filter = bson.M{}
	}
	values, err := coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// findAll decodes every document of a Find into out.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// each decodes documents one at a time, letting the driver fetch them in
// batches of batchSize.
func each[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, fn func(T) error) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return cursor.Err()
}
