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

// mongoAccountRepository implements the repository.AccountRepository interface using MongoDB.
// The document key is the normalized email.
type mongoAccountRepository struct {
	collection *mongo.Collection
}

func NewMongoAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &mongoAccountRepository{
		collection: db.Collection(accountCollectionName),
	}
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	account.Email = domain.NormalizeEmail(account.Email)
	if account.Email == "" {
		return errors.New("account email is required")
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, account); err != nil {
		return insertErr(err)
	}
	return nil
}

func (r *mongoAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	filter := bson.M{"_id": domain.NormalizeEmail(email)}
	if err := r.collection.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (r *mongoAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[domain.Account](ctx, r.collection, bson.M{}, findOptions)
}

// Update writes the editable fields. The password hash is only written when set.
func (r *mongoAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	set := bson.M{
		"displayName": account.DisplayName,
		"photoURL":    account.PhotoURL,
		"isAdmin":     account.IsAdmin,
		"isActive":    account.IsActive,
	}
	if account.PasswordHash != "" {
		set["passwordHash"] = account.PasswordHash
	}
	return updateSet(ctx, r.collection, domain.NormalizeEmail(account.Email), set)
}

func (r *mongoAccountRepository) Delete(ctx context.Context, email string) error {
	return deleteOne(ctx, r.collection, domain.NormalizeEmail(email))
}

func (r *mongoAccountRepository) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	return updateSet(ctx, r.collection, domain.NormalizeEmail(email), bson.M{"lastLoginAt": at.UTC()})
}

// EnsureAccountIndexes creates necessary indexes for the users collection.
func EnsureAccountIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "isAdmin", Value: 1}},
		Options: options.Index(),
	})
	return err
}
