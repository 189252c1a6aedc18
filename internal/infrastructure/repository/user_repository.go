package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/infrastructure/repository/entity"
	"storefront-api/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) ports.UserRepository {
	return &MongoUserRepository{
		collection: db.Collection(usersCollection),
	}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	doc := entity.MongoUserDocFromDomain(user)
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.NewError(domain.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	user.Addresses = doc.ToDomain().Addresses
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc entity.MongoUserDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.ToDomain(), nil
}

// GetByID retrieves a user by id
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// Update replaces the user document. New addresses get their ids here, and
// the ids are copied back onto user.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	objID, ok := parseObjectID(user.ID)
	if !ok {
		return domain.NotFound("user", user.ID)
	}
	user.UpdatedAt = time.Now()

	doc := entity.MongoUserDocFromDomain(user)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, doc)
	if err != nil {
		return wrapWriteError("user", "update", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("user", user.ID)
	}
	user.Addresses = doc.ToDomain().Addresses
	return nil
}
