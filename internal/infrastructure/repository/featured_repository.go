package repository

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/infrastructure/repository/entity"
	"storefront-api/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFeaturedRepository implements FeaturedRepository using MongoDB
type MongoFeaturedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeaturedRepository creates a new MongoDB featured repository
func NewMongoFeaturedRepository(db *mongo.Database) ports.FeaturedRepository {
	return &MongoFeaturedRepository{
		collection: db.Collection(featuredCollection),
	}
}

// List retrieves featured items ordered by sortOrder, then newest
func (r *MongoFeaturedRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Featured, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entity.MongoFeaturedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode featured items: %w", err)
	}

	items := make([]*domain.Featured, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].ToDomain())
	}
	return items, nil
}

// GetByID retrieves a featured item by id
func (r *MongoFeaturedRepository) GetByID(ctx context.Context, id string) (*domain.Featured, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}

	var doc entity.MongoFeaturedDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get featured item: %w", err)
	}
	return doc.ToDomain(), nil
}

// Create inserts a new featured item
func (r *MongoFeaturedRepository) Create(ctx context.Context, item *domain.Featured) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, entity.MongoFeaturedDocFromDomain(item))
	if err != nil {
		return wrapWriteError("featured item", "create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return nil
}

// Update replaces an existing featured item
func (r *MongoFeaturedRepository) Update(ctx context.Context, item *domain.Featured) error {
	objID, ok := parseObjectID(item.ID)
	if !ok {
		return domain.NotFound("featured item", item.ID)
	}
	item.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, entity.MongoFeaturedDocFromDomain(item))
	if err != nil {
		return wrapWriteError("featured item", "update", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("featured item", item.ID)
	}
	return nil
}

// Delete deletes a featured item by id
func (r *MongoFeaturedRepository) Delete(ctx context.Context, id string) error {
	objID, ok := parseObjectID(id)
	if !ok {
		return domain.NotFound("featured item", id)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete featured item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("featured item", id)
	}
	return nil
}

// UpsertByKey saves a synced featured item keyed by strapiId, falling back
// to the primary image
func (r *MongoFeaturedRepository) UpsertByKey(ctx context.Context, key domain.SyncKey, item *domain.Featured) error {
	filter := bson.M{"primaryImage": key.Fallback}
	if key.StrapiID != nil {
		filter = bson.M{"strapiId": *key.StrapiID}
	}

	now := time.Now()
	item.UpdatedAt = now
	fields, err := setFields(entity.MongoFeaturedDocFromDomain(item), "_id", "createdAt")
	if err != nil {
		return fmt.Errorf("failed to encode featured item: %w", err)
	}

	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return wrapWriteError("featured item", "upsert", err)
	}
	return nil
}

// DeleteSyncedExcept removes synced featured items whose strapiId is not in keep
func (r *MongoFeaturedRepository) DeleteSyncedExcept(ctx context.Context, keep []int64) (int64, error) {
	if keep == nil {
		keep = []int64{}
	}
	filter := bson.M{"strapiId": bson.M{"$exists": true, "$ne": nil, "$nin": keep}}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale featured items: %w", err)
	}
	return res.DeletedCount, nil
}
