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

// MongoProductRepository implements ProductRepository using MongoDB
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository
func NewMongoProductRepository(db *mongo.Database) ports.ProductRepository {
	return &MongoProductRepository{
		collection: db.Collection(productsCollection),
	}
}

// List retrieves products matching the filter, newest first
func (r *MongoProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.ActiveOnly {
		query["isActive"] = true
	}
	if filter.Search != "" {
		rx := containsInsensitive(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := pageOptions(filter.Page, filter.Limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}

	return products, total, nil
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var doc entity.MongoProductDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.ToDomain(), nil
}

// GetByID retrieves a product by id
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetBySlug retrieves a product by slug
func (r *MongoProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// GetByStrapiID retrieves a product mirrored from the external catalog
func (r *MongoProductRepository) GetByStrapiID(ctx context.Context, strapiID int64) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"strapiId": strapiID})
}

// Create inserts a new product
func (r *MongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	doc := entity.MongoProductDocFromDomain(product)
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return wrapWriteError("product", "create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return nil
}

// Update replaces an existing product
func (r *MongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	objID, ok := parseObjectID(product.ID)
	if !ok {
		return domain.NotFound("product", product.ID)
	}
	product.UpdatedAt = time.Now()

	doc := entity.MongoProductDocFromDomain(product)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, doc)
	if err != nil {
		return wrapWriteError("product", "update", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("product", product.ID)
	}
	return nil
}

// Delete deletes a product by id
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	objID, ok := parseObjectID(id)
	if !ok {
		return domain.NotFound("product", id)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// UpsertByKey saves a synced product keyed by strapiId, falling back to slug
func (r *MongoProductRepository) UpsertByKey(ctx context.Context, key domain.SyncKey, product *domain.Product) error {
	filter := bson.M{"slug": key.Fallback}
	if key.StrapiID != nil {
		filter = bson.M{"strapiId": *key.StrapiID}
	}

	now := time.Now()
	product.UpdatedAt = now
	fields, err := setFields(entity.MongoProductDocFromDomain(product), "_id", "createdAt")
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}

	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return wrapWriteError("product", "upsert", err)
	}
	return nil
}

// DeleteSyncedExcept removes synced products whose strapiId is not in keep
func (r *MongoProductRepository) DeleteSyncedExcept(ctx context.Context, keep []int64) (int64, error) {
	if keep == nil {
		keep = []int64{}
	}
	filter := bson.M{"strapiId": bson.M{"$exists": true, "$ne": nil, "$nin": keep}}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale products: %w", err)
	}
	return res.DeletedCount, nil
}
