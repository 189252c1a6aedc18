package repository

import (
	"context"
	"fmt"
	"regexp"

	"storefront-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	productsCollection = "products"
	featuredCollection = "featureds"
	designsCollection  = "designs"
	heroesCollection   = "heroes"
	settingsCollection = "settings"
	contactsCollection = "contacts"
	usersCollection    = "users"
	ordersCollection   = "orders"
)

// EnsureIndexes creates the uniqueness constraints the application relies on.
// It is safe to call on every boot.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	sparseUnique := options.Index().SetUnique(true).SetSparse(true)

	indexes := map[string][]mongo.IndexModel{
		productsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "strapiId", Value: 1}}, Options: sparseUnique},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}}},
		},
		featuredCollection: {
			{Keys: bson.D{{Key: "strapiId", Value: 1}}, Options: sparseUnique},
			{
				Keys: bson.D{{Key: "primaryImage", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"primaryImage": bson.M{"$gt": ""}}),
			},
		},
		heroesCollection: {
			{
				Keys: bson.D{{Key: "active", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "razorpayOrderId", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		contactsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// parseObjectID converts a hex id. ok is false for malformed ids, which the
// callers treat as "not found".
func parseObjectID(id string) (primitive.ObjectID, bool) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return objID, true
}

// wrapWriteError turns duplicate key violations into conflicts.
func wrapWriteError(entity string, op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.NewError(domain.ErrConflict, "%s already exists", entity)
	}
	return fmt.Errorf("failed to %s %s: %w", op, entity, err)
}

// setFields marshals doc and drops the keys that must not be overwritten by
// an upsert's $set stage.
func setFields(doc interface{}, drop ...string) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for _, k := range drop {
		delete(m, k)
	}
	return m, nil
}

// pageOptions applies 1-based page/limit with sane bounds.
func pageOptions(page, limit int) *options.FindOptions {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
}

func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
