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
)

// MongoOrderRepository implements OrderRepository using MongoDB
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoDB order repository
func NewMongoOrderRepository(db *mongo.Database) ports.OrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection(ordersCollection),
	}
}

// Create inserts a new order
func (r *MongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, entity.MongoOrderDocFromDomain(order))
	if err != nil {
		return wrapWriteError("order", "create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return nil
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var doc entity.MongoOrderDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.ToDomain(), nil
}

// GetByID retrieves an order by id
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetByNumber retrieves an order by its human-readable number
func (r *MongoOrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.findOne(ctx, bson.M{"orderNumber": number})
}

// GetByRazorpayOrderID retrieves the order created for a gateway order
func (r *MongoOrderRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*domain.Order, error) {
	return r.findOne(ctx, bson.M{"razorpayOrderId": razorpayOrderID})
}

// List retrieves orders matching the filter, newest first
func (r *MongoOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.PaymentStatus != "" {
		query["paymentStatus"] = string(filter.PaymentStatus)
	}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := pageOptions(filter.Page, filter.Limit).SetSort(newestFirst)
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	for cursor.Next(ctx) {
		var doc entity.MongoOrderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus sets the fulfilment status
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return updateFields(ctx, r.collection, "order", id, bson.M{"status": string(status)})
}

// UpdatePaymentStatus sets the payment status and, when given, the gateway payment id
func (r *MongoOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentID string) error {
	fields := bson.M{"paymentStatus": string(status)}
	if paymentID != "" {
		fields["razorpayPaymentId"] = paymentID
	}
	return updateFields(ctx, r.collection, "order", id, fields)
}

// UpdateNotifications stores email bookkeeping
func (r *MongoOrderRepository) UpdateNotifications(ctx context.Context, id string, log domain.NotificationLog) error {
	return updateFields(ctx, r.collection, "order", id, bson.M{
		"notifications": entity.NotificationDocFromDomain(log),
	})
}

// Count returns the number of stored orders
func (r *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
