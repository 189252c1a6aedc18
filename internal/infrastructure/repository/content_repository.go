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

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// MongoDesignRepository implements DesignRepository using MongoDB
type MongoDesignRepository struct {
	collection *mongo.Collection
}

// NewMongoDesignRepository creates a new MongoDB design repository
func NewMongoDesignRepository(db *mongo.Database) ports.DesignRepository {
	return &MongoDesignRepository{collection: db.Collection(designsCollection)}
}

func (r *MongoDesignRepository) List(ctx context.Context, filter domain.DesignFilter) ([]*domain.Design, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.ApplicableTo != "" {
		query["applicableTo"] = filter.ApplicableTo
	}
	if filter.ActiveOnly {
		query["isActive"] = true
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entity.MongoDesignDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode designs: %w", err)
	}
	designs := make([]*domain.Design, 0, len(docs))
	for i := range docs {
		designs = append(designs, docs[i].ToDomain())
	}
	return designs, nil
}

func (r *MongoDesignRepository) GetByID(ctx context.Context, id string) (*domain.Design, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	var doc entity.MongoDesignDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design: %w", err)
	}
	return doc.ToDomain(), nil
}

func (r *MongoDesignRepository) Create(ctx context.Context, design *domain.Design) error {
	now := time.Now()
	design.CreatedAt = now
	design.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, entity.MongoDesignDocFromDomain(design))
	if err != nil {
		return wrapWriteError("design", "create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		design.ID = oid.Hex()
	}
	return nil
}

func (r *MongoDesignRepository) Update(ctx context.Context, design *domain.Design) error {
	objID, ok := parseObjectID(design.ID)
	if !ok {
		return domain.NotFound("design", design.ID)
	}
	design.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, entity.MongoDesignDocFromDomain(design))
	if err != nil {
		return wrapWriteError("design", "update", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("design", design.ID)
	}
	return nil
}

func (r *MongoDesignRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, "design", id)
}

// MongoHeroRepository implements HeroRepository using MongoDB
type MongoHeroRepository struct {
	collection *mongo.Collection
}

// NewMongoHeroRepository creates a new MongoDB hero repository
func NewMongoHeroRepository(db *mongo.Database) ports.HeroRepository {
	return &MongoHeroRepository{collection: db.Collection(heroesCollection)}
}

func (r *MongoHeroRepository) List(ctx context.Context) ([]*domain.Hero, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list heroes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entity.MongoHeroDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode heroes: %w", err)
	}
	heroes := make([]*domain.Hero, 0, len(docs))
	for i := range docs {
		heroes = append(heroes, docs[i].ToDomain())
	}
	return heroes, nil
}

// GetActive returns the most recently updated active hero, or nil
func (r *MongoHeroRepository) GetActive(ctx context.Context) (*domain.Hero, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.findOne(ctx, bson.M{"active": true}, opts)
}

func (r *MongoHeroRepository) GetByID(ctx context.Context, id string) (*domain.Hero, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoHeroRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Hero, error) {
	var doc entity.MongoHeroDoc
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hero: %w", err)
	}
	return doc.ToDomain(), nil
}

func (r *MongoHeroRepository) Create(ctx context.Context, hero *domain.Hero) error {
	now := time.Now()
	hero.CreatedAt = now
	hero.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, entity.MongoHeroDocFromDomain(hero))
	if err != nil {
		return wrapWriteError("hero", "create", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		hero.ID = oid.Hex()
	}
	return nil
}

func (r *MongoHeroRepository) Update(ctx context.Context, hero *domain.Hero) error {
	objID, ok := parseObjectID(hero.ID)
	if !ok {
		return domain.NotFound("hero", hero.ID)
	}
	hero.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objID}, entity.MongoHeroDocFromDomain(hero))
	if err != nil {
		return wrapWriteError("hero", "update", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("hero", hero.ID)
	}
	return nil
}

func (r *MongoHeroRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, "hero", id)
}

// DeactivateAllExcept clears the active flag on every hero but id
func (r *MongoHeroRepository) DeactivateAllExcept(ctx context.Context, id string) error {
	filter := bson.M{"active": true}
	if objID, ok := parseObjectID(id); ok {
		filter["_id"] = bson.M{"$ne": objID}
	}
	update := bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}}
	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to deactivate heroes: %w", err)
	}
	return nil
}

// MongoSettingsRepository stores the settings singleton
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoDB settings repository
func NewMongoSettingsRepository(db *mongo.Database) ports.SettingsRepository {
	return &MongoSettingsRepository{collection: db.Collection(settingsCollection)}
}

func (r *MongoSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var doc entity.MongoSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": entity.SettingsSingletonKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return doc.ToDomain(), nil
}

// Save upserts the singleton document
func (r *MongoSettingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	settings.UpdatedAt = time.Now()
	doc := entity.MongoSettingsDocFromDomain(settings)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// MongoContactRepository implements ContactRepository using MongoDB
type MongoContactRepository struct {
	collection *mongo.Collection
}

// NewMongoContactRepository creates a new MongoDB contact repository
func NewMongoContactRepository(db *mongo.Database) ports.ContactRepository {
	return &MongoContactRepository{collection: db.Collection(contactsCollection)}
}

func (r *MongoContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, entity.MongoContactDocFromDomain(contact))
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contact.ID = oid.Hex()
	}
	return nil
}

func (r *MongoContactRepository) List(ctx context.Context, status domain.ContactStatus) ([]*domain.Contact, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []entity.MongoContactDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	contacts := make([]*domain.Contact, 0, len(docs))
	for i := range docs {
		contacts = append(contacts, docs[i].ToDomain())
	}
	return contacts, nil
}

func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	objID, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	var doc entity.MongoContactDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return doc.ToDomain(), nil
}

func (r *MongoContactRepository) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	return updateFields(ctx, r.collection, "contact", id, bson.M{"status": string(status)})
}

func (r *MongoContactRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, "contact", id)
}

func deleteByID(ctx context.Context, collection *mongo.Collection, entityName, id string) error {
	objID, ok := parseObjectID(id)
	if !ok {
		return domain.NotFound(entityName, id)
	}
	res, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", entityName, err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound(entityName, id)
	}
	return nil
}

// updateFields applies a $set to one document and bumps updatedAt.
func updateFields(ctx context.Context, collection *mongo.Collection, entityName, id string, fields bson.M) error {
	objID, ok := parseObjectID(id)
	if !ok {
		return domain.NotFound(entityName, id)
	}
	fields["updatedAt"] = time.Now()
	res, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", entityName, err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound(entityName, id)
	}
	return nil
}
