package entity

import (
	"time"

	"storefront-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoProductDoc represents a product in MongoDB
type MongoProductDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Images      []string           `bson:"images"`
	Category    string             `bson:"category,omitempty"`
	Sizes       []string           `bson:"sizes,omitempty"`
	Colors      []string           `bson:"colors,omitempty"`
	Stock       int                `bson:"stock"`
	IsActive    bool               `bson:"isActive"`
	StrapiID    *int64             `bson:"strapiId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoProductDoc) ToDomain() *domain.Product {
	return &domain.Product{
		ID:          hexOrEmpty(d.ID),
		Name:        d.Name,
		Slug:        d.Slug,
		Price:       d.Price,
		Description: d.Description,
		Images:      nonNil(d.Images),
		Category:    d.Category,
		Sizes:       d.Sizes,
		Colors:      d.Colors,
		Stock:       d.Stock,
		IsActive:    d.IsActive,
		StrapiID:    d.StrapiID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoProductDocFromDomain converts a domain entity to a MongoDB document
func MongoProductDocFromDomain(p *domain.Product) *MongoProductDoc {
	return &MongoProductDoc{
		ID:          objectIDFromHex(p.ID),
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price,
		Description: p.Description,
		Images:      nonNil(p.Images),
		Category:    p.Category,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		StrapiID:    p.StrapiID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// MongoFeaturedDoc represents a featured item in MongoDB
type MongoFeaturedDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Images       []string           `bson:"images"`
	PrimaryImage string             `bson:"primaryImage"`
	Link         string             `bson:"link,omitempty"`
	Active       bool               `bson:"active"`
	SortOrder    int                `bson:"sortOrder"`
	StrapiID     *int64             `bson:"strapiId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoFeaturedDoc) ToDomain() *domain.Featured {
	return &domain.Featured{
		ID:           hexOrEmpty(d.ID),
		Title:        d.Title,
		Images:       nonNil(d.Images),
		PrimaryImage: d.PrimaryImage,
		Link:         d.Link,
		Active:       d.Active,
		SortOrder:    d.SortOrder,
		StrapiID:     d.StrapiID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoFeaturedDocFromDomain converts a domain entity to a MongoDB document
func MongoFeaturedDocFromDomain(f *domain.Featured) *MongoFeaturedDoc {
	return &MongoFeaturedDoc{
		ID:           objectIDFromHex(f.ID),
		Title:        f.Title,
		Images:       nonNil(f.Images),
		PrimaryImage: f.PrimaryImage,
		Link:         f.Link,
		Active:       f.Active,
		SortOrder:    f.SortOrder,
		StrapiID:     f.StrapiID,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
