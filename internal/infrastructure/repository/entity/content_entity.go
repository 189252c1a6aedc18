package entity

import (
	"time"

	"storefront-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoDesignDoc represents a design in MongoDB
type MongoDesignDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	ImageURL     string             `bson:"imageUrl"`
	Category     string             `bson:"category"`
	Tags         []string           `bson:"tags"`
	ApplicableTo []string           `bson:"applicableTo"`
	IsActive     bool               `bson:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *MongoDesignDoc) ToDomain() *domain.Design {
	return &domain.Design{
		ID:           hexOrEmpty(d.ID),
		Name:         d.Name,
		ImageURL:     d.ImageURL,
		Category:     domain.DesignCategory(d.Category),
		Tags:         nonNil(d.Tags),
		ApplicableTo: nonNil(d.ApplicableTo),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func MongoDesignDocFromDomain(d *domain.Design) *MongoDesignDoc {
	return &MongoDesignDoc{
		ID:           objectIDFromHex(d.ID),
		Name:         d.Name,
		ImageURL:     d.ImageURL,
		Category:     string(d.Category),
		Tags:         nonNil(d.Tags),
		ApplicableTo: nonNil(d.ApplicableTo),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoHeroDoc represents a hero banner in MongoDB
type MongoHeroDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Subtitle  string             `bson:"subtitle"`
	ImageURL  string             `bson:"imageUrl"`
	CTAText   string             `bson:"ctaText"`
	CTALink   string             `bson:"ctaLink"`
	Active    bool               `bson:"active"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *MongoHeroDoc) ToDomain() *domain.Hero {
	return &domain.Hero{
		ID:        hexOrEmpty(d.ID),
		Title:     d.Title,
		Subtitle:  d.Subtitle,
		ImageURL:  d.ImageURL,
		CTAText:   d.CTAText,
		CTALink:   d.CTALink,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func MongoHeroDocFromDomain(h *domain.Hero) *MongoHeroDoc {
	return &MongoHeroDoc{
		ID:        objectIDFromHex(h.ID),
		Title:     h.Title,
		Subtitle:  h.Subtitle,
		ImageURL:  h.ImageURL,
		CTAText:   h.CTAText,
		CTALink:   h.CTALink,
		Active:    h.Active,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

// SettingsSingletonKey is the fixed _id of the settings document.
const SettingsSingletonKey = "global"

// MongoSettingsDoc represents the settings singleton in MongoDB
type MongoSettingsDoc struct {
	Key                   string    `bson:"_id"`
	ShippingFee           float64   `bson:"shippingFee"`
	CustomizationFee      float64   `bson:"customizationFee"`
	FreeShippingThreshold float64   `bson:"freeShippingThreshold"`
	UpdatedAt             time.Time `bson:"updatedAt"`
}

func (d *MongoSettingsDoc) ToDomain() *domain.Settings {
	return &domain.Settings{
		ShippingFee:           d.ShippingFee,
		CustomizationFee:      d.CustomizationFee,
		FreeShippingThreshold: d.FreeShippingThreshold,
		UpdatedAt:             d.UpdatedAt,
	}
}

func MongoSettingsDocFromDomain(s *domain.Settings) *MongoSettingsDoc {
	return &MongoSettingsDoc{
		Key:                   SettingsSingletonKey,
		ShippingFee:           s.ShippingFee,
		CustomizationFee:      s.CustomizationFee,
		FreeShippingThreshold: s.FreeShippingThreshold,
		UpdatedAt:             s.UpdatedAt,
	}
}

// MongoContactDoc represents a contact message in MongoDB
type MongoContactDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *MongoContactDoc) ToDomain() *domain.Contact {
	return &domain.Contact{
		ID:        hexOrEmpty(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Subject:   d.Subject,
		Message:   d.Message,
		Status:    domain.ContactStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func MongoContactDocFromDomain(c *domain.Contact) *MongoContactDoc {
	return &MongoContactDoc{
		ID:        objectIDFromHex(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
