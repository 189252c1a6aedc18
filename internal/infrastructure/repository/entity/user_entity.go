package entity

import (
	"time"

	"storefront-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoAddressDoc is an address embedded in a user document
type MongoAddressDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	Label      string             `bson:"label,omitempty"`
	FullName   string             `bson:"fullName"`
	Phone      string             `bson:"phone"`
	Line1      string             `bson:"line1"`
	Line2      string             `bson:"line2,omitempty"`
	City       string             `bson:"city"`
	State      string             `bson:"state"`
	PostalCode string             `bson:"postalCode"`
	Country    string             `bson:"country"`
	IsDefault  bool               `bson:"isDefault"`
}

// MongoUserDoc represents a user in MongoDB
type MongoUserDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Phone     string             `bson:"phone,omitempty"`
	Role      string             `bson:"role"`
	Addresses []MongoAddressDoc  `bson:"addresses"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func addressToDomain(a MongoAddressDoc) domain.Address {
	return domain.Address{
		ID:         hexOrEmpty(a.ID),
		Label:      a.Label,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

func addressFromDomain(a domain.Address) MongoAddressDoc {
	id := objectIDFromHex(a.ID)
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	return MongoAddressDoc{
		ID:         id,
		Label:      a.Label,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoUserDoc) ToDomain() *domain.User {
	addresses := make([]domain.Address, 0, len(d.Addresses))
	for _, a := range d.Addresses {
		addresses = append(addresses, addressToDomain(a))
	}
	return &domain.User{
		ID:           hexOrEmpty(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Phone:        d.Phone,
		Role:         domain.Role(d.Role),
		Addresses:    addresses,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoUserDocFromDomain converts a domain entity to a MongoDB document.
// Addresses without an id receive a fresh one.
func MongoUserDocFromDomain(u *domain.User) *MongoUserDoc {
	addresses := make([]MongoAddressDoc, 0, len(u.Addresses))
	for _, a := range u.Addresses {
		addresses = append(addresses, addressFromDomain(a))
	}
	return &MongoUserDoc{
		ID:        objectIDFromHex(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Addresses: addresses,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
