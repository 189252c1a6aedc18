package entity

import (
	"testing"
	"time"

	"storefront-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoUserDocFromDomain_AssignsAddressIDs(t *testing.T) {
	u := &domain.User{
		Name:      "Asha",
		Email:     "asha@example.com",
		Role:      domain.RoleUser,
		Addresses: []domain.Address{{FullName: "Asha", City: "Pune", IsDefault: true}},
	}

	doc := MongoUserDocFromDomain(u)
	require.Len(t, doc.Addresses, 1)
	assert.False(t, doc.Addresses[0].ID.IsZero())
	assert.True(t, doc.ID.IsZero(), "new users get their id from the driver")

	back := doc.ToDomain()
	assert.Equal(t, doc.Addresses[0].ID.Hex(), back.Addresses[0].ID)
	assert.True(t, back.Addresses[0].IsDefault)
}

func TestMongoOrderDoc_KeepsCustomization(t *testing.T) {
	now := time.Now().UTC()
	o := &domain.Order{
		OrderNumber: "ORD-20261016-ABCDEF",
		Items: []domain.OrderItem{{
			Name:     "Tee",
			Price:    499,
			Quantity: 1,
			Customization: &domain.Customization{
				DesignImage: "https://cdn/d.png",
				Position:    domain.Position{X: 40, Y: 55},
				Size:        150,
			},
		}},
		Customer:      domain.Customer{Name: "A", Email: "a@example.com"},
		Pricing:       domain.Pricing{Subtotal: 499, Total: 549, Shipping: 50},
		PaymentStatus: domain.PaymentPaid,
		Status:        domain.OrderPending,
		CreatedAt:     now,
	}

	back := MongoOrderDocFromDomain(o).ToDomain()
	require.NotNil(t, back.Items[0].Customization)
	assert.Equal(t, domain.Position{X: 40, Y: 55}, back.Items[0].Customization.Position)
	assert.Equal(t, 150, back.Items[0].Customization.Size)
	assert.Equal(t, o.Pricing, back.Pricing)
	assert.Equal(t, domain.PaymentPaid, back.PaymentStatus)
}

func TestObjectIDFromHex_Malformed(t *testing.T) {
	assert.True(t, objectIDFromHex("not-hex").IsZero())
	assert.True(t, objectIDFromHex("").IsZero())
}
