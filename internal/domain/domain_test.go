package domain

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePricing(t *testing.T) {
	settings := &Settings{ShippingFee: 50, CustomizationFee: 100}
	items := []OrderItem{
		{Name: "Tee", Price: 499, Quantity: 2},
		{Name: "Hoodie", Price: 999.5, Quantity: 1, Customization: &Customization{Size: 120}},
	}

	p := ComputePricing(items, settings)
	assert.Equal(t, 1997.5, p.Subtotal)
	assert.Equal(t, 100.0, p.CustomizationFee)
	assert.Equal(t, 50.0, p.Shipping)
	assert.Equal(t, 2147.5, p.Total)
}

func TestComputePricing_FreeShippingThreshold(t *testing.T) {
	settings := &Settings{ShippingFee: 50, FreeShippingThreshold: 1000}

	below := ComputePricing([]OrderItem{{Price: 999.99, Quantity: 1}}, settings)
	assert.Equal(t, 50.0, below.Shipping)

	at := ComputePricing([]OrderItem{{Price: 500, Quantity: 2}}, settings)
	assert.Equal(t, 0.0, at.Shipping)
	assert.Equal(t, 1000.0, at.Total)
}

func TestComputePricing_NoItemsNoShipping(t *testing.T) {
	p := ComputePricing(nil, nil)
	assert.Equal(t, Pricing{}, p)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(49900), ToMinorUnits(499))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(10), ToMinorUnits(0.1))
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("returned").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	n := NewOrderNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20261016-[A-Z2-9]{6}$`), n)
	assert.NotEqual(t, n, NewOrderNumber(now))
}

func TestSetDefaultAddress_KeepsSingleDefault(t *testing.T) {
	u := &User{Addresses: []Address{
		{ID: "a", IsDefault: true},
		{ID: "b"},
		{ID: "c"},
	}}

	require.True(t, u.SetDefaultAddress("c"))
	defaults := 0
	for _, a := range u.Addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, "c", a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	assert.False(t, u.SetDefaultAddress("missing"))
	assert.True(t, u.Addresses[2].IsDefault)
}

func TestEnsureDefaultAddress(t *testing.T) {
	u := &User{Addresses: []Address{{ID: "a"}, {ID: "b"}}}
	u.EnsureDefaultAddress()
	assert.True(t, u.Addresses[0].IsDefault)
	assert.False(t, u.Addresses[1].IsDefault)
}

func TestFeaturedNormalize(t *testing.T) {
	f := &Featured{Images: []string{"https://cdn/x.png", "https://cdn/y.png"}}
	f.Normalize()
	assert.Equal(t, "https://cdn/x.png", f.PrimaryImage)

	f.Images = nil
	f.Normalize()
	assert.Empty(t, f.PrimaryImage)
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("product", "tee")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "product not found: tee", err.Error())

	v := InvalidFields(map[string][]string{"name": {"required"}})
	assert.True(t, errors.Is(v, ErrValidation))
	assert.Equal(t, "Validation error", v.Error())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world-2", Slugify("  Hello, World! 2 "))
	assert.Equal(t, "", Slugify("!!!"))
	assert.True(t, ValidSlug("classic-tee"))
	assert.False(t, ValidSlug("Classic Tee"))
	assert.False(t, ValidSlug("tee-"))
}
