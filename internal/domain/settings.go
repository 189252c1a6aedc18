package domain

import "time"

// Settings is the store-wide singleton.
type Settings struct {
	ShippingFee           float64   `json:"shippingFee"`
	CustomizationFee      float64   `json:"customizationFee"`
	FreeShippingThreshold float64   `json:"freeShippingThreshold"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// DefaultSettings is what a fresh store starts with.
func DefaultSettings() *Settings {
	return &Settings{
		ShippingFee:      50,
		CustomizationFee: 100,
	}
}
