package domain

import "time"

// DesignCategory enumerates the kinds of curated artwork.
type DesignCategory string

const (
	DesignGraphic      DesignCategory = "graphic"
	DesignText         DesignCategory = "text"
	DesignPattern      DesignCategory = "pattern"
	DesignLogo         DesignCategory = "logo"
	DesignIllustration DesignCategory = "illustration"
)

var designCategories = map[DesignCategory]bool{
	DesignGraphic:      true,
	DesignText:         true,
	DesignPattern:      true,
	DesignLogo:         true,
	DesignIllustration: true,
}

// Valid reports whether c is a known design category.
func (c DesignCategory) Valid() bool { return designCategories[c] }

// Design is an admin-curated graphic customers can place on products.
type Design struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ImageURL     string         `json:"imageUrl"`
	Category     DesignCategory `json:"category"`
	Tags         []string       `json:"tags"`
	ApplicableTo []string       `json:"applicableTo"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// DesignFilter narrows design listings.
type DesignFilter struct {
	Category     DesignCategory
	ApplicableTo string
	ActiveOnly   bool
}
