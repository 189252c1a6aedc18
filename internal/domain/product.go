package domain

import (
	"regexp"
	"strings"
	"time"
)

// Product is a sellable catalog entry. Slug is its public identity; StrapiID
// is set only for records mirrored from the external catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Category    string    `json:"category,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	StrapiID    *int64    `json:"strapiId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter narrows product listings. Zero values mean "any".
type ProductFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
	Page       int
	Limit      int
}

// Featured is a homepage showcase entry.
type Featured struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Images       []string  `json:"images"`
	PrimaryImage string    `json:"primaryImage"`
	Link         string    `json:"link,omitempty"`
	Active       bool      `json:"active"`
	SortOrder    int       `json:"sortOrder"`
	StrapiID     *int64    `json:"strapiId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Normalize keeps PrimaryImage in step with the first image.
func (f *Featured) Normalize() {
	if len(f.Images) > 0 {
		f.PrimaryImage = f.Images[0]
	} else {
		f.PrimaryImage = ""
	}
}

// SyncKey is the fallback key used when reconciling externally sourced
// records: the external id when present, else the local secondary key.
type SyncKey struct {
	StrapiID *int64
	Fallback string
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a well-formed slug.
func ValidSlug(s string) bool { return slugPattern.MatchString(s) }
