package domain

import "time"

// Hero is the homepage banner. At most one is expected to be active.
type Hero struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	ImageURL  string    `json:"imageUrl"`
	CTAText   string    `json:"ctaText"`
	CTALink   string    `json:"ctaLink"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
