package application

import (
	"context"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// DesignService manages the curated design library
type DesignService struct {
	repo   ports.DesignRepository
	logger zerolog.Logger
}

// NewDesignService creates a new design service
func NewDesignService(repo ports.DesignRepository, logger zerolog.Logger) *DesignService {
	return &DesignService{repo: repo, logger: logger}
}

// DesignInput carries admin-editable fields; nil leaves a field unchanged.
type DesignInput struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=200"`
	ImageURL     *string   `json:"imageUrl" validate:"omitempty,url"`
	Category     *string   `json:"category"`
	Tags         *[]string `json:"tags"`
	ApplicableTo *[]string `json:"applicableTo"`
	IsActive     *bool     `json:"isActive"`
}

func (in DesignInput) apply(d *domain.Design) {
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.ImageURL != nil {
		d.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Category != nil {
		d.Category = domain.DesignCategory(strings.ToLower(strings.TrimSpace(*in.Category)))
	}
	if in.Tags != nil {
		d.Tags = *in.Tags
	}
	if in.ApplicableTo != nil {
		d.ApplicableTo = *in.ApplicableTo
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
}

func validateDesign(d *domain.Design) error {
	fields := map[string][]string{}
	if d.Name == "" {
		fields["name"] = append(fields["name"], "Name is required")
	}
	if d.ImageURL == "" {
		fields["imageUrl"] = append(fields["imageUrl"], "Image URL is required")
	}
	if !d.Category.Valid() {
		fields["category"] = append(fields["category"], "Category must be one of graphic, text, pattern, logo, illustration")
	}
	if len(fields) > 0 {
		return domain.InvalidFields(fields)
	}
	return nil
}

// List returns designs matching the filter, newest first
func (s *DesignService) List(ctx context.Context, filter domain.DesignFilter) ([]*domain.Design, error) {
	return s.repo.List(ctx, filter)
}

// Get returns a single design or a not found error
func (s *DesignService) Get(ctx context.Context, id string) (*domain.Design, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("design", id)
	}
	return d, nil
}

func (s *DesignService) Create(ctx context.Context, in DesignInput) (*domain.Design, error) {
	d := &domain.Design{IsActive: true, Tags: []string{}, ApplicableTo: []string{}}
	in.apply(d)
	if err := validateDesign(d); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("designId", d.ID).Str("category", string(d.Category)).Msg("Design created")
	return d, nil
}

func (s *DesignService) Update(ctx context.Context, id string, in DesignInput) (*domain.Design, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(d)
	if err := validateDesign(d); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DesignService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
