package application

import (
	"context"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// FeaturedService manages homepage featured items
type FeaturedService struct {
	repo   ports.FeaturedRepository
	logger zerolog.Logger
}

// NewFeaturedService creates a new featured service
func NewFeaturedService(repo ports.FeaturedRepository, logger zerolog.Logger) *FeaturedService {
	return &FeaturedService{repo: repo, logger: logger}
}

// FeaturedInput carries admin-editable fields; nil leaves a field unchanged.
type FeaturedInput struct {
	Title     *string   `json:"title" validate:"omitempty,max=200"`
	Images    *[]string `json:"images" validate:"omitempty,dive,url"`
	Link      *string   `json:"link"`
	Active    *bool     `json:"active"`
	SortOrder *int      `json:"sortOrder"`
}

func (in FeaturedInput) apply(f *domain.Featured) {
	if in.Title != nil {
		f.Title = *in.Title
	}
	if in.Images != nil {
		f.Images = *in.Images
	}
	if in.Link != nil {
		f.Link = *in.Link
	}
	if in.Active != nil {
		f.Active = *in.Active
	}
	if in.SortOrder != nil {
		f.SortOrder = *in.SortOrder
	}
	f.Normalize()
}

func (s *FeaturedService) List(ctx context.Context, activeOnly bool) ([]*domain.Featured, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *FeaturedService) Create(ctx context.Context, in FeaturedInput) (*domain.Featured, error) {
	f := &domain.Featured{Active: true, Images: []string{}}
	in.apply(f)
	if len(f.Images) == 0 {
		return nil, domain.InvalidFields(map[string][]string{"images": {"At least one image is required"}})
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info().Str("featuredId", f.ID).Msg("Featured item created")
	return f, nil
}

func (s *FeaturedService) Update(ctx context.Context, id string, in FeaturedInput) (*domain.Featured, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NotFound("featured item", id)
	}
	in.apply(f)
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeaturedService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
