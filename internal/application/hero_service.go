package application

import (
	"context"
	"fmt"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// HeroService manages homepage banners. At most one banner is active: saving
// an active banner first clears the flag on all others, and a unique partial
// index rejects a concurrent second activation.
type HeroService struct {
	repo   ports.HeroRepository
	logger zerolog.Logger
}

// NewHeroService creates a new hero service
func NewHeroService(repo ports.HeroRepository, logger zerolog.Logger) *HeroService {
	return &HeroService{repo: repo, logger: logger}
}

// HeroInput carries admin-editable fields; nil leaves a field unchanged.
type HeroInput struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Subtitle *string `json:"subtitle" validate:"omitempty,max=500"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	CTAText  *string `json:"ctaText" validate:"omitempty,max=80"`
	CTALink  *string `json:"ctaLink"`
	Active   *bool   `json:"active"`
}

func (in HeroInput) apply(h *domain.Hero) {
	if in.Title != nil {
		h.Title = *in.Title
	}
	if in.Subtitle != nil {
		h.Subtitle = *in.Subtitle
	}
	if in.ImageURL != nil {
		h.ImageURL = *in.ImageURL
	}
	if in.CTAText != nil {
		h.CTAText = *in.CTAText
	}
	if in.CTALink != nil {
		h.CTALink = *in.CTALink
	}
	if in.Active != nil {
		h.Active = *in.Active
	}
}

// GetActive returns the active banner or a not found error
func (s *HeroService) GetActive(ctx context.Context) (*domain.Hero, error) {
	h, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.NewError(domain.ErrNotFound, "No active hero")
	}
	return h, nil
}

func (s *HeroService) List(ctx context.Context) ([]*domain.Hero, error) {
	return s.repo.List(ctx)
}

func (s *HeroService) Create(ctx context.Context, in HeroInput) (*domain.Hero, error) {
	h := &domain.Hero{}
	in.apply(h)
	if h.ImageURL == "" {
		return nil, domain.InvalidFields(map[string][]string{"imageUrl": {"Image URL is required"}})
	}

	if h.Active {
		// no id yet: clear every banner
		if err := s.repo.DeactivateAllExcept(ctx, ""); err != nil {
			return nil, fmt.Errorf("failed to deactivate heroes: %w", err)
		}
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	s.logger.Info().Str("heroId", h.ID).Bool("active", h.Active).Msg("Hero created")
	return h, nil
}

func (s *HeroService) Update(ctx context.Context, id string, in HeroInput) (*domain.Hero, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.NotFound("hero", id)
	}
	in.apply(h)

	if h.Active {
		if err := s.repo.DeactivateAllExcept(ctx, h.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate heroes: %w", err)
		}
	}
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HeroService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
