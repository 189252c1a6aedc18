package application

import (
	"context"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// ProductService manages the local product catalog
type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new product service
func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// ProductInput carries admin-editable product fields. Nil fields are left
// unchanged on update.
type ProductInput struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Slug        *string   `json:"slug" validate:"omitempty,slug"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Category    *string   `json:"category"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool     `json:"isActive"`
}

func (in ProductInput) apply(p *domain.Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Sizes != nil {
		p.Sizes = *in.Sizes
	}
	if in.Colors != nil {
		p.Colors = *in.Colors
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// List returns a page of products and the total match count
func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	return s.repo.List(ctx, filter)
}

// Get resolves a product by id, falling back to slug
func (s *ProductService) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if isObjectID(idOrSlug) {
		p, err := s.repo.GetByID(ctx, idOrSlug)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	p, err := s.repo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product", idOrSlug)
	}
	return p, nil
}

// Create adds a product. The slug defaults to the slugified name.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{IsActive: true, Images: []string{}}
	in.apply(p)

	if p.Slug == "" {
		p.Slug = domain.Slugify(p.Name)
	}
	if err := validateProduct(p, in.Price != nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("productId", p.ID).Str("slug", p.Slug).Msg("Product created")
	return p, nil
}

// Update applies a partial update
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product", id)
	}

	in.apply(p)
	if err := validateProduct(p, true); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("productId", p.ID).Msg("Product updated")
	return p, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("productId", id).Msg("Product deleted")
	return nil
}

func validateProduct(p *domain.Product, hasPrice bool) error {
	fields := map[string][]string{}
	if p.Name == "" {
		fields["name"] = append(fields["name"], "Name is required")
	}
	if !domain.ValidSlug(p.Slug) {
		fields["slug"] = append(fields["slug"], "Slug must be lowercase letters, digits and dashes")
	}
	if !hasPrice {
		fields["price"] = append(fields["price"], "Price is required")
	} else if p.Price < 0 {
		fields["price"] = append(fields["price"], "Price must not be negative")
	}
	if len(fields) > 0 {
		return domain.InvalidFields(fields)
	}
	return nil
}

func isObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
