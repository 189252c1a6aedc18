package application

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// SettingsService reads and writes the store-wide settings singleton
type SettingsService struct {
	repo   ports.SettingsRepository
	logger zerolog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo ports.SettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// SettingsInput carries the editable fees; nil leaves a value unchanged.
type SettingsInput struct {
	ShippingFee           *float64 `json:"shippingFee" validate:"omitempty,gte=0"`
	CustomizationFee      *float64 `json:"customizationFee" validate:"omitempty,gte=0"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold" validate:"omitempty,gte=0"`
}

// Get returns the settings, creating the defaults on first access
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = domain.DefaultSettings()
	settings.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}
	s.logger.Info().Msg("Created default settings")
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*domain.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	check := func(name string, v *float64, dst *float64) {
		if v == nil {
			return
		}
		if *v < 0 {
			fields[name] = append(fields[name], "Must not be negative")
			return
		}
		*dst = *v
	}
	check("shippingFee", in.ShippingFee, &settings.ShippingFee)
	check("customizationFee", in.CustomizationFee, &settings.CustomizationFee)
	check("freeShippingThreshold", in.FreeShippingThreshold, &settings.FreeShippingThreshold)
	if len(fields) > 0 {
		return nil, domain.InvalidFields(fields)
	}

	settings.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info().
		Float64("shippingFee", settings.ShippingFee).
		Float64("customizationFee", settings.CustomizationFee).
		Float64("freeShippingThreshold", settings.FreeShippingThreshold).
		Msg("Settings updated")
	return settings, nil
}
