package application

import (
	"context"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// ProfileService edits the caller's own account and saved addresses. Every
// change rewrites the single user document, so the one-default-address rule
// holds per write.
type ProfileService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(users ports.UserRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// ProfileInput carries editable account fields; nil leaves a field unchanged.
type ProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=120"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

// AddressInput is a full address as submitted by the client
type AddressInput struct {
	Label      string `json:"label" validate:"max=40"`
	FullName   string `json:"fullName" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"required,max=32"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"max=100"`
	IsDefault  bool   `json:"isDefault"`
}

func (in AddressInput) toAddress(id string) domain.Address {
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = "India"
	}
	return domain.Address{
		ID:         id,
		Label:      strings.TrimSpace(in.Label),
		FullName:   strings.TrimSpace(in.FullName),
		Phone:      strings.TrimSpace(in.Phone),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    country,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user", userID)
	}
	return user, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidFields(map[string][]string{"name": {"Name is required"}})
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AddAddress appends an address. The first address, or one flagged default,
// becomes the only default.
func (s *ProfileService) AddAddress(ctx context.Context, userID string, in AddressInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	addr := in.toAddress("")
	if in.IsDefault || len(user.Addresses) == 0 {
		for i := range user.Addresses {
			user.Addresses[i].IsDefault = false
		}
		addr.IsDefault = true
	}
	user.Addresses = append(user.Addresses, addr)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAddress replaces the fields of a saved address. isDefault=false never
// clears the current default.
func (s *ProfileService) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := user.FindAddress(addressID)
	if idx < 0 {
		return nil, domain.NotFound("address", addressID)
	}
	updated := in.toAddress(addressID)
	updated.IsDefault = user.Addresses[idx].IsDefault
	user.Addresses[idx] = updated
	if in.IsDefault {
		user.SetDefaultAddress(addressID)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAddress removes an address and promotes another if the default went.
func (s *ProfileService) DeleteAddress(ctx context.Context, userID, addressID string) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := user.FindAddress(addressID)
	if idx < 0 {
		return nil, domain.NotFound("address", addressID)
	}
	user.Addresses = append(user.Addresses[:idx], user.Addresses[idx+1:]...)
	user.EnsureDefaultAddress()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) SetDefaultAddress(ctx context.Context, userID, addressID string) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.SetDefaultAddress(addressID) {
		return nil, domain.NotFound("address", addressID)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
