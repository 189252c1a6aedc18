package application

import (
	"context"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

// ContactService stores contact form messages
type ContactService struct {
	repo     ports.ContactRepository
	notifier *NotificationService
	logger   zerolog.Logger
}

// NewContactService creates a new contact service. notifier may be nil.
func NewContactService(repo ports.ContactRepository, notifier *NotificationService, logger zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, notifier: notifier, logger: logger}
}

// ContactInput is the public contact form
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit stores the message and alerts the admin. A failed alert is logged
// and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.Contact, error) {
	c := &domain.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
		Status:  domain.ContactNew,
	}
	fields := map[string][]string{}
	if c.Name == "" {
		fields["name"] = []string{"Name is required"}
	}
	if c.Email == "" {
		fields["email"] = []string{"Email is required"}
	}
	if c.Message == "" {
		fields["message"] = []string{"Message is required"}
	}
	if len(fields) > 0 {
		return nil, domain.InvalidFields(fields)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if res := s.notifier.SendContactAlert(ctx, c); !res.Success {
			s.logger.Warn().Str("contactId", c.ID).Str("error", res.Error).Msg("Contact alert not sent")
		}
	}
	return c, nil
}

// List returns messages, optionally restricted to one status
func (s *ContactService) List(ctx context.Context, status domain.ContactStatus) ([]*domain.Contact, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("Invalid status: %s", status)
	}
	return s.repo.List(ctx, status)
}

func (s *ContactService) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.Contact, error) {
	if !status.Valid() {
		return nil, domain.Invalid("Invalid status: %s", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("contact", id)
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
