package mail

import (
	"context"
	"fmt"

	"storefront-api/internal/ports"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers email through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a Resend-backed mailer
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Name() string { return "resend" }

func (s *ResendSender) Send(ctx context.Context, email *ports.Email) error {
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
	}
	if email.ReplyTo != "" {
		req.ReplyTo = email.ReplyTo
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}
