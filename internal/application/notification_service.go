package application

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(
	template.New("email").
		Funcs(template.FuncMap{"money": formatMoney}).
		ParseFS(templateFS, "templates/*.html"),
)

func formatMoney(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

const (
	NotifyOrderConfirmation = "order_confirmation"
	NotifyAdminOrder        = "admin_order"
	NotifyStatusUpdate      = "status_update"
	NotifyContactAlert      = "contact_alert"
)

// NotificationResult reports the outcome of one email. Sends never return an
// error; failures are described here instead.
type NotificationResult struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NotificationService renders and sends transactional email through the
// sender chosen at boot.
type NotificationService struct {
	mailer      ports.Mailer
	adminEmail  string
	frontendURL string
	metrics     ports.Metrics
	logger      zerolog.Logger
}

// NewNotificationService creates a notification service. mailer may be nil,
// in which case every send reports success:false.
func NewNotificationService(mailer ports.Mailer, adminEmail, frontendURL string, metrics ports.Metrics, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		mailer:      mailer,
		adminEmail:  strings.TrimSpace(adminEmail),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		metrics:     metricsOrNop(metrics),
		logger:      logger.With().Str("component", "notifications").Logger(),
	}
}

// Provider names the active sender, or "none".
func (s *NotificationService) Provider() string {
	if s.mailer == nil {
		return "none"
	}
	return s.mailer.Name()
}

func (s *NotificationService) orderURL(o *domain.Order) string {
	if s.frontendURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/orders/%s?email=%s", s.frontendURL, o.OrderNumber, template.URLQueryEscaper(o.Customer.Email))
}

// SendOrderConfirmation emails the customer a receipt
func (s *NotificationService) SendOrderConfirmation(ctx context.Context, o *domain.Order) NotificationResult {
	data := map[string]interface{}{"Order": o, "OrderURL": s.orderURL(o)}
	return s.send(ctx, NotifyOrderConfirmation, o.Customer.Email,
		fmt.Sprintf("Order confirmed: %s", o.OrderNumber), "", data)
}

// SendAdminOrderAlert tells the store admin about a new order
func (s *NotificationService) SendAdminOrderAlert(ctx context.Context, o *domain.Order) NotificationResult {
	data := map[string]interface{}{"Order": o}
	return s.send(ctx, NotifyAdminOrder, s.adminEmail,
		fmt.Sprintf("New order %s (%s)", o.OrderNumber, formatMoney(o.Pricing.Total)), o.Customer.Email, data)
}

// SendStatusUpdate tells the customer their order moved to a new status
func (s *NotificationService) SendStatusUpdate(ctx context.Context, o *domain.Order) NotificationResult {
	data := map[string]interface{}{"Order": o, "OrderURL": s.orderURL(o)}
	return s.send(ctx, NotifyStatusUpdate, o.Customer.Email,
		fmt.Sprintf("Order %s is %s", o.OrderNumber, o.Status), "", data)
}

// SendContactAlert forwards a contact form message to the admin
func (s *NotificationService) SendContactAlert(ctx context.Context, c *domain.Contact) NotificationResult {
	subject := "New contact message"
	if c.Subject != "" {
		subject = "Contact: " + c.Subject
	}
	data := map[string]interface{}{"Contact": c}
	return s.send(ctx, NotifyContactAlert, s.adminEmail, subject, c.Email, data)
}

func (s *NotificationService) send(ctx context.Context, kind, to, subject, replyTo string, data interface{}) NotificationResult {
	if s.mailer == nil {
		s.metrics.Notification(kind, "none", false)
		return NotificationResult{Success: false, Provider: "none", Error: "email is not configured"}
	}
	provider := s.mailer.Name()
	if strings.TrimSpace(to) == "" {
		s.metrics.Notification(kind, provider, false)
		return NotificationResult{Success: false, Provider: provider, Error: "no recipient address"}
	}

	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, kind, data); err != nil {
		s.logger.Error().Err(err).Str("kind", kind).Msg("Failed to render email")
		s.metrics.Notification(kind, provider, false)
		return NotificationResult{Success: false, Provider: provider, Error: fmt.Sprintf("failed to render email: %v", err)}
	}

	err := s.mailer.Send(ctx, &ports.Email{
		To:      []string{to},
		Subject: subject,
		HTML:    body.String(),
		ReplyTo: replyTo,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Str("provider", provider).Msg("Email not sent")
		s.metrics.Notification(kind, provider, false)
		return NotificationResult{Success: false, Provider: provider, Error: err.Error()}
	}

	s.logger.Info().Str("kind", kind).Str("provider", provider).Msg("Email sent")
	s.metrics.Notification(kind, provider, true)
	return NotificationResult{Success: true, Provider: provider}
}
