package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

const (
	webhookDedupeTTL     = 24 * time.Hour
	defaultCompositeSize = 150
)

// Webhook outcomes
const (
	WebhookProcessed = "processed"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
)

// PaymentService drives gateway checkout: create the gateway order, verify
// the client-side signature, then persist and notify.
type PaymentService struct {
	gateway    ports.PaymentGateway
	verifier   ports.PaymentVerifier
	orders     *OrderService
	compositor ports.ImageCompositor
	deduper    ports.EventDeduper
	dispatcher *WebhookDispatcher
	currency   string
	metrics    ports.Metrics
	logger     zerolog.Logger
}

// NewPaymentService creates a payment service. gateway and compositor may be
// nil when not configured.
func NewPaymentService(
	gateway ports.PaymentGateway,
	verifier ports.PaymentVerifier,
	orders *OrderService,
	compositor ports.ImageCompositor,
	deduper ports.EventDeduper,
	dispatcher *WebhookDispatcher,
	currency string,
	metrics ports.Metrics,
	logger zerolog.Logger,
) *PaymentService {
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		gateway:    gateway,
		verifier:   verifier,
		orders:     orders,
		compositor: compositor,
		deduper:    deduper,
		dispatcher: dispatcher,
		currency:   currency,
		metrics:    metricsOrNop(metrics),
		logger:     logger.With().Str("component", "payments").Logger(),
	}
}

// CreateGatewayOrderInput is the amount to collect, in major units
type CreateGatewayOrderInput struct {
	Amount   float64           `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"omitempty,len=3"`
	Receipt  string            `json:"receipt" validate:"max=40"`
	Notes    map[string]string `json:"notes"`
}

// GatewayOrderResult is what the client needs to open the checkout widget
type GatewayOrderResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	KeyID    string `json:"keyId"`
}

// CreateGatewayOrder creates the provider-side order for a positive amount.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, in CreateGatewayOrderInput) (*GatewayOrderResult, error) {
	if s.gateway == nil {
		return nil, domain.NewError(domain.ErrNotConfigured, "Payment gateway is not configured")
	}
	if in.Amount <= 0 {
		return nil, domain.InvalidFields(map[string][]string{"amount": {"Amount must be greater than zero"}})
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.currency
	}
	receipt := in.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("rcpt_%d", time.Now().UnixNano())
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, domain.ToMinorUnits(in.Amount), currency, receipt, in.Notes)
	if err != nil {
		s.logger.Error().Err(err).Float64("amount", in.Amount).Msg("Failed to create gateway order")
		return nil, err
	}
	s.logger.Info().Str("gatewayOrderId", gwOrder.ID).Int64("amount", gwOrder.Amount).Msg("Gateway order created")

	return &GatewayOrderResult{
		OrderID:  gwOrder.ID,
		Amount:   gwOrder.Amount,
		Currency: gwOrder.Currency,
		Receipt:  gwOrder.Receipt,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPaymentInput is posted by the client after the checkout widget closes
type VerifyPaymentInput struct {
	RazorpayOrderID   string        `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string        `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string        `json:"razorpay_signature" validate:"required"`
	Order             CheckoutInput `json:"orderData"`
}

// VerifyAndPlaceOrder checks the payment signature and persists a paid
// order. A bad signature persists nothing. Composite and email failures do
// not fail the call.
func (s *PaymentService) VerifyAndPlaceOrder(ctx context.Context, claims *domain.Claims, in VerifyPaymentInput) (*PlacedOrder, error) {
	if in.RazorpayOrderID == "" || in.RazorpayPaymentID == "" || in.RazorpaySignature == "" {
		return nil, domain.Invalid("Missing payment verification fields")
	}

	if err := s.verifier.VerifyPayment(in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature); err != nil {
		s.metrics.Payment("rejected")
		s.logger.Warn().Err(err).Str("gatewayOrderId", in.RazorpayOrderID).Msg("Payment verification failed")
		return nil, err
	}
	s.metrics.Payment("verified")

	// a retried verify must not create a second order
	existing, err := s.orders.orders.GetByRazorpayOrderID(ctx, in.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.PaymentMethod == domain.PaymentMethodRazorpay {
		s.logger.Info().Str("orderNumber", existing.OrderNumber).Msg("Order already placed for gateway order")
		return &PlacedOrder{Order: existing}, nil
	}

	checkout := in.Order
	checkout.PaymentMethod = domain.PaymentMethodRazorpay
	checkout.RazorpayOrderID = in.RazorpayOrderID
	o, err := s.orders.newOrder(ctx, claims, checkout)
	if err != nil {
		return nil, err
	}
	o.RazorpayPaymentID = in.RazorpayPaymentID
	o.RazorpaySignature = in.RazorpaySignature
	o.PaymentStatus = domain.PaymentPaid
	o.Status = domain.OrderConfirmed

	s.compositeItems(ctx, in.RazorpayPaymentID, o.Items)

	return s.orders.place(ctx, o)
}

// compositeItems renders a merged preview for each customized item. Any
// failure keeps whatever image the item already had.
func (s *PaymentService) compositeItems(ctx context.Context, ref string, items []domain.OrderItem) {
	if s.compositor == nil {
		return
	}
	for i := range items {
		c := items[i].Customization
		if c == nil || c.DesignImage == "" {
			continue
		}
		base := items[i].Image
		if base == "" {
			continue
		}
		size := c.Size
		if size <= 0 {
			size = defaultCompositeSize
		}
		url, err := s.compositor.Composite(ctx, ports.CompositeRequest{
			BaseImage:    base,
			OverlayImage: c.DesignImage,
			Position:     c.Position,
			Size:         size,
			OutputName:   fmt.Sprintf("%s-%d", ref, i),
		})
		if err != nil {
			s.logger.Warn().Err(err).Int("item", i).Msg("Composite failed, keeping original image")
			continue
		}
		c.CompositeImage = url
	}
}

type gatewayWebhookEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// HandleGatewayWebhook verifies the raw body signature, drops deliveries
// seen in the last 24h and dispatches the event. Unknown events are
// acknowledged.
func (s *PaymentService) HandleGatewayWebhook(ctx context.Context, body []byte, signature, eventID string) (string, error) {
	if err := s.verifier.VerifyWebhook(body, signature); err != nil {
		s.metrics.Webhook("razorpay", "unknown", "rejected")
		return "", err
	}

	var env gatewayWebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.metrics.Webhook("razorpay", "unknown", "invalid")
		return "", domain.Invalid("Invalid webhook payload")
	}
	if eventID == "" {
		sum := sha256.Sum256(body)
		eventID = hex.EncodeToString(sum[:])
	}

	dedupeKey := "razorpay:" + eventID
	if s.deduper != nil {
		first, err := s.deduper.FirstSeen(ctx, dedupeKey, webhookDedupeTTL)
		if err != nil {
			// prefer a possible double delivery over dropping the event
			s.logger.Warn().Err(err).Str("eventId", eventID).Msg("Webhook dedupe check failed")
		} else if !first {
			s.metrics.Webhook("razorpay", env.Event, WebhookDuplicate)
			s.logger.Info().Str("eventId", eventID).Str("event", env.Event).Msg("Duplicate webhook ignored")
			return WebhookDuplicate, nil
		}
	}

	event := &domain.WebhookEvent{
		ID:         eventID,
		Topic:      env.Event,
		Payload:    json.RawMessage(body),
		ReceivedAt: time.Now(),
	}

	handled := false
	if s.dispatcher != nil {
		var err error
		handled, err = s.dispatcher.Dispatch(ctx, event)
		if err != nil {
			s.metrics.Webhook("razorpay", env.Event, "error")
			if s.deduper != nil {
				// let the gateway retry
				if ferr := s.deduper.Forget(context.WithoutCancel(ctx), dedupeKey); ferr != nil {
					s.logger.Warn().Err(ferr).Str("eventId", eventID).Msg("Failed to release webhook id")
				}
			}
			s.logger.Error().Err(err).Str("eventId", eventID).Str("event", env.Event).Msg("Webhook handling failed")
			return "", err
		}
	}

	outcome := WebhookIgnored
	if handled {
		outcome = WebhookProcessed
	}
	s.metrics.Webhook("razorpay", env.Event, outcome)
	return outcome, nil
}
