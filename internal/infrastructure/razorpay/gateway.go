package razorpay

import (
	"context"
	"fmt"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	rzp "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"
)

// orderCreator is the slice of the SDK the gateway needs.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Gateway creates Razorpay orders.
type Gateway struct {
	keyID  string
	orders orderCreator
	logger zerolog.Logger
}

// NewGateway creates a gateway backed by the Razorpay SDK. It returns
// ErrNotConfigured when either credential is empty.
func NewGateway(keyID, keySecret string, logger zerolog.Logger) (ports.PaymentGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, domain.NewError(domain.ErrNotConfigured, "Payment gateway not configured")
	}
	client := rzp.NewClient(keyID, keySecret)
	return &Gateway{
		keyID:  keyID,
		orders: client.Order,
		logger: logger.With().Str("component", "razorpay").Logger(),
	}, nil
}

func (g *Gateway) KeyID() string { return g.keyID }

// CreateOrder creates a gateway order for amountMinor (paise)
func (g *Gateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*ports.GatewayOrder, error) {
	if amountMinor <= 0 {
		return nil, domain.Invalid("Amount must be greater than zero")
	}
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		n := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			n[k] = v
		}
		data["notes"] = n
	}

	// The SDK has no context support; bail out early if the caller is gone.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.orders.Create(data, nil)
	if err != nil {
		g.logger.Error().Err(err).Str("receipt", receipt).Msg("Failed to create gateway order")
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	order := &ports.GatewayOrder{
		ID:       stringField(body, "id"),
		Amount:   int64Field(body, "amount"),
		Currency: stringField(body, "currency"),
		Receipt:  stringField(body, "receipt"),
		Status:   stringField(body, "status"),
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay returned an order without id")
	}

	g.logger.Info().
		Str("orderId", order.ID).
		Int64("amount", order.Amount).
		Str("receipt", receipt).
		Msg("Gateway order created")
	return order, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
