package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-api/internal/domain"
)

// PaymentStatusUpdater applies a gateway payment event to the local order
// created for that gateway order. It returns nil, nil when none exists.
type PaymentStatusUpdater interface {
	MarkPaymentByGatewayOrder(ctx context.Context, gatewayOrderID, paymentID string, status domain.PaymentStatus) (*domain.Order, error)
}

type entityWrapper[T any] struct {
	Entity T `json:"entity"`
}

type paymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
	Method  string `json:"method"`
	Email   string `json:"email"`
}

type orderEntity struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type refundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
}

type gatewayPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *entityWrapper[paymentEntity] `json:"payment"`
		Order   *entityWrapper[orderEntity]   `json:"order"`
		Refund  *entityWrapper[refundEntity]  `json:"refund"`
	} `json:"payload"`
}

// references extracts the gateway order and payment ids from an event body.
func references(event *domain.WebhookEvent) (orderID, paymentID string, p *gatewayPayload, err error) {
	p = &gatewayPayload{}
	if err := json.Unmarshal(event.Payload, p); err != nil {
		return "", "", nil, fmt.Errorf("failed to parse %s webhook payload: %w", event.Topic, err)
	}
	if pay := p.Payload.Payment; pay != nil {
		orderID = pay.Entity.OrderID
		paymentID = pay.Entity.ID
	}
	if ord := p.Payload.Order; ord != nil && orderID == "" {
		orderID = ord.Entity.ID
	}
	if ref := p.Payload.Refund; ref != nil && paymentID == "" {
		paymentID = ref.Entity.PaymentID
	}
	return orderID, paymentID, p, nil
}
