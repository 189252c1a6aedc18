package webhook_handlers

import (
	"context"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
)

// PaymentFailedHandler records failed payment attempts
type PaymentFailedHandler struct {
	orders PaymentStatusUpdater
	logger zerolog.Logger
}

func NewPaymentFailedHandler(orders PaymentStatusUpdater, logger zerolog.Logger) *PaymentFailedHandler {
	return &PaymentFailedHandler{orders: orders, logger: logger}
}

func (h *PaymentFailedHandler) CanHandle(topic string) bool {
	return topic == "payment.failed"
}

func (h *PaymentFailedHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	orderID, paymentID, _, err := references(event)
	if err != nil {
		return err
	}
	if orderID == "" {
		return nil
	}

	order, err := h.orders.MarkPaymentByGatewayOrder(ctx, orderID, paymentID, domain.PaymentFailed)
	if err != nil {
		return err
	}
	if order != nil {
		h.logger.Warn().
			Str("orderNumber", order.OrderNumber).
			Str("paymentStatus", string(order.PaymentStatus)).
			Str("paymentId", paymentID).
			Msg("Payment failed")
	}
	return nil
}
