package webhook_handlers

import (
	"context"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
)

// PaymentCapturedHandler marks orders paid when the gateway settles them
type PaymentCapturedHandler struct {
	orders PaymentStatusUpdater
	logger zerolog.Logger
}

// NewPaymentCapturedHandler creates a new captured-payment webhook handler
func NewPaymentCapturedHandler(orders PaymentStatusUpdater, logger zerolog.Logger) *PaymentCapturedHandler {
	return &PaymentCapturedHandler{orders: orders, logger: logger}
}

// CanHandle returns true if this handler can process the given topic
func (h *PaymentCapturedHandler) CanHandle(topic string) bool {
	return topic == "payment.captured" || topic == "order.paid"
}

// Handle processes a captured payment or paid order event
func (h *PaymentCapturedHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	orderID, paymentID, _, err := references(event)
	if err != nil {
		return err
	}
	if orderID == "" {
		h.logger.Warn().Str("topic", event.Topic).Str("eventId", event.ID).Msg("Webhook without gateway order id")
		return nil
	}

	order, err := h.orders.MarkPaymentByGatewayOrder(ctx, orderID, paymentID, domain.PaymentPaid)
	if err != nil {
		return err
	}
	if order == nil {
		// the order is created at client verification, which may come later
		h.logger.Info().Str("topic", event.Topic).Str("gatewayOrderId", orderID).Msg("No local order for captured payment yet")
		return nil
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("orderNumber", order.OrderNumber).
		Str("paymentId", paymentID).
		Msg("Order payment captured")
	return nil
}
