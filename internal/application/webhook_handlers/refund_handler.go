package webhook_handlers

import (
	"context"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
)

// RefundHandler marks orders refunded. Refund events carry the payment
// entity, which links back to the gateway order.
type RefundHandler struct {
	orders PaymentStatusUpdater
	logger zerolog.Logger
}

func NewRefundHandler(orders PaymentStatusUpdater, logger zerolog.Logger) *RefundHandler {
	return &RefundHandler{orders: orders, logger: logger}
}

func (h *RefundHandler) CanHandle(topic string) bool {
	return topic == "refund.processed"
}

func (h *RefundHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	orderID, paymentID, p, err := references(event)
	if err != nil {
		return err
	}
	if orderID == "" {
		h.logger.Warn().Str("eventId", event.ID).Msg("Refund webhook without gateway order id")
		return nil
	}

	order, err := h.orders.MarkPaymentByGatewayOrder(ctx, orderID, paymentID, domain.PaymentRefunded)
	if err != nil {
		return err
	}
	if order != nil {
		var amount int64
		if p.Payload.Refund != nil {
			amount = p.Payload.Refund.Entity.Amount
		}
		h.logger.Info().
			Str("orderNumber", order.OrderNumber).
			Int64("refundAmount", amount).
			Msg("Order refunded")
	}
	return nil
}
