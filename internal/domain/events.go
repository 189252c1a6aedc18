package domain

import (
	"encoding/json"
	"time"
)

// WebhookEvent is a verified inbound gateway notification.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// OrderEventType names what happened to an order.
type OrderEventType string

const (
	OrderCreated              OrderEventType = "order.created"
	OrderStatusChanged        OrderEventType = "order.status_changed"
	OrderPaymentStatusChanged OrderEventType = "order.payment_status_changed"
)

// OrderEvent is published to admin subscribers whenever an order changes.
type OrderEvent struct {
	Type          OrderEventType `json:"type"`
	OrderID       string         `json:"orderId"`
	OrderNumber   string         `json:"orderNumber"`
	Status        OrderStatus    `json:"status"`
	PaymentStatus PaymentStatus  `json:"paymentStatus"`
	Total         float64        `json:"total"`
	At            time.Time      `json:"at"`
}

// NewOrderEvent snapshots an order into an event.
func NewOrderEvent(t OrderEventType, o *Order) *OrderEvent {
	return &OrderEvent{
		Type:          t,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Pricing.Total,
		At:            time.Now(),
	}
}
