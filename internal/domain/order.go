package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OrderStatus is the fulfilment status managed by admins.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the fixed order statuses. Any valid
// status may follow any other.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodCOD      PaymentMethod = "cod"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodRazorpay || m == PaymentMethodCOD
}

// Position is an anchor expressed in percent of the base image, 0..100.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Customization is the free-form design placement attached to an item.
type Customization struct {
	DesignID       string   `json:"designId,omitempty"`
	DesignImage    string   `json:"designImage,omitempty"`
	Position       Position `json:"position"`
	Size           int      `json:"size"`
	Text           string   `json:"text,omitempty"`
	PreviewImage   string   `json:"previewImage,omitempty"`
	CompositeImage string   `json:"compositeImage,omitempty"`
}

// OrderItem is an immutable snapshot of a purchased line.
type OrderItem struct {
	ProductID     string         `json:"productId"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug,omitempty"`
	Price         float64        `json:"price"`
	Quantity      int            `json:"quantity"`
	Size          string         `json:"size,omitempty"`
	Color         string         `json:"color,omitempty"`
	Image         string         `json:"image,omitempty"`
	Customization *Customization `json:"customization,omitempty"`
}

// Customer is the contact captured at checkout.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Pricing is the computed breakdown stored with the order.
type Pricing struct {
	Subtotal         float64 `json:"subtotal"`
	CustomizationFee float64 `json:"customizationFee"`
	Shipping         float64 `json:"shipping"`
	Total            float64 `json:"total"`
}

// NotificationLog records which emails went out for an order.
type NotificationLog struct {
	CustomerEmailSent bool       `json:"customerEmailSent"`
	AdminEmailSent    bool       `json:"adminEmailSent"`
	Attempts          int        `json:"attempts"`
	LastAttemptAt     *time.Time `json:"lastAttemptAt,omitempty"`
	LastError         string     `json:"lastError,omitempty"`
}

// Order is created once at checkout and afterwards only changes status,
// payment status or notification bookkeeping. Orders are never deleted.
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	UserID            string          `json:"userId,omitempty"`
	Items             []OrderItem     `json:"items"`
	Customer          Customer        `json:"customer"`
	ShippingAddress   Address         `json:"shippingAddress"`
	Pricing           Pricing         `json:"pricing"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	Status            OrderStatus     `json:"status"`
	RazorpayOrderID   string          `json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string          `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string          `json:"razorpaySignature,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Notifications     NotificationLog `json:"notifications"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	UserID        string
	Page          int
	Limit         int
}

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns a human-readable number such as ORD-20261016-K7Q2XM.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			n = big.NewInt(now.UnixNano() % max.Int64())
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}
