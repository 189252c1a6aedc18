package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

const maxOrderNumberAttempts = 3

// OrderService owns order persistence after checkout. Orders are never
// deleted; only status, payment status and notification bookkeeping change.
type OrderService struct {
	orders   ports.OrderRepository
	settings *SettingsService
	notifier *NotificationService
	events   ports.OrderEventPublisher
	now      func() time.Time
	logger   zerolog.Logger
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(
	orders ports.OrderRepository,
	settings *SettingsService,
	notifier *NotificationService,
	events ports.OrderEventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		settings: settings,
		notifier: notifier,
		events:   events,
		now:      time.Now,
		logger:   logger.With().Str("component", "orders").Logger(),
	}
}

// CheckoutInput is the cart and contact data submitted at checkout
type CheckoutInput struct {
	Items           []domain.OrderItem   `json:"items" validate:"required,min=1,dive"`
	Customer        domain.Customer      `json:"customer"`
	ShippingAddress domain.Address       `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	Notes           string               `json:"notes" validate:"max=1000"`

	// RazorpayOrderID is set by PaymentService after signature
	// verification, never decoded from clients.
	RazorpayOrderID string `json:"-"`
}

// OrderNotifications reports the emails attempted for an order. A nil entry
// means the email was not attempted.
type OrderNotifications struct {
	Customer *NotificationResult `json:"customer,omitempty"`
	Admin    *NotificationResult `json:"admin,omitempty"`
}

// PlacedOrder is the response to a checkout
type PlacedOrder struct {
	Order         *domain.Order      `json:"order"`
	Notifications OrderNotifications `json:"notifications"`
}

func validateCheckout(in *CheckoutInput) error {
	fields := map[string][]string{}
	add := func(k, msg string) { fields[k] = append(fields[k], msg) }

	if len(in.Items) == 0 {
		add("items", "At least one item is required")
	}
	for i, it := range in.Items {
		key := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.Name) == "" {
			add(key+".name", "Name is required")
		}
		if it.Quantity < 1 {
			add(key+".quantity", "Quantity must be at least 1")
		}
		if it.Price < 0 {
			add(key+".price", "Price must not be negative")
		}
	}

	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	if in.Customer.Name == "" {
		add("customer.name", "Name is required")
	}
	if in.Customer.Email == "" || !strings.Contains(in.Customer.Email, "@") {
		add("customer.email", "A valid email is required")
	}
	if in.Customer.Phone == "" {
		add("customer.phone", "Phone is required")
	}

	a := in.ShippingAddress
	for k, v := range map[string]string{
		"shippingAddress.line1":      a.Line1,
		"shippingAddress.city":       a.City,
		"shippingAddress.state":      a.State,
		"shippingAddress.postalCode": a.PostalCode,
	} {
		if strings.TrimSpace(v) == "" {
			add(k, "Required")
		}
	}

	if len(fields) > 0 {
		return domain.InvalidFields(fields)
	}
	return nil
}

// newOrder builds an unsaved order with server-side pricing.
func (s *OrderService) newOrder(ctx context.Context, claims *domain.Claims, in CheckoutInput) (*domain.Order, error) {
	if err := validateCheckout(&in); err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	addr := in.ShippingAddress
	if addr.FullName == "" {
		addr.FullName = in.Customer.Name
	}
	if addr.Phone == "" {
		addr.Phone = in.Customer.Phone
	}
	addr.IsDefault = false

	o := &domain.Order{
		Items:           in.Items,
		Customer:        in.Customer,
		ShippingAddress: addr,
		Pricing:         domain.ComputePricing(in.Items, settings),
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		Status:          domain.OrderPending,
		RazorpayOrderID: in.RazorpayOrderID,
		Notes:           strings.TrimSpace(in.Notes),
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = domain.PaymentMethodCOD
	}
	if !o.PaymentMethod.Valid() {
		return nil, domain.InvalidFields(map[string][]string{"paymentMethod": {"Unknown payment method"}})
	}
	if claims != nil {
		o.UserID = claims.UserID
	}
	return o, nil
}

// place assigns an order number, persists, publishes and notifies. Only the
// persistence step can fail the call.
func (s *OrderService) place(ctx context.Context, o *domain.Order) (*PlacedOrder, error) {
	var err error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		o.OrderNumber = domain.NewOrderNumber(s.now())
		if err = s.orders.Create(ctx, o); err == nil || !errors.Is(err, domain.ErrConflict) {
			break
		}
		s.logger.Warn().Str("orderNumber", o.OrderNumber).Msg("Order number collision, retrying")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist order")
		return nil, err
	}

	s.logger.Info().
		Str("orderId", o.ID).
		Str("orderNumber", o.OrderNumber).
		Str("paymentMethod", string(o.PaymentMethod)).
		Str("paymentStatus", string(o.PaymentStatus)).
		Float64("total", o.Pricing.Total).
		Msg("Order placed")
	s.publish(domain.OrderCreated, o)

	notes := s.notify(ctx, o, true, true)
	return &PlacedOrder{Order: o, Notifications: notes}, nil
}

// Create places an order that is not paid through the gateway yet, e.g.
// cash on delivery.
func (s *OrderService) Create(ctx context.Context, claims *domain.Claims, in CheckoutInput) (*PlacedOrder, error) {
	if in.PaymentMethod != "" && in.PaymentMethod != domain.PaymentMethodCOD {
		return nil, domain.InvalidFields(map[string][]string{
			"paymentMethod": {"Only cash on delivery orders can be placed directly"},
		})
	}
	in.PaymentMethod = domain.PaymentMethodCOD
	in.RazorpayOrderID = ""

	o, err := s.newOrder(ctx, claims, in)
	if err != nil {
		return nil, err
	}
	return s.place(ctx, o)
}

// notify sends the requested emails independently and records the outcome
// on the order.
func (s *OrderService) notify(ctx context.Context, o *domain.Order, customer, admin bool) OrderNotifications {
	var out OrderNotifications
	if s.notifier == nil || (!customer && !admin) {
		return out
	}

	var errs []string
	if customer {
		res := s.notifier.SendOrderConfirmation(ctx, o)
		out.Customer = &res
		if res.Success {
			o.Notifications.CustomerEmailSent = true
		} else {
			errs = append(errs, "customer: "+res.Error)
		}
	}
	if admin {
		res := s.notifier.SendAdminOrderAlert(ctx, o)
		out.Admin = &res
		if res.Success {
			o.Notifications.AdminEmailSent = true
		} else {
			errs = append(errs, "admin: "+res.Error)
		}
	}

	now := s.now()
	o.Notifications.Attempts++
	o.Notifications.LastAttemptAt = &now
	o.Notifications.LastError = strings.Join(errs, "; ")

	if err := s.orders.UpdateNotifications(ctx, o.ID, o.Notifications); err != nil {
		s.logger.Warn().Err(err).Str("orderId", o.ID).Msg("Failed to record notification outcome")
	}
	return out
}

func (s *OrderService) publish(t domain.OrderEventType, o *domain.Order) {
	if s.events != nil {
		s.events.Publish(domain.NewOrderEvent(t, o))
	}
}

// List returns orders for the admin dashboard
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.Invalid("Invalid status: %s", filter.Status)
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, 0, domain.Invalid("Invalid payment status: %s", filter.PaymentStatus)
	}
	return s.orders.List(ctx, filter)
}

// ListMine returns the caller's own orders
func (s *OrderService) ListMine(ctx context.Context, userID string, page, limit int) ([]*domain.Order, int64, error) {
	if userID == "" {
		return nil, 0, domain.NewError(domain.ErrUnauthorized, "Not authenticated")
	}
	return s.orders.List(ctx, domain.OrderFilter{UserID: userID, Page: page, Limit: limit})
}

// Get returns an order visible to the caller: its owner or an admin.
func (s *OrderService) Get(ctx context.Context, claims *domain.Claims, id string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order", id)
	}
	if claims == nil {
		return nil, domain.NewError(domain.ErrForbidden, "Not allowed to view this order")
	}
	if claims.IsAdmin() {
		return o, nil
	}
	if o.UserID == "" || o.UserID != claims.UserID {
		return nil, domain.NewError(domain.ErrForbidden, "Not allowed to view this order")
	}
	return o, nil
}

// GetByNumber lets guests track an order. The email must match the one used
// at checkout; a mismatch looks like an unknown order.
func (s *OrderService) GetByNumber(ctx context.Context, number, email string) (*domain.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.InvalidFields(map[string][]string{"email": {"Email is required"}})
	}
	o, err := s.orders.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, err
	}
	if o == nil || !strings.EqualFold(o.Customer.Email, email) {
		return nil, domain.NotFound("order", number)
	}
	return o, nil
}

// StatusUpdate is the result of an admin status change
type StatusUpdate struct {
	Order        *domain.Order       `json:"order"`
	Notification *NotificationResult `json:"notification,omitempty"`
}

// UpdateStatus sets any valid status; there is no transition graph. The
// customer is emailed when the status actually changes.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*StatusUpdate, error) {
	if !status.Valid() {
		return nil, domain.InvalidFields(map[string][]string{
			"status": {"Status must be one of pending, confirmed, processing, shipped, delivered, cancelled"},
		})
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order", id)
	}

	previous := o.Status
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = s.now()

	out := &StatusUpdate{Order: o}
	if previous != status {
		s.logger.Info().Str("orderId", id).Str("from", string(previous)).Str("to", string(status)).Msg("Order status changed")
		s.publish(domain.OrderStatusChanged, o)
		if s.notifier != nil {
			res := s.notifier.SendStatusUpdate(ctx, o)
			out.Notification = &res
		}
	}
	return out, nil
}

// UpdatePaymentStatus records a settlement change for an order.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentID string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("Invalid payment status: %s", status)
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order", id)
	}
	return s.applyPaymentStatus(ctx, o, status, paymentID)
}

// MarkPaymentByGatewayOrder applies a gateway payment event to the order
// created for that gateway order. It returns nil, nil when no local order
// exists yet. A failure never overrides a paid or refunded order.
func (s *OrderService) MarkPaymentByGatewayOrder(ctx context.Context, gatewayOrderID, paymentID string, status domain.PaymentStatus) (*domain.Order, error) {
	o, err := s.orders.GetByRazorpayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	if o.PaymentMethod != domain.PaymentMethodRazorpay {
		s.logger.Warn().Str("orderId", o.ID).Str("gatewayOrderId", gatewayOrderID).Msg("Gateway event for a non-gateway order ignored")
		return nil, nil
	}
	if status == domain.PaymentFailed && (o.PaymentStatus == domain.PaymentPaid || o.PaymentStatus == domain.PaymentRefunded) {
		return o, nil
	}
	return s.applyPaymentStatus(ctx, o, status, paymentID)
}

func (s *OrderService) applyPaymentStatus(ctx context.Context, o *domain.Order, status domain.PaymentStatus, paymentID string) (*domain.Order, error) {
	if o.PaymentStatus == status && (paymentID == "" || paymentID == o.RazorpayPaymentID) {
		return o, nil
	}
	if err := s.orders.UpdatePaymentStatus(ctx, o.ID, status, paymentID); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("orderId", o.ID).
		Str("from", string(o.PaymentStatus)).
		Str("to", string(status)).
		Msg("Order payment status changed")
	o.PaymentStatus = status
	if paymentID != "" {
		o.RazorpayPaymentID = paymentID
	}
	o.UpdatedAt = s.now()
	s.publish(domain.OrderPaymentStatusChanged, o)
	return o, nil
}

// ResendNotifications retries the emails that have not gone out yet.
func (s *OrderService) ResendNotifications(ctx context.Context, id string) (*PlacedOrder, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order", id)
	}
	notes := s.notify(ctx, o, !o.Notifications.CustomerEmailSent, !o.Notifications.AdminEmailSent)
	return &PlacedOrder{Order: o, Notifications: notes}, nil
}
