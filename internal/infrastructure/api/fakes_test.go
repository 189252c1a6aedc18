package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"storefront-api/internal/domain"
)

type memProducts struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{items: map[string]*domain.Product{}}
}

func (m *memProducts) List(_ context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, p := range m.items {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memProducts) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetByStrapiID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.StrapiID != nil && *p.StrapiID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Slug == p.Slug {
			return domain.NewError(domain.ErrConflict, "product slug already exists: %s", p.Slug)
		}
	}
	m.seq++
	p.ID = fmt.Sprintf("%024x", m.seq)
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return domain.NotFound("product", p.ID)
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.NotFound("product", id)
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) UpsertByKey(context.Context, domain.SyncKey, *domain.Product) error {
	return fmt.Errorf("not supported")
}

func (m *memProducts) DeleteSyncedExcept(context.Context, []int64) (int64, error) {
	return 0, fmt.Errorf("not supported")
}

// memOrders only keeps what the payment routes touch.
type memOrders struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = fmt.Sprintf("%024x", len(m.orders)+1)
	m.orders = append(m.orders, o)
	return nil
}

func (m *memOrders) find(match func(*domain.Order) bool) *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if match(o) {
			return o
		}
	}
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	return m.find(func(o *domain.Order) bool { return o.ID == id }), nil
}

func (m *memOrders) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	return m.find(func(o *domain.Order) bool { return o.OrderNumber == number }), nil
}

func (m *memOrders) GetByRazorpayOrderID(_ context.Context, id string) (*domain.Order, error) {
	return m.find(func(o *domain.Order) bool { return o.RazorpayOrderID == id }), nil
}

func (m *memOrders) List(context.Context, domain.OrderFilter) ([]*domain.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders, int64(len(m.orders)), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o := m.find(func(o *domain.Order) bool { return o.ID == id })
	if o == nil {
		return domain.NotFound("order", id)
	}
	o.Status = status
	return nil
}

func (m *memOrders) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus, paymentID string) error {
	o := m.find(func(o *domain.Order) bool { return o.ID == id })
	if o == nil {
		return domain.NotFound("order", id)
	}
	o.PaymentStatus = status
	if paymentID != "" {
		o.RazorpayPaymentID = paymentID
	}
	return nil
}

func (m *memOrders) UpdateNotifications(_ context.Context, id string, log domain.NotificationLog) error {
	o := m.find(func(o *domain.Order) bool { return o.ID == id })
	if o == nil {
		return domain.NotFound("order", id)
	}
	o.Notifications = log
	return nil
}

func (m *memOrders) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.orders)), nil
}

type memSettings struct {
	settings *domain.Settings
}

func (m *memSettings) Get(context.Context) (*domain.Settings, error) { return m.settings, nil }

func (m *memSettings) Save(_ context.Context, s *domain.Settings) error {
	m.settings = s
	return nil
}
