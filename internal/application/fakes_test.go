package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"
)

// In-memory fakes of the ports used by service tests.

type fakeProductRepo struct {
	mu       sync.Mutex
	seq      int
	items    map[string]*domain.Product
	failSlug string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]*domain.Product{}}
}

func (r *fakeProductRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("%024x", r.seq)
}

func (r *fakeProductRepo) List(_ context.Context, f domain.ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Product
	for _, p := range r.items {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) find(match func(*domain.Product) bool) *domain.Product {
	for _, p := range r.items {
		if match(p) {
			return p
		}
	}
	return nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.find(func(p *domain.Product) bool { return p.Slug == slug }); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByStrapiID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.find(func(p *domain.Product) bool { return p.StrapiID != nil && *p.StrapiID == id }); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(func(o *domain.Product) bool { return o.Slug == p.Slug }) != nil {
		return domain.NewError(domain.ErrConflict, "product already exists")
	}
	p.ID = r.nextID()
	p.CreatedAt = time.Now()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return domain.NotFound("product", p.ID)
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("product", id)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeProductRepo) UpsertByKey(_ context.Context, key domain.SyncKey, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSlug != "" && p.Slug == r.failSlug {
		return errors.New("write rejected")
	}
	var existing *domain.Product
	if key.StrapiID != nil {
		existing = r.find(func(o *domain.Product) bool { return o.StrapiID != nil && *o.StrapiID == *key.StrapiID })
	} else {
		existing = r.find(func(o *domain.Product) bool { return o.Slug == key.Fallback })
	}
	cp := *p
	if existing != nil {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.ID = r.nextID()
	}
	r.items[cp.ID] = &cp
	return nil
}

func (r *fakeProductRepo) DeleteSyncedExcept(_ context.Context, keep []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := map[int64]bool{}
	for _, id := range keep {
		kept[id] = true
	}
	var n int64
	for id, p := range r.items {
		if p.StrapiID != nil && !kept[*p.StrapiID] {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

type fakeFeaturedRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Featured
}

func newFakeFeaturedRepo() *fakeFeaturedRepo {
	return &fakeFeaturedRepo{items: map[string]*domain.Featured{}}
}

func (r *fakeFeaturedRepo) List(_ context.Context, activeOnly bool) ([]*domain.Featured, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Featured
	for _, f := range r.items {
		if activeOnly && !f.Active {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeFeaturedRepo) GetByID(_ context.Context, id string) (*domain.Featured, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.items[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeFeaturedRepo) Create(_ context.Context, f *domain.Featured) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	f.ID = fmt.Sprintf("f%d", r.seq)
	cp := *f
	r.items[f.ID] = &cp
	return nil
}

func (r *fakeFeaturedRepo) Update(_ context.Context, f *domain.Featured) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[f.ID]; !ok {
		return domain.NotFound("featured item", f.ID)
	}
	cp := *f
	r.items[f.ID] = &cp
	return nil
}

func (r *fakeFeaturedRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeFeaturedRepo) UpsertByKey(_ context.Context, key domain.SyncKey, f *domain.Featured) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.items {
		if (key.StrapiID != nil && o.StrapiID != nil && *o.StrapiID == *key.StrapiID) ||
			(key.StrapiID == nil && o.PrimaryImage == key.Fallback) {
			cp := *f
			cp.ID = id
			r.items[id] = &cp
			return nil
		}
	}
	r.seq++
	cp := *f
	cp.ID = fmt.Sprintf("f%d", r.seq)
	r.items[cp.ID] = &cp
	return nil
}

func (r *fakeFeaturedRepo) DeleteSyncedExcept(_ context.Context, keep []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := map[int64]bool{}
	for _, id := range keep {
		kept[id] = true
	}
	var n int64
	for id, f := range r.items {
		if f.StrapiID != nil && !kept[*f.StrapiID] {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

type fakeHeroRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Hero
}

func newFakeHeroRepo() *fakeHeroRepo { return &fakeHeroRepo{items: map[string]*domain.Hero{}} }

func (r *fakeHeroRepo) List(_ context.Context) ([]*domain.Hero, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Hero
	for _, h := range r.items {
		cp := *h
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeHeroRepo) GetActive(_ context.Context) (*domain.Hero, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.items {
		if h.Active {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeHeroRepo) GetByID(_ context.Context, id string) (*domain.Hero, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.items[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeHeroRepo) activeCount(except string) int {
	n := 0
	for id, h := range r.items {
		if h.Active && id != except {
			n++
		}
	}
	return n
}

func (r *fakeHeroRepo) Create(_ context.Context, h *domain.Hero) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.Active && r.activeCount("") > 0 {
		return domain.NewError(domain.ErrConflict, "another hero is active")
	}
	r.seq++
	h.ID = fmt.Sprintf("h%d", r.seq)
	cp := *h
	r.items[h.ID] = &cp
	return nil
}

func (r *fakeHeroRepo) Update(_ context.Context, h *domain.Hero) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[h.ID]; !ok {
		return domain.NotFound("hero", h.ID)
	}
	if h.Active && r.activeCount(h.ID) > 0 {
		return domain.NewError(domain.ErrConflict, "another hero is active")
	}
	cp := *h
	r.items[h.ID] = &cp
	return nil
}

func (r *fakeHeroRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeHeroRepo) DeactivateAllExcept(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hid, h := range r.items {
		if hid != id {
			h.Active = false
		}
	}
	return nil
}

type fakeSettingsRepo struct {
	saved *domain.Settings
	saves int
}

func (r *fakeSettingsRepo) Get(context.Context) (*domain.Settings, error) {
	if r.saved == nil {
		return nil, nil
	}
	cp := *r.saved
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *domain.Settings) error {
	cp := *s
	r.saved = &cp
	r.saves++
	return nil
}

type fakeContactRepo struct {
	items map[string]*domain.Contact
}

func newFakeContactRepo() *fakeContactRepo { return &fakeContactRepo{items: map[string]*domain.Contact{}} }

func (r *fakeContactRepo) Create(_ context.Context, c *domain.Contact) error {
	c.ID = fmt.Sprintf("c%d", len(r.items)+1)
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeContactRepo) List(_ context.Context, status domain.ContactStatus) ([]*domain.Contact, error) {
	var out []*domain.Contact
	for _, c := range r.items {
		if status == "" || c.Status == status {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, id string) (*domain.Contact, error) {
	if c, ok := r.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeContactRepo) UpdateStatus(_ context.Context, id string, status domain.ContactStatus) error {
	c, ok := r.items[id]
	if !ok {
		return domain.NotFound("contact", id)
	}
	c.Status = status
	return nil
}

func (r *fakeContactRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.NotFound("contact", id)
	}
	delete(r.items, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[string]*domain.User{}} }

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.Addresses = append([]domain.Address(nil), u.Addresses...)
	return &cp
}

func (r *fakeUserRepo) assignAddressIDs(u *domain.User) {
	for i := range u.Addresses {
		if u.Addresses[i].ID == "" {
			r.seq++
			u.Addresses[i].ID = fmt.Sprintf("addr%d", r.seq)
		}
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.users {
		if o.Email == strings.ToLower(u.Email) {
			return domain.NewError(domain.ErrConflict, "email already registered")
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("u%d", r.seq)
	u.Email = strings.ToLower(u.Email)
	r.assignAddressIDs(u)
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.NotFound("user", u.ID)
	}
	r.assignAddressIDs(u)
	r.users[u.ID] = cloneUser(u)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo { return &fakeOrderRepo{orders: map[string]*domain.Order{}} }

func (r *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.orders {
		if e.OrderNumber == o.OrderNumber {
			return domain.NewError(domain.ErrConflict, "order already exists")
		}
	}
	r.seq++
	o.ID = fmt.Sprintf("o%d", r.seq)
	o.CreatedAt = time.Now()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) get(match func(*domain.Order) bool) *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if match(o) {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	return r.get(func(o *domain.Order) bool { return o.ID == id }), nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, n string) (*domain.Order, error) {
	return r.get(func(o *domain.Order) bool { return o.OrderNumber == n }), nil
}

func (r *fakeOrderRepo) GetByRazorpayOrderID(_ context.Context, id string) (*domain.Order, error) {
	return r.get(func(o *domain.Order) bool { return o.RazorpayOrderID != "" && o.RazorpayOrderID == id }), nil
}

func (r *fakeOrderRepo) List(_ context.Context, f domain.OrderFilter) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) mutate(id string, fn func(*domain.Order)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.NotFound("order", id)
	}
	fn(o)
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, s domain.OrderStatus) error {
	return r.mutate(id, func(o *domain.Order) { o.Status = s })
}

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, id string, s domain.PaymentStatus, paymentID string) error {
	return r.mutate(id, func(o *domain.Order) {
		o.PaymentStatus = s
		if paymentID != "" {
			o.RazorpayPaymentID = paymentID
		}
	})
}

func (r *fakeOrderRepo) UpdateNotifications(_ context.Context, id string, log domain.NotificationLog) error {
	return r.mutate(id, func(o *domain.Order) { o.Notifications = log })
}

func (r *fakeOrderRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

type fakeCatalog struct {
	products []*domain.Product
	featured []*domain.Featured
	unmapped []ports.UnmappedRecord
	err      error
	calls    int
}

func (c *fakeCatalog) FetchProducts(context.Context) (*ports.ProductCatalog, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := &ports.ProductCatalog{Products: make([]*domain.Product, 0, len(c.products)), Unmapped: c.unmapped}
	for _, p := range c.products {
		cp := *p
		out.Products = append(out.Products, &cp)
	}
	return out, nil
}

func (c *fakeCatalog) FetchFeatured(context.Context) (*ports.FeaturedCatalog, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := &ports.FeaturedCatalog{Items: make([]*domain.Featured, 0, len(c.featured)), Unmapped: c.unmapped}
	for _, f := range c.featured {
		cp := *f
		out.Items = append(out.Items, &cp)
	}
	return out, nil
}

type fakeLocker struct {
	held map[string]bool
}

func (l *fakeLocker) TryLock(_ context.Context, name string, _ time.Duration) (bool, error) {
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[name] {
		return false, nil
	}
	l.held[name] = true
	return true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, name string) error {
	delete(l.held, name)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	name string
	fail map[string]error
	sent []*ports.Email
}

func (m *fakeMailer) Name() string { return m.name }

func (m *fakeMailer) Send(_ context.Context, e *ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range e.To {
		if err, ok := m.fail[to]; ok {
			return err
		}
	}
	m.sent = append(m.sent, e)
	return nil
}

type fakeCompositor struct {
	err      error
	requests []ports.CompositeRequest
}

func (c *fakeCompositor) Composite(_ context.Context, req ports.CompositeRequest) (string, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return "", c.err
	}
	return "https://cdn.test/composites/" + req.OutputName + ".png", nil
}

type fakeGateway struct {
	created []int64
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, _ map[string]string) (*ports.GatewayOrder, error) {
	g.created = append(g.created, amount)
	return &ports.GatewayOrder{ID: "order_test", Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

type fakeDeduper struct {
	seen map[string]bool
}

func (d *fakeDeduper) FirstSeen(_ context.Context, id string, _ time.Duration) (bool, error) {
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func (d *fakeDeduper) Forget(_ context.Context, id string) error {
	delete(d.seen, id)
	return nil
}

type recordingPublisher struct {
	events []*domain.OrderEvent
}

func (p *recordingPublisher) Publish(e *domain.OrderEvent) { p.events = append(p.events, e) }

type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }
func (fakeHasher) Compare(hash, pw string) bool  { return hash == "hashed:"+pw }

type fakeTokens struct{}

func (fakeTokens) Issue(userID string, role domain.Role) (string, time.Time, error) {
	return "token-" + userID + "-" + string(role), time.Now().Add(time.Hour), nil
}

func (fakeTokens) Parse(token string) (*domain.Claims, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, domain.NewError(domain.ErrUnauthorized, "Invalid token")
	}
	return &domain.Claims{UserID: parts[1], Role: domain.Role(parts[2])}, nil
}

func int64p(v int64) *int64 { return &v }
