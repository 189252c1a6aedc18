package ports

import (
	"context"

	"storefront-api/internal/domain"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByStrapiID(ctx context.Context, strapiID int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error

	// UpsertByKey writes the product matched by key.StrapiID when set,
	// otherwise by key.Fallback (the slug).
	UpsertByKey(ctx context.Context, key domain.SyncKey, product *domain.Product) error
	// DeleteSyncedExcept removes records that carry a StrapiID not in keep.
	// Records without a StrapiID are never touched.
	DeleteSyncedExcept(ctx context.Context, keep []int64) (int64, error)
}

// FeaturedRepository defines the interface for featured item persistence
type FeaturedRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*domain.Featured, error)
	GetByID(ctx context.Context, id string) (*domain.Featured, error)
	Create(ctx context.Context, item *domain.Featured) error
	Update(ctx context.Context, item *domain.Featured) error
	Delete(ctx context.Context, id string) error

	// UpsertByKey matches on key.StrapiID when set, otherwise on key.Fallback
	// (the primary image).
	UpsertByKey(ctx context.Context, key domain.SyncKey, item *domain.Featured) error
	DeleteSyncedExcept(ctx context.Context, keep []int64) (int64, error)
}

// DesignRepository defines the interface for design persistence
type DesignRepository interface {
	List(ctx context.Context, filter domain.DesignFilter) ([]*domain.Design, error)
	GetByID(ctx context.Context, id string) (*domain.Design, error)
	Create(ctx context.Context, design *domain.Design) error
	Update(ctx context.Context, design *domain.Design) error
	Delete(ctx context.Context, id string) error
}

// HeroRepository defines the interface for hero banner persistence
type HeroRepository interface {
	List(ctx context.Context) ([]*domain.Hero, error)
	GetActive(ctx context.Context) (*domain.Hero, error)
	GetByID(ctx context.Context, id string) (*domain.Hero, error)
	Create(ctx context.Context, hero *domain.Hero) error
	Update(ctx context.Context, hero *domain.Hero) error
	Delete(ctx context.Context, id string) error
	// DeactivateAllExcept clears the active flag on every other hero.
	DeactivateAllExcept(ctx context.Context, id string) error
}

// SettingsRepository persists the settings singleton. Get returns nil, nil
// when the document does not exist yet.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

// ContactRepository defines the interface for contact message persistence
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	List(ctx context.Context, status domain.ContactStatus) ([]*domain.Contact, error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// OrderRepository defines the interface for order persistence. There is no
// delete: orders are kept forever.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentID string) error
	UpdateNotifications(ctx context.Context, id string, log domain.NotificationLog) error
	Count(ctx context.Context) (int64, error)
}
