package ports

import (
	"context"
	"io"
	"time"

	"storefront-api/internal/domain"
)

// CatalogSource fetches the authoritative external catalog. A fetch either
// returns the whole collection or an error, never a truncated page set.
type CatalogSource interface {
	FetchProducts(ctx context.Context) (*ProductCatalog, error)
	FetchFeatured(ctx context.Context) (*FeaturedCatalog, error)
}

// UnmappedRecord is an upstream record that exists but could not be
// converted. StrapiID is nil when the record carried no usable id.
type UnmappedRecord struct {
	StrapiID *int64
	Error    string
}

// ProductCatalog is one complete read of the upstream product collection.
type ProductCatalog struct {
	Products []*domain.Product
	Unmapped []UnmappedRecord
}

// FeaturedCatalog is one complete read of the upstream featured collection.
type FeaturedCatalog struct {
	Items    []*domain.Featured
	Unmapped []UnmappedRecord
}

// GatewayOrder is the payment-provider side transaction.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentGateway creates provider-side orders.
type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
}

// Email is a rendered message ready to be sent.
type Email struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Mailer delivers transactional email through a single provider.
type Mailer interface {
	Name() string
	Send(ctx context.Context, email *Email) error
}

// StoredFile describes an uploaded file.
type StoredFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// FileStorage persists uploaded files and exposes them by URL.
type FileStorage interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredFile, error)
	Delete(ctx context.Context, filename string) error
}

// CompositeRequest places an overlay on a base image.
type CompositeRequest struct {
	BaseImage    string
	OverlayImage string
	Position     domain.Position
	Size         int
	OutputName   string
}

// ImageCompositor merges two images into one PNG and returns its URL.
type ImageCompositor interface {
	Composite(ctx context.Context, req CompositeRequest) (string, error)
}

// SyncLocker serializes catalog reconciliation runs.
type SyncLocker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name string) error
}

// EventDeduper remembers processed webhook deliveries.
type EventDeduper interface {
	FirstSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// Forget releases an id whose processing failed.
	Forget(ctx context.Context, eventID string) error
}

// TokenIssuer signs and parses bearer tokens.
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, time.Time, error)
	Parse(token string) (*domain.Claims, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// PaymentVerifier checks gateway-issued signatures. Both methods return a
// domain error of kind ErrSignatureMismatch on mismatch and ErrNotConfigured
// when the relevant secret is missing.
type PaymentVerifier interface {
	VerifyPayment(orderID, paymentID, signature string) error
	VerifyWebhook(body []byte, signature string) error
}

// OrderEventPublisher fans order changes out to live subscribers.
type OrderEventPublisher interface {
	Publish(event *domain.OrderEvent)
}

// Metrics records business counters.
type Metrics interface {
	SyncRun(kind, result string, upserted, deleted, failed int)
	Notification(kind, provider string, ok bool)
	Payment(result string)
	Webhook(source, topic, result string)
}
