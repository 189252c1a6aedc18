package application

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
)

const (
	SyncKindProducts = "products"
	SyncKindFeatured = "featured"

	defaultSyncLockTTL = 5 * time.Minute
)

// SyncFailure is a record that could not be written during a sync.
type SyncFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// SyncResult summarizes one reconciliation pass.
type SyncResult struct {
	Kind     string        `json:"kind"`
	Fetched  int           `json:"fetched"`
	Upserted int           `json:"upserted"`
	Deleted  int64         `json:"deleted"`
	Failed   []SyncFailure `json:"failed"`
	Duration string        `json:"duration"`
}

// StrapiWebhook is the body Strapi posts on content changes.
type StrapiWebhook struct {
	Event string                 `json:"event"`
	Model string                 `json:"model"`
	Entry map[string]interface{} `json:"entry"`
}

// CatalogSyncService mirrors the external catalog into local storage.
type CatalogSyncService struct {
	source        ports.CatalogSource
	products      ports.ProductRepository
	featured      ports.FeaturedRepository
	locker        ports.SyncLocker
	metrics       ports.Metrics
	webhookSecret string
	lockTTL       time.Duration
	logger        zerolog.Logger
}

// NewCatalogSyncService creates a sync service. source may be nil when the
// external catalog is not configured.
func NewCatalogSyncService(
	source ports.CatalogSource,
	products ports.ProductRepository,
	featured ports.FeaturedRepository,
	locker ports.SyncLocker,
	metrics ports.Metrics,
	webhookSecret string,
	logger zerolog.Logger,
) *CatalogSyncService {
	return &CatalogSyncService{
		source:        source,
		products:      products,
		featured:      featured,
		locker:        locker,
		metrics:       metricsOrNop(metrics),
		webhookSecret: webhookSecret,
		lockTTL:       defaultSyncLockTTL,
		logger:        logger.With().Str("component", "catalog_sync").Logger(),
	}
}

// SyncProducts upserts every remote product by strapiId (else slug) and then
// deletes synced products that vanished upstream. Products created locally,
// without a strapiId, are never deleted.
func (s *CatalogSyncService) SyncProducts(ctx context.Context) (*SyncResult, error) {
	return s.run(ctx, SyncKindProducts, func(ctx context.Context, res *SyncResult) error {
		catalog, err := s.source.FetchProducts(ctx)
		if err != nil {
			return fmt.Errorf("product sync aborted: %w", err)
		}
		res.Fetched = len(catalog.Products) + len(catalog.Unmapped)

		// every fetched id is kept, so a failed upsert or an unmappable
		// record never deletes a live product
		keep := make([]int64, 0, res.Fetched)
		for _, p := range catalog.Products {
			if p.StrapiID != nil {
				keep = append(keep, *p.StrapiID)
			}
			key := domain.SyncKey{StrapiID: p.StrapiID, Fallback: p.Slug}
			if err := s.products.UpsertByKey(ctx, key, p); err != nil {
				res.Failed = append(res.Failed, SyncFailure{Key: syncKeyString(key), Error: err.Error()})
				s.logger.Warn().Err(err).Str("key", syncKeyString(key)).Msg("Failed to upsert product")
				continue
			}
			res.Upserted++
		}
		keep, complete := s.keepUnmapped(res, catalog.Unmapped, keep)
		if !complete {
			return nil
		}

		deleted, err := s.products.DeleteSyncedExcept(ctx, keep)
		if err != nil {
			return err
		}
		res.Deleted = deleted
		return nil
	})
}

// SyncFeatured does the same for featured items, keyed by strapiId else
// primary image.
func (s *CatalogSyncService) SyncFeatured(ctx context.Context) (*SyncResult, error) {
	return s.run(ctx, SyncKindFeatured, func(ctx context.Context, res *SyncResult) error {
		catalog, err := s.source.FetchFeatured(ctx)
		if err != nil {
			return fmt.Errorf("featured sync aborted: %w", err)
		}
		res.Fetched = len(catalog.Items) + len(catalog.Unmapped)

		keep := make([]int64, 0, res.Fetched)
		for _, f := range catalog.Items {
			if f.StrapiID != nil {
				keep = append(keep, *f.StrapiID)
			}
			f.Normalize()
			key := domain.SyncKey{StrapiID: f.StrapiID, Fallback: f.PrimaryImage}
			if err := s.featured.UpsertByKey(ctx, key, f); err != nil {
				res.Failed = append(res.Failed, SyncFailure{Key: syncKeyString(key), Error: err.Error()})
				s.logger.Warn().Err(err).Str("key", syncKeyString(key)).Msg("Failed to upsert featured item")
				continue
			}
			res.Upserted++
		}
		keep, complete := s.keepUnmapped(res, catalog.Unmapped, keep)
		if !complete {
			return nil
		}

		deleted, err := s.featured.DeleteSyncedExcept(ctx, keep)
		if err != nil {
			return err
		}
		res.Deleted = deleted
		return nil
	})
}

// keepUnmapped reports records the source could not map as failures and adds
// their ids to keep. complete is false when one of them had no id; the local
// record it stands for is then unknown and the delete pass must be skipped.
func (s *CatalogSyncService) keepUnmapped(res *SyncResult, unmapped []ports.UnmappedRecord, keep []int64) (_ []int64, complete bool) {
	complete = true
	for _, u := range unmapped {
		key := "key:unknown"
		if u.StrapiID != nil {
			keep = append(keep, *u.StrapiID)
			key = syncKeyString(domain.SyncKey{StrapiID: u.StrapiID})
		} else {
			complete = false
		}
		res.Failed = append(res.Failed, SyncFailure{Key: key, Error: u.Error})
	}
	if !complete {
		s.logger.Warn().Str("kind", res.Kind).Msg("Unmappable record without id, skipping delete pass")
	}
	return keep, complete
}

func (s *CatalogSyncService) run(ctx context.Context, kind string, fn func(context.Context, *SyncResult) error) (*SyncResult, error) {
	if s.source == nil {
		return nil, domain.NewError(domain.ErrNotConfigured, "Catalog source not configured")
	}

	lockName := "catalog-sync:" + kind
	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, lockName, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
		}
		if !ok {
			return nil, domain.NewError(domain.ErrConflict, "A %s sync is already running", kind)
		}
		defer func() {
			// release even if the request context is gone
			if err := s.locker.Unlock(context.WithoutCancel(ctx), lockName); err != nil {
				s.logger.Warn().Err(err).Str("kind", kind).Msg("Failed to release sync lock")
			}
		}()
	}

	start := time.Now()
	res := &SyncResult{Kind: kind, Failed: []SyncFailure{}}
	err := fn(ctx, res)
	res.Duration = time.Since(start).Round(time.Millisecond).String()

	if err != nil {
		s.metrics.SyncRun(kind, "error", res.Upserted, 0, len(res.Failed))
		s.logger.Error().Err(err).Str("kind", kind).Msg("Catalog sync failed")
		return nil, err
	}

	result := "ok"
	if len(res.Failed) > 0 {
		result = "partial"
	}
	s.metrics.SyncRun(kind, result, res.Upserted, int(res.Deleted), len(res.Failed))
	s.logger.Info().
		Str("kind", kind).
		Int("fetched", res.Fetched).
		Int("upserted", res.Upserted).
		Int64("deleted", res.Deleted).
		Int("failed", len(res.Failed)).
		Str("duration", res.Duration).
		Msg("Catalog sync finished")
	return res, nil
}

// CheckWebhookSecret validates the bearer secret Strapi sends. An empty
// configured secret accepts every call.
func (s *CatalogSyncService) CheckWebhookSecret(authorization string) error {
	if s.webhookSecret == "" {
		return nil
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.webhookSecret)) != 1 {
		return domain.NewError(domain.ErrUnauthorized, "Invalid webhook secret")
	}
	return nil
}

// HandleStrapiWebhook runs the sync matching the changed model. handled is
// false for models this service does not mirror.
func (s *CatalogSyncService) HandleStrapiWebhook(ctx context.Context, hook StrapiWebhook) (res *SyncResult, handled bool, err error) {
	model := strings.ToLower(strings.TrimSpace(hook.Model))
	s.logger.Info().Str("event", hook.Event).Str("model", model).Msg("Strapi webhook received")

	switch model {
	case "product", "products":
		res, err = s.SyncProducts(ctx)
	case "featured", "featured-item", "featureds":
		res, err = s.SyncFeatured(ctx)
	default:
		return nil, false, nil
	}
	return res, true, err
}

func syncKeyString(k domain.SyncKey) string {
	if k.StrapiID != nil {
		return fmt.Sprintf("strapiId:%d", *k.StrapiID)
	}
	return "key:" + k.Fallback
}
