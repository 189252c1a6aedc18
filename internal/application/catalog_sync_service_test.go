package application

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteProduct(id int64, slug string, price float64) *domain.Product {
	return &domain.Product{Name: slug, Slug: slug, Price: price, IsActive: true, StrapiID: int64p(id)}
}

func newSyncFixture(source *fakeCatalog) (*CatalogSyncService, *fakeProductRepo, *fakeFeaturedRepo, *fakeLocker) {
	products := newFakeProductRepo()
	featured := newFakeFeaturedRepo()
	locker := &fakeLocker{}
	svc := NewCatalogSyncService(source, products, featured, locker, nil, "s3cret", zerolog.Nop())
	return svc, products, featured, locker
}

func productSlugs(t *testing.T, repo *fakeProductRepo) []string {
	t.Helper()
	list, _, err := repo.List(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	var slugs []string
	for _, p := range list {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func TestSyncProducts_Idempotent(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{
		remoteProduct(1, "tee", 499),
		remoteProduct(2, "hoodie", 999),
	}}
	svc, repo, _, _ := newSyncFixture(source)

	first, err := svc.SyncProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Fetched)
	assert.Equal(t, 2, first.Upserted)
	assert.Zero(t, first.Deleted)

	second, err := svc.SyncProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Upserted)
	assert.Zero(t, second.Deleted)
	assert.ElementsMatch(t, []string{"tee", "hoodie"}, productSlugs(t, repo))
}

func TestSyncProducts_UpdatesExistingByStrapiID(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{remoteProduct(1, "tee", 499)}}
	svc, repo, _, _ := newSyncFixture(source)

	_, err := svc.SyncProducts(ctx)
	require.NoError(t, err)

	source.products[0].Price = 549
	source.products[0].Slug = "classic-tee"
	_, err = svc.SyncProducts(ctx)
	require.NoError(t, err)

	p, err := repo.GetByStrapiID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 549.0, p.Price)
	assert.Equal(t, []string{"classic-tee"}, productSlugs(t, repo))
}

func TestSyncProducts_DeletesOnlyVanishedSyncedRecords(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{
		remoteProduct(1, "tee", 499),
		remoteProduct(2, "hoodie", 999),
	}}
	svc, repo, _, _ := newSyncFixture(source)

	local := &domain.Product{Name: "Local Cap", Slug: "local-cap", Price: 199, IsActive: true}
	require.NoError(t, repo.Create(ctx, local))

	_, err := svc.SyncProducts(ctx)
	require.NoError(t, err)

	source.products = source.products[:1]
	res, err := svc.SyncProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)
	assert.ElementsMatch(t, []string{"tee", "local-cap"}, productSlugs(t, repo))
}

func TestSyncProducts_FetchFailureAborts(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{remoteProduct(1, "tee", 499)}}
	svc, repo, _, locker := newSyncFixture(source)

	_, err := svc.SyncProducts(ctx)
	require.NoError(t, err)

	source.err = errors.New("failed to fetch products from strapi: unexpected status 502")
	res, err := svc.SyncProducts(ctx)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "unexpected status 502")
	assert.Equal(t, []string{"tee"}, productSlugs(t, repo), "nothing deleted on fetch failure")
	assert.Empty(t, locker.held, "lock released")
}

func TestSyncProducts_PartialFailuresReported(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{
		remoteProduct(1, "tee", 499),
		remoteProduct(2, "hoodie", 999),
	}}
	svc, repo, _, _ := newSyncFixture(source)

	_, err := svc.SyncProducts(ctx)
	require.NoError(t, err)

	repo.failSlug = "hoodie"
	res, err := svc.SyncProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "strapiId:2", res.Failed[0].Key)
	assert.Zero(t, res.Deleted)
	assert.ElementsMatch(t, []string{"tee", "hoodie"}, productSlugs(t, repo), "failed record is kept")
}

func TestSyncProducts_UnmappableRecordIsKeptAndReported(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{
		remoteProduct(1, "tee", 499),
		remoteProduct(7, "hoodie", 999),
	}}
	svc, repo, _, _ := newSyncFixture(source)

	_, err := svc.SyncProducts(ctx)
	require.NoError(t, err)

	// record 7 still exists upstream but lost its price
	source.products = source.products[:1]
	source.unmapped = []ports.UnmappedRecord{{StrapiID: int64p(7), Error: "product record has no price"}}
	res, err := svc.SyncProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 1, res.Upserted)
	assert.Zero(t, res.Deleted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "strapiId:7", res.Failed[0].Key)
	assert.Equal(t, "product record has no price", res.Failed[0].Error)
	assert.ElementsMatch(t, []string{"tee", "hoodie"}, productSlugs(t, repo))
}

func TestSyncProducts_UnmappableRecordWithoutIDSkipsDeletes(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{
		remoteProduct(1, "tee", 499),
		remoteProduct(2, "hoodie", 999),
	}}
	svc, repo, _, _ := newSyncFixture(source)

	_, err := svc.SyncProducts(ctx)
	require.NoError(t, err)

	source.products = source.products[:1]
	source.unmapped = []ports.UnmappedRecord{{Error: "product record has no name"}}
	res, err := svc.SyncProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "key:unknown", res.Failed[0].Key)
	assert.ElementsMatch(t, []string{"tee", "hoodie"}, productSlugs(t, repo))
}

func TestSyncProducts_LockHeld(t *testing.T) {
	source := &fakeCatalog{}
	svc, _, _, locker := newSyncFixture(source)
	locker.held = map[string]bool{"catalog-sync:products": true}

	_, err := svc.SyncProducts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Zero(t, source.calls)
}

func TestSyncProducts_NotConfigured(t *testing.T) {
	svc := NewCatalogSyncService(nil, newFakeProductRepo(), newFakeFeaturedRepo(), nil, nil, "", zerolog.Nop())
	_, err := svc.SyncProducts(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestSyncFeatured_KeyedByPrimaryImageWithoutStrapiID(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{featured: []*domain.Featured{
		{Title: "Drop", Images: []string{"https://cdn/a.png"}, Active: true},
		{Title: "Sale", Images: []string{"https://cdn/b.png"}, Active: true, StrapiID: int64p(7)},
	}}
	svc, _, featured, _ := newSyncFixture(source)

	for i := 0; i < 2; i++ {
		res, err := svc.SyncFeatured(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Upserted)
	}
	items, err := featured.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, f := range items {
		assert.Equal(t, f.Images[0], f.PrimaryImage)
	}
}

func TestHandleStrapiWebhook(t *testing.T) {
	ctx := context.Background()
	source := &fakeCatalog{products: []*domain.Product{remoteProduct(1, "tee", 499)}}
	svc, repo, _, _ := newSyncFixture(source)

	res, handled, err := svc.HandleStrapiWebhook(ctx, StrapiWebhook{Event: "entry.update", Model: "product"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, SyncKindProducts, res.Kind)
	assert.Len(t, productSlugs(t, repo), 1)

	_, handled, err = svc.HandleStrapiWebhook(ctx, StrapiWebhook{Model: "featured-item"})
	require.NoError(t, err)
	assert.True(t, handled)

	_, handled, err = svc.HandleStrapiWebhook(ctx, StrapiWebhook{Model: "blog-post"})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestCheckWebhookSecret(t *testing.T) {
	svc, _, _, _ := newSyncFixture(&fakeCatalog{})
	assert.NoError(t, svc.CheckWebhookSecret("Bearer s3cret"))
	assert.True(t, errors.Is(svc.CheckWebhookSecret("Bearer wrong"), domain.ErrUnauthorized))
	assert.True(t, errors.Is(svc.CheckWebhookSecret(""), domain.ErrUnauthorized))

	open := NewCatalogSyncService(&fakeCatalog{}, newFakeProductRepo(), newFakeFeaturedRepo(), nil, nil, "", zerolog.Nop())
	assert.NoError(t, open.CheckWebhookSecret(""))
}
