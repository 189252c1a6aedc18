package application

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func activeHeroes(t *testing.T, repo *fakeHeroRepo) []string {
	t.Helper()
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	var ids []string
	for _, h := range list {
		if h.Active {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

func TestHeroService_ActivationDeactivatesOthers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeHeroRepo()
	svc := NewHeroService(repo, zerolog.Nop())

	first, err := svc.Create(ctx, HeroInput{Title: strp("Summer"), ImageURL: strp("https://cdn/s.png"), Active: boolp(true)})
	require.NoError(t, err)
	second, err := svc.Create(ctx, HeroInput{Title: strp("Winter"), ImageURL: strp("https://cdn/w.png"), Active: boolp(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, activeHeroes(t, repo))

	_, err = svc.Update(ctx, first.ID, HeroInput{Active: boolp(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, activeHeroes(t, repo))

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Summer", active.Title)
}

func TestHeroService_InactiveCreateLeavesActive(t *testing.T) {
	ctx := context.Background()
	repo := newFakeHeroRepo()
	svc := NewHeroService(repo, zerolog.Nop())

	live, err := svc.Create(ctx, HeroInput{ImageURL: strp("https://cdn/a.png"), Active: boolp(true)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, HeroInput{ImageURL: strp("https://cdn/b.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{live.ID}, activeHeroes(t, repo))
}

func TestHeroService_GetActiveNone(t *testing.T) {
	svc := NewHeroService(newFakeHeroRepo(), zerolog.Nop())
	_, err := svc.GetActive(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Create(context.Background(), HeroInput{Title: strp("no image")})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSettingsService_LazyCreation(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, zerolog.Nop())

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.ShippingFee)
	assert.Equal(t, 100.0, s.CustomizationFee)
	assert.Equal(t, 1, repo.saves)

	_, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves, "defaults are created once")
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, zerolog.Nop())

	fee := 75.0
	threshold := 1500.0
	s, err := svc.Update(ctx, SettingsInput{ShippingFee: &fee, FreeShippingThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, 75.0, s.ShippingFee)
	assert.Equal(t, 100.0, s.CustomizationFee)
	assert.Equal(t, 1500.0, repo.saved.FreeShippingThreshold)

	negative := -1.0
	_, err = svc.Update(ctx, SettingsInput{CustomizationFee: &negative})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Fields, "customizationFee")
}

func TestDesignService_ValidatesCategory(t *testing.T) {
	svc := NewDesignService(nil, zerolog.Nop())
	_, err := svc.Create(context.Background(), DesignInput{Name: strp("Logo"), ImageURL: strp("https://cdn/l.png"), Category: strp("sticker")})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Fields, "category")
}

func TestFeaturedService_NormalizesPrimaryImage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFeaturedRepo()
	svc := NewFeaturedService(repo, zerolog.Nop())

	f, err := svc.Create(ctx, FeaturedInput{Title: strp("Drop"), Images: &[]string{"https://cdn/1.png", "https://cdn/2.png"}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/1.png", f.PrimaryImage)
	assert.True(t, f.Active)

	f, err = svc.Update(ctx, f.ID, FeaturedInput{Images: &[]string{"https://cdn/2.png"}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/2.png", f.PrimaryImage)

	_, err = svc.Create(ctx, FeaturedInput{Title: strp("Empty")})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestContactService_SubmitAlertsAdminBestEffort(t *testing.T) {
	ctx := context.Background()
	repo := newFakeContactRepo()
	mailer := &fakeMailer{name: "smtp", fail: map[string]error{"admin@shop.test": errors.New("smtp down")}}
	notifier := NewNotificationService(mailer, "admin@shop.test", "", nil, zerolog.Nop())
	svc := NewContactService(repo, notifier, zerolog.Nop())

	c, err := svc.Submit(ctx, ContactInput{Name: "Ravi", Email: "ravi@example.com", Message: "Bulk order?"})
	require.NoError(t, err, "mail failure must not fail the submission")
	assert.Equal(t, domain.ContactNew, c.Status)

	updated, err := svc.UpdateStatus(ctx, c.ID, domain.ContactReplied)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactReplied, updated.Status)

	_, err = svc.UpdateStatus(ctx, c.ID, "spam")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.Submit(ctx, ContactInput{Name: "x", Email: "x@example.com"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
