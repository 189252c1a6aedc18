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

func TestWebhookDispatcher(t *testing.T) {
	d := NewWebhookDispatcher(zerolog.Nop())
	first := &recordingHandler{}
	second := &recordingHandler{}
	d.RegisterHandler(first)
	d.RegisterHandler(second)
	ctx := context.Background()

	handled, err := d.Dispatch(ctx, &domain.WebhookEvent{Topic: "payment.captured"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Len(t, first.topics, 1)
	assert.Len(t, second.topics, 1)

	handled, err = d.Dispatch(ctx, &domain.WebhookEvent{Topic: "payment.authorized"})
	require.NoError(t, err)
	assert.False(t, handled)

	first.err = errors.New("boom")
	_, err = d.Dispatch(ctx, &domain.WebhookEvent{Topic: "payment.captured"})
	require.Error(t, err)
	assert.Len(t, second.topics, 1, "dispatch stops at the first error")
}
