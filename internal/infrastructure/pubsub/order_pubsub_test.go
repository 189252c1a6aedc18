package pubsub

import (
	"context"
	"testing"
	"time"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPubSub_DeliversMatchingEvents(t *testing.T) {
	ps := NewOrderPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	all := ps.Subscribe(ctx, nil)
	created := ps.Subscribe(ctx, &OrderEventFilter{Types: []domain.OrderEventType{domain.OrderCreated}})

	ps.Publish(&domain.OrderEvent{Type: domain.OrderStatusChanged, OrderNumber: "ORD-1"})
	ps.Publish(&domain.OrderEvent{Type: domain.OrderCreated, OrderNumber: "ORD-2"})

	require.Len(t, all.Events, 2)
	require.Len(t, created.Events, 1)
	assert.Equal(t, "ORD-2", (<-created.Events).OrderNumber)
}

func TestOrderPubSub_UnsubscribeOnCancel(t *testing.T) {
	ps := NewOrderPubSub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	ch := ps.Subscribe(ctx, nil)
	assert.Equal(t, 1, ps.Stats()["active_subscriptions"])

	cancel()
	select {
	case <-ch.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}
	assert.Equal(t, 0, ps.Stats()["active_subscriptions"])
}

func TestOrderPubSub_DropsWhenFull(t *testing.T) {
	ps := NewOrderPubSub(zerolog.Nop())
	ch := ps.Subscribe(context.Background(), nil)

	for i := 0; i < 40; i++ {
		ps.Publish(&domain.OrderEvent{Type: domain.OrderCreated})
	}
	assert.Equal(t, cap(ch.Events), len(ch.Events))
	ps.Unsubscribe(ch.ID)
}

func TestMatchesFilter(t *testing.T) {
	paid := &domain.OrderEvent{Type: domain.OrderStatusChanged}

	assert.True(t, matchesFilter(paid, nil))
	assert.True(t, matchesFilter(paid, &OrderEventFilter{}))
	assert.True(t, matchesFilter(paid, &OrderEventFilter{Types: []domain.OrderEventType{domain.OrderCreated, domain.OrderStatusChanged}}))
	assert.False(t, matchesFilter(paid, &OrderEventFilter{Types: []domain.OrderEventType{domain.OrderCreated}}))
}
