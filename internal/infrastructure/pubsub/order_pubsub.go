package pubsub

import (
	"context"
	"fmt"
	"sync"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
)

// OrderEventChannel represents a subscription channel
type OrderEventChannel struct {
	ID     string
	Filter *OrderEventFilter
	Events chan *domain.OrderEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// OrderEventFilter filters order events
type OrderEventFilter struct {
	Types []domain.OrderEventType
}

// OrderPubSub manages order event subscriptions
type OrderPubSub struct {
	mu       sync.RWMutex
	channels map[string]*OrderEventChannel
	logger   zerolog.Logger
	nextID   int64
	idMu     sync.Mutex
}

// NewOrderPubSub creates a new order pub/sub system
func NewOrderPubSub(logger zerolog.Logger) *OrderPubSub {
	return &OrderPubSub{
		channels: make(map[string]*OrderEventChannel),
		logger:   logger,
	}
}

// Subscribe creates a new subscription channel. The subscription ends when
// ctx is cancelled.
func (ps *OrderPubSub) Subscribe(ctx context.Context, filter *OrderEventFilter) *OrderEventChannel {
	ps.idMu.Lock()
	id := ps.generateID()
	ps.idMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)

	channel := &OrderEventChannel{
		ID:     id,
		Filter: filter,
		Events: make(chan *domain.OrderEvent, 16),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[id] = channel
	ps.mu.Unlock()

	ps.logger.Info().
		Str("channelId", id).
		Msg("Order subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(id)
	}()

	return channel
}

// Unsubscribe removes a subscription channel
func (ps *OrderPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Info().
		Str("channelId", channelID).
		Msg("Order subscription removed")
}

// Publish broadcasts an order event to all matching subscribers without
// blocking; slow subscribers lose events.
func (ps *OrderPubSub) Publish(event *domain.OrderEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	published := 0
	for _, channel := range ps.channels {
		if !matchesFilter(event, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- event:
			published++
		default:
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Msg("Channel buffer full, dropping event")
		}
	}

	if published > 0 {
		ps.logger.Debug().
			Str("type", string(event.Type)).
			Str("orderNumber", event.OrderNumber).
			Int("subscribers", published).
			Msg("Published order event")
	}
}

// matchesFilter reports whether event should reach a subscriber holding
// filter. A nil filter or one without types accepts every order event.
func matchesFilter(event *domain.OrderEvent, filter *OrderEventFilter) bool {
	if filter == nil || len(filter.Types) == 0 {
		return true
	}
	for _, t := range filter.Types {
		if event.Type == t {
			return true
		}
	}
	return false
}

func (ps *OrderPubSub) generateID() string {
	ps.nextID++
	return fmt.Sprintf("channel-%d", ps.nextID)
}

// Stats returns pub/sub statistics
func (ps *OrderPubSub) Stats() map[string]interface{} {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return map[string]interface{}{
		"active_subscriptions": len(ps.channels),
	}
}
