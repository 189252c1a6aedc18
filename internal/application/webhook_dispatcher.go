package application

import (
	"context"
	"fmt"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes verified gateway events for the topics it accepts.
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes an event to every registered handler that
// accepts its topic.
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates an empty dispatcher
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler. Handlers run in registration order.
func (d *WebhookDispatcher) RegisterHandler(h WebhookHandler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch runs the matching handlers and stops at the first error. It
// reports whether any handler accepted the topic.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) (bool, error) {
	handled := false
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		handled = true
		if err := h.Handle(ctx, event); err != nil {
			return true, fmt.Errorf("failed to handle %s webhook: %w", event.Topic, err)
		}
	}
	if !handled {
		d.logger.Debug().Str("topic", event.Topic).Str("eventId", event.ID).Msg("No handler for webhook topic")
	}
	return handled, nil
}
