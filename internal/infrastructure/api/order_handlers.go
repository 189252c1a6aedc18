package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-api/internal/application"
	"storefront-api/internal/domain"
	"storefront-api/internal/infrastructure/pubsub"

	"github.com/go-chi/chi/v5"
)

const streamHeartbeat = 25 * time.Second

func createOrderHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.CheckoutInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		placed, err := d.Orders.Create(r.Context(), domain.ClaimsFromContext(r.Context()), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusCreated, "Order placed", placed)
	}
}

func orderByNumberHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := d.Orders.GetByNumber(r.Context(), chi.URLParam(r, "orderNumber"), r.URL.Query().Get("email"))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", o)
	}
}

func myOrdersHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := normalizePage(queryInt(r, "page", 1), queryInt(r, "limit", 20))
		orders, total, err := d.Orders.ListMine(r.Context(), userID(r), page, limit)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondPage(w, orders, page, limit, total)
	}
}

func listOrdersHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := normalizePage(queryInt(r, "page", 1), queryInt(r, "limit", 20))
		filter := domain.OrderFilter{
			Status:        domain.OrderStatus(r.URL.Query().Get("status")),
			PaymentStatus: domain.PaymentStatus(r.URL.Query().Get("paymentStatus")),
			Page:          page,
			Limit:         limit,
		}
		orders, total, err := d.Orders.List(r.Context(), filter)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondPage(w, orders, page, limit, total)
	}
}

func getOrderHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := d.Orders.Get(r.Context(), domain.ClaimsFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "OK", o)
	}
}

func orderStatusHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in statusRequest
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		res, err := d.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(in.Status))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Order status updated", res)
	}
}

func retryNotificationsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Orders.ResendNotifications(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Notifications retried", res)
	}
}

// orderStreamHandler streams order events to the admin dashboard as
// server-sent events until the client disconnects.
func orderStreamHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.OrderFeed == nil {
			respondError(w, d.Logger, domain.NewError(domain.ErrNotConfigured, "Order stream is not available"))
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			respondError(w, d.Logger, fmt.Errorf("streaming unsupported"))
			return
		}

		var filter *pubsub.OrderEventFilter
		if types := r.URL.Query()["type"]; len(types) > 0 {
			filter = &pubsub.OrderEventFilter{}
			for _, t := range types {
				filter.Types = append(filter.Types, domain.OrderEventType(t))
			}
		}
		sub := d.OrderFeed.Subscribe(r.Context(), filter)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, ": connected %s\n\n", sub.ID)
		flusher.Flush()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case ev, ok := <-sub.Events:
				if !ok {
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					d.Logger.Error().Err(err).Msg("Failed to encode order event")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
				flusher.Flush()
			}
		}
	}
}
