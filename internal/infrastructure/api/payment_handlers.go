package api

import (
	"io"
	"net/http"

	"storefront-api/internal/application"
	"storefront-api/internal/domain"
)

const maxWebhookBody = 1 << 20

func createGatewayOrderHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.CreateGatewayOrderInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		res, err := d.Payments.CreateGatewayOrder(r.Context(), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Payment order created", res)
	}
}

// verifyPaymentHandler confirms the checkout signature and places the order.
// A signed-in caller owns the resulting order.
func verifyPaymentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in application.VerifyPaymentInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		placed, err := d.Payments.VerifyAndPlaceOrder(r.Context(), domain.ClaimsFromContext(r.Context()), in)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respond(w, http.StatusOK, "Payment verified", placed)
	}
}

// paymentWebhookHandler must read the raw body: the signature covers the
// exact bytes sent.
func paymentWebhookHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			d.Logger.Error().Err(err).Msg("Failed to read webhook body")
			respondMessage(w, http.StatusBadRequest, false, "Failed to read body")
			return
		}

		outcome, err := d.Payments.HandleGatewayWebhook(
			r.Context(),
			body,
			r.Header.Get("X-Razorpay-Signature"),
			r.Header.Get("X-Razorpay-Event-Id"),
		)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "received": true, "status": outcome})
	}
}
