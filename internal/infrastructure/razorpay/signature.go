package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/ports"
)

// Verifier checks checkout and webhook signatures.
type Verifier struct {
	keySecret     string
	webhookSecret string
}

// NewVerifier creates a signature verifier. Either secret may be empty, in
// which case the matching check reports ErrNotConfigured.
func NewVerifier(keySecret, webhookSecret string) ports.PaymentVerifier {
	return &Verifier{keySecret: keySecret, webhookSecret: webhookSecret}
}

// PaymentSignature is hex(HMAC_SHA256(secret, orderID|paymentID)).
func PaymentSignature(secret, orderID, paymentID string) string {
	return sign(secret, []byte(orderID+"|"+paymentID))
}

// VerifyPayment checks the signature returned to the checkout client
func (v *Verifier) VerifyPayment(orderID, paymentID, signature string) error {
	if v.keySecret == "" {
		return domain.NewError(domain.ErrNotConfigured, "Payment gateway not configured")
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return domain.NewError(domain.ErrSignatureMismatch, "Invalid payment signature")
	}
	expected := PaymentSignature(v.keySecret, orderID, paymentID)
	if !equal(expected, signature) {
		return domain.NewError(domain.ErrSignatureMismatch, "Invalid payment signature")
	}
	return nil
}

// VerifyWebhook checks X-Razorpay-Signature against the raw body
func (v *Verifier) VerifyWebhook(body []byte, signature string) error {
	if v.webhookSecret == "" {
		return domain.NewError(domain.ErrNotConfigured, "Webhook secret not configured")
	}
	if signature == "" || !equal(sign(v.webhookSecret, body), signature) {
		return domain.NewError(domain.ErrSignatureMismatch, "Invalid webhook signature")
	}
	return nil
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// equal compares hex digests in constant time. Case is significant.
func equal(expected, provided string) bool {
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(provided)))
}
