package razorpay

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mutate(s string, i int) string {
	b := []byte(s)
	if b[i] == 'a' {
		b[i] = 'b'
	} else {
		b[i] = 'a'
	}
	return string(b)
}

func TestVerifyPayment_AcceptsOnlyExactSignature(t *testing.T) {
	v := NewVerifier("key_secret", "")
	orderID, paymentID := "order_Nx81LpQ2", "pay_Kq7ZtP0v"
	sig := PaymentSignature("key_secret", orderID, paymentID)

	require.NoError(t, v.VerifyPayment(orderID, paymentID, sig))

	for i := range orderID {
		err := v.VerifyPayment(mutate(orderID, i), paymentID, sig)
		assert.True(t, errors.Is(err, domain.ErrSignatureMismatch), "order id mutation at %d accepted", i)
	}
	for i := range paymentID {
		err := v.VerifyPayment(orderID, mutate(paymentID, i), sig)
		assert.True(t, errors.Is(err, domain.ErrSignatureMismatch), "payment id mutation at %d accepted", i)
	}
	for i := range sig {
		err := v.VerifyPayment(orderID, paymentID, mutate(sig, i))
		assert.True(t, errors.Is(err, domain.ErrSignatureMismatch), "signature mutation at %d accepted", i)
	}
}

func TestVerifyPayment_NotConfigured(t *testing.T) {
	err := NewVerifier("", "").VerifyPayment("o", "p", "s")
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}

func TestVerifyWebhook(t *testing.T) {
	v := NewVerifier("", "whsec")
	body := []byte(`{"event":"payment.captured"}`)
	sig := sign("whsec", body)

	assert.NoError(t, v.VerifyWebhook(body, sig))
	assert.True(t, errors.Is(v.VerifyWebhook(body, ""), domain.ErrSignatureMismatch))
	assert.True(t, errors.Is(v.VerifyWebhook([]byte(`{"event":"payment.failed"}`), sig), domain.ErrSignatureMismatch))
}

type stubOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (s *stubOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.got = data
	return s.resp, s.err
}

func TestGateway_CreateOrder(t *testing.T) {
	stub := &stubOrders{resp: map[string]interface{}{
		"id": "order_1", "amount": float64(49900), "currency": "INR", "receipt": "rcpt_1", "status": "created",
	}}
	g := &Gateway{keyID: "rzp_test", orders: stub, logger: zerolog.Nop()}

	order, err := g.CreateOrder(context.Background(), 49900, "", "rcpt_1", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)

	assert.Equal(t, "order_1", order.ID)
	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, "INR", stub.got["currency"])
	assert.Equal(t, int64(49900), stub.got["amount"])
	assert.Equal(t, "rzp_test", g.KeyID())
}

func TestGateway_RejectsNonPositiveAmount(t *testing.T) {
	g := &Gateway{orders: &stubOrders{}, logger: zerolog.Nop()}
	_, err := g.CreateOrder(context.Background(), 0, "INR", "r", nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNewGateway_RequiresCredentials(t *testing.T) {
	_, err := NewGateway("", "secret", zerolog.Nop())
	assert.True(t, errors.Is(err, domain.ErrNotConfigured))
}
