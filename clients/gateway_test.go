package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRazorpay struct {
	order  map[string]interface{}
	err    error
	got    map[string]interface{}
	sigOK  bool
	secret string
}

func (f *fakeRazorpay) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	f.got = data
	return f.order, f.err
}

func (f *fakeRazorpay) VerifyPaymentSignature(signature, body, webhookSecret string) bool {
	f.secret = webhookSecret
	return f.sigOK
}

func TestSimulatedGateway(t *testing.T) {
	res, err := SimulatedGateway{}.Charge(context.Background(), ChargeRequest{Amount: 5000})
	require.NoError(t, err)
	assert.True(t, res.Settled)
	assert.Regexp(t, `^TXN-[0-9A-Z]{12}$`, res.TransactionID)

	_, err = SimulatedGateway{}.Charge(context.Background(), ChargeRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestRazorpayGatewayCharge(t *testing.T) {
	api := &fakeRazorpay{order: map[string]interface{}{"id": "order_123"}}
	g := NewRazorpayGateway(api, "whsec")
	booking := uuid.New()

	res, err := g.Charge(context.Background(), ChargeRequest{BookingID: booking, Amount: 1500.5, Currency: "LKR", Receipt: "r1"})
	require.NoError(t, err)
	assert.False(t, res.Settled)
	assert.Equal(t, "order_123", res.GatewayOrderID)
	assert.Equal(t, int64(150050), api.got["amount"])
	assert.Equal(t, "LKR", api.got["currency"])

	api.order = map[string]interface{}{}
	_, err = g.Charge(context.Background(), ChargeRequest{Amount: 1})
	assert.Error(t, err)

	api.err = errors.New("boom")
	_, err = g.Charge(context.Background(), ChargeRequest{Amount: 1})
	assert.Error(t, err)
}

func TestRazorpayVerifyWebhook(t *testing.T) {
	api := &fakeRazorpay{sigOK: true}
	assert.True(t, NewRazorpayGateway(api, "whsec").VerifyWebhook("sig", []byte("{}")))
	assert.Equal(t, "whsec", api.secret)
	assert.False(t, NewRazorpayGateway(api, "").VerifyWebhook("sig", []byte("{}")))
	assert.False(t, NewRazorpayGateway(api, "whsec").VerifyWebhook("", []byte("{}")))
}

func TestGatewaysFor(t *testing.T) {
	g := &Gateways{Simulated: SimulatedGateway{}}
	gw, err := g.For("card")
	require.NoError(t, err)
	assert.Equal(t, "simulated", gw.Name())
	_, err = g.For("razorpay")
	assert.Error(t, err)
	assert.Equal(t, []string{"card", "bank_transfer", "cash"}, g.Methods())

	g.Razorpay = NewRazorpayGateway(&fakeRazorpay{}, "")
	assert.Contains(t, g.Methods(), "razorpay")
}
