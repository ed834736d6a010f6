package payment_models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/joy095/studio/booking_rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentNormalizesStatus(t *testing.T) {
	bookingID := uuid.New()
	p, err := NewPayment(bookingID, 15000, "card", "paid", "TXN-1")
	require.NoError(t, err)

	assert.Equal(t, bookingID, p.BookingID)
	assert.Equal(t, booking_rules.PaymentCompleted, p.Status)
	assert.Equal(t, "TXN-1", p.TransactionID)
	assert.Nil(t, p.CardMasked)

	p, err = NewPayment(bookingID, 15000, "razorpay", booking_rules.PaymentPending, "order_1")
	require.NoError(t, err)
	assert.Equal(t, booking_rules.PaymentPending, p.Status)
}
