package booking_rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingPending, BookingConfirmed))
	assert.True(t, CanTransition(BookingPaymentDue, BookingPaid))
	assert.True(t, CanTransition(BookingPaid, BookingCompleted))
	assert.False(t, CanTransition(BookingCompleted, BookingCancelled))
	assert.False(t, CanTransition(BookingCancelled, BookingPending))
	assert.False(t, CanTransition(BookingPaid, BookingPending))
	assert.False(t, CanTransition("unknown", BookingPaid))
}

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentPartial))
	assert.True(t, CanTransitionPayment(PaymentPending, "paid"))
	assert.True(t, CanTransitionPayment(PaymentCompleted, PaymentRefunded))
	assert.False(t, CanTransitionPayment(PaymentRefunded, PaymentCompleted))
	assert.False(t, CanTransitionPayment(PaymentPending, PaymentRefunded))
}

func TestStatusAfterPayment(t *testing.T) {
	b, p := StatusAfterPayment(10000, 5000)
	assert.Equal(t, BookingPaymentDue, b)
	assert.Equal(t, PaymentPartial, p)

	b, p = StatusAfterPayment(10000, 10000)
	assert.Equal(t, BookingPaid, b)
	assert.Equal(t, PaymentCompleted, p)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(BookingCompleted))
	assert.True(t, IsTerminal(BookingCancelled))
	assert.False(t, IsTerminal(BookingPaid))
}
