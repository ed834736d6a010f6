package booking_models

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/booking_rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	b, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), date, "14:30", 45000)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, booking_rules.BookingPending, b.Status)
	assert.Equal(t, 45000.0, b.TotalAmount)
	assert.Zero(t, b.AmountPaid)

	start, err := b.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 14, 30, 0, 0, time.UTC), start)
}

func TestOutstanding(t *testing.T) {
	b := &Booking{TotalAmount: 50000, AmountPaid: 20000}
	assert.Equal(t, 30000.0, b.Outstanding())

	b.AmountPaid = 50000
	assert.Zero(t, b.Outstanding())

	b.AmountPaid = 60000
	assert.Zero(t, b.Outstanding(), "overpayment never goes negative")
}

func TestStartsAtBadClock(t *testing.T) {
	b := &Booking{BookingDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), StartTime: "25:00"}
	_, err := b.StartsAt()
	assert.Error(t, err)
}

func TestNextPaymentStatus(t *testing.T) {
	got, err := nextPaymentStatus(booking_rules.BookingPending, booking_rules.BookingPaid)
	require.NoError(t, err)
	assert.Equal(t, booking_rules.BookingPaid, got)

	// a second partial payment leaves payment_due where it is
	got, err = nextPaymentStatus(booking_rules.BookingPaymentDue, booking_rules.BookingPaymentDue)
	require.NoError(t, err)
	assert.Equal(t, booking_rules.BookingPaymentDue, got)

	for _, from := range []string{booking_rules.BookingCompleted, booking_rules.BookingCancelled} {
		_, err = nextPaymentStatus(from, booking_rules.BookingPaid)
		assert.ErrorIs(t, err, ErrInvalidTransition, from)
	}
	_, err = nextPaymentStatus(booking_rules.BookingPaid, booking_rules.BookingPaymentDue)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	b := &Booking{TotalAmount: 10000, AmountPaid: 10000, Status: booking_rules.BookingPaid}
	err := RecordPayment(context.Background(), nil, b, 10000, "razorpay", booking_rules.BookingPaid)
	assert.ErrorIs(t, err, ErrOverpayment)
	assert.Equal(t, 10000.0, b.AmountPaid)
}
