package booking_rules

// Booking statuses.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingPaymentDue = "payment_due"
	BookingPaid       = "paid"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Payment statuses. "paid" is accepted from clients as an alias of completed.
const (
	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
)

var bookingTransitions = map[string][]string{
	BookingPending:    {BookingConfirmed, BookingPaymentDue, BookingPaid, BookingCancelled},
	BookingConfirmed:  {BookingPaymentDue, BookingPaid, BookingCancelled},
	BookingPaymentDue: {BookingPaid, BookingCancelled},
	BookingPaid:       {BookingCompleted, BookingCancelled},
}

var paymentTransitions = map[string][]string{
	PaymentPending:   {PaymentPartial, PaymentCompleted},
	PaymentPartial:   {PaymentCompleted, PaymentRefunded},
	PaymentCompleted: {PaymentRefunded},
}

func IsBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingPaymentDue, BookingPaid, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	return allowed(bookingTransitions, from, to)
}

// CanTransitionPayment is CanTransition for payment statuses.
func CanTransitionPayment(from, to string) bool {
	return allowed(paymentTransitions, NormalizePaymentStatus(from), NormalizePaymentStatus(to))
}

func NormalizePaymentStatus(s string) string {
	if s == "paid" {
		return PaymentCompleted
	}
	return s
}

// IsTerminal reports statuses that accept no further changes.
func IsTerminal(status string) bool {
	return status == BookingCompleted || status == BookingCancelled
}

func allowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusAfterPayment picks the booking status once amountPaid of total is settled.
func StatusAfterPayment(total, amountPaid float64) (booking, payment string) {
	if amountPaid+0.005 >= total {
		return BookingPaid, PaymentCompleted
	}
	return BookingPaymentDue, PaymentPartial
}
