package payment_controller

import "errors"

var (
	ErrBookingNotPayable        = errors.New("booking does not accept payments in its current status")
	ErrAmountExceedsOutstanding = errors.New("amount exceeds the outstanding balance")
	ErrNothingOutstanding       = errors.New("booking is already fully paid")
)
