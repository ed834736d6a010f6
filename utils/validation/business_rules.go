package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/joy095/studio/config"
)

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BookingHorizon is the last bookable day for studio sessions.
func BookingHorizon(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, config.BookingHorizonDays)
}

// RentalHorizon is the last day an equipment rental may start or end.
func RentalHorizon(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, config.RentalHorizonMonths, 0)
}

// ValidateBookingDate accepts calendar days from today through latest inclusive.
func ValidateBookingDate(date, now, latest time.Time) string {
	if date.IsZero() {
		return "Booking date is required"
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(StartOfDay(now)) {
		return "Booking date cannot be in the past"
	}
	if day.After(StartOfDay(latest)) {
		return fmt.Sprintf("Booking date cannot be later than %s", latest.Format("2006-01-02"))
	}
	return ""
}

// RefundDecision is the outcome of the refund policy for one booking.
type RefundDecision struct {
	Eligible          bool    `json:"eligible"`
	Percentage        int     `json:"percentage"`
	Amount            float64 `json:"amount"`
	HoursUntilBooking float64 `json:"hoursUntilBooking"`
	Message           string  `json:"message"`
}

// RefundEligibility applies config.RefundTiers to a booking starting at bookingTime.
// Requests made less than config.RefundCutoff before the booking are never eligible.
func RefundEligibility(bookingTime, now time.Time, amountPaid float64) RefundDecision {
	notice := bookingTime.Sub(now)
	d := RefundDecision{HoursUntilBooking: math.Round(notice.Hours()*100) / 100}

	if amountPaid <= 0 {
		d.Message = "No payment has been made for this booking"
		return d
	}
	if notice < config.RefundCutoff {
		d.Message = fmt.Sprintf("Refunds must be requested at least %d hours before the booking", int(config.RefundCutoff.Hours()))
		return d
	}

	for _, tier := range config.RefundTiers {
		if notice >= tier.MinNotice {
			d.Eligible = true
			d.Percentage = tier.Percentage
			d.Amount = math.Round(amountPaid*float64(tier.Percentage)) / 100
			d.Message = fmt.Sprintf("Eligible for a %d%% refund", tier.Percentage)
			return d
		}
	}

	d.Message = "Booking is not eligible for a refund"
	return d
}

// ValidatePaymentAmount checks amount against the band configured for the package tier.
func ValidatePaymentAmount(tier string, amount float64) string {
	band, ok := config.PaymentBands[tier]
	if !ok {
		return fmt.Sprintf("Unknown package tier %q", tier)
	}
	if math.IsNaN(amount) || amount <= 0 {
		return "Payment amount must be greater than zero"
	}
	if amount < band.Min || amount > band.Max {
		return fmt.Sprintf("Payment amount for %s packages must be between %.2f and %.2f", tier, band.Min, band.Max)
	}
	return ""
}
