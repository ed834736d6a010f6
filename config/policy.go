package config

import "time"

// Booking windows.
const (
	BookingHorizonDays  = 90
	RentalHorizonMonths = 6
	MinAdvanceNotice    = 2 * time.Hour
	SlotHoldTTL         = 10 * time.Minute
)

// Refund policy. Requests closer than RefundCutoff to the booking are rejected;
// otherwise the first tier whose MinNotice is met decides the percentage.
const RefundCutoff = 24 * time.Hour

type RefundTier struct {
	MinNotice  time.Duration
	Percentage int
}

// RefundTiers is ordered from most to least notice.
var RefundTiers = []RefundTier{
	{MinNotice: 72 * time.Hour, Percentage: 100},
	{MinNotice: 48 * time.Hour, Percentage: 75},
	{MinNotice: RefundCutoff, Percentage: 50},
}

// Package tiers and the payment band each one accepts for a single payment (LKR).
const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
)

type AmountBand struct {
	Min float64
	Max float64
}

var PaymentBands = map[string]AmountBand{
	TierBasic:    {Min: 1000, Max: 50000},
	TierStandard: {Min: 5000, Max: 150000},
	TierPremium:  {Min: 10000, Max: 500000},
}
