package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joy095/studio/config"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/utils/shared_utils"
)

var ErrDeclined = errors.New("payment declined")

// ChargeRequest is one charge against a booking.
type ChargeRequest struct {
	BookingID uuid.UUID
	Amount    float64
	Currency  string
	Method    string
	Receipt   string
}

// ChargeResult is what the gateway reports back. Settled is false when confirmation
// arrives later by webhook.
type ChargeResult struct {
	TransactionID  string
	GatewayOrderID string
	Settled        bool
}

// PaymentGateway charges customers.
type PaymentGateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SimulatedGateway settles every charge at once with a TXN-prefixed id.
type SimulatedGateway struct{}

func (SimulatedGateway) Name() string { return "simulated" }

func (SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrDeclined)
	}
	id, err := shared_utils.GenerateTinyID(12)
	if err != nil {
		return nil, err
	}
	return &ChargeResult{TransactionID: "TXN-" + strings.ToUpper(id), Settled: true}, nil
}

// Gateways routes a payment method to the gateway that handles it.
type Gateways struct {
	Simulated PaymentGateway
	Razorpay  *RazorpayGateway
	Currency  string
}

// NewGatewaysFromEnv wires Razorpay when RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are set.
func NewGatewaysFromEnv() *Gateways {
	g := &Gateways{
		Simulated: SimulatedGateway{},
		Currency:  config.GetEnv("PAYMENT_CURRENCY", "LKR"),
	}
	keyID := config.GetEnv("RAZORPAY_KEY_ID", "")
	keySecret := config.GetEnv("RAZORPAY_KEY_SECRET", "")
	if keyID != "" && keySecret != "" {
		g.Razorpay = NewRazorpayGateway(NewRazorpayClient(keyID, keySecret), config.GetEnv("RAZORPAY_WEBHOOK_SECRET", ""))
		logger.InfoLogger.Info("Razorpay gateway enabled")
	} else {
		logger.InfoLogger.Info("Razorpay not configured; payments are simulated")
	}
	return g
}

// For picks the gateway for a method.
func (g *Gateways) For(method string) (PaymentGateway, error) {
	if method == "razorpay" {
		if g.Razorpay == nil {
			return nil, errors.New("razorpay is not enabled")
		}
		return g.Razorpay, nil
	}
	return g.Simulated, nil
}

// Methods lists what customers may pay with.
func (g *Gateways) Methods() []string {
	methods := []string{"card", "bank_transfer", "cash"}
	if g.Razorpay != nil {
		methods = append(methods, "razorpay")
	}
	return methods
}
