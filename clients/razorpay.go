package clients

import (
	"context"
	"fmt"
	"math"

	"github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// RazorpayAPI is the slice of the Razorpay SDK the gateway uses, so tests can fake it.
type RazorpayAPI interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
	VerifyPaymentSignature(signature, body, webhookSecret string) bool
}

// RazorpayClient implements RazorpayAPI with the real SDK.
type RazorpayClient struct {
	Client *razorpay.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{Client: razorpay.NewClient(keyID, keySecret)}
}

func (r *RazorpayClient) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return r.Client.Order.Create(data, nil)
}

// VerifyPaymentSignature checks a webhook body against its X-Razorpay-Signature header.
func (r *RazorpayClient) VerifyPaymentSignature(signature, body, webhookSecret string) bool {
	return utils.VerifyWebhookSignature(body, signature, webhookSecret)
}

// RazorpayGateway opens a Razorpay order for the charge. The payment stays pending
// until the payment.captured webhook arrives.
type RazorpayGateway struct {
	API           RazorpayAPI
	WebhookSecret string
}

func NewRazorpayGateway(api RazorpayAPI, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{API: api, WebhookSecret: webhookSecret}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

func (g *RazorpayGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	order, err := g.API.CreateOrder(map[string]interface{}{
		"amount":   int64(math.Round(req.Amount * 100)),
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes": map[string]interface{}{
			"booking_id": req.BookingID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay order failed: %w", err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response has no id")
	}
	return &ChargeResult{TransactionID: orderID, GatewayOrderID: orderID, Settled: false}, nil
}

// VerifyWebhook reports whether body was signed with the webhook secret.
func (g *RazorpayGateway) VerifyWebhook(signature string, body []byte) bool {
	if g.WebhookSecret == "" || signature == "" {
		return false
	}
	return g.API.VerifyPaymentSignature(signature, string(body), g.WebhookSecret)
}
