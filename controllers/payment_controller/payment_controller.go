package payment_controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/clients"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/metrics"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/notification_models"
	"github.com/joy095/studio/models/payment_models"
	"github.com/joy095/studio/models/shared_models"
	"github.com/joy095/studio/pricing"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/mail"
	"github.com/joy095/studio/utils/validation"
)

type PaymentController struct {
	DB       *pgxpool.Pool
	Gateways *clients.Gateways
}

func NewPaymentController(db *pgxpool.Pool, gateways *clients.Gateways) *PaymentController {
	return &PaymentController{DB: db, Gateways: gateways}
}

type ProcessPaymentRequest struct {
	BookingID  uuid.UUID `json:"bookingId" binding:"required"`
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Method     string    `json:"method" binding:"required"`
	CardNumber string    `json:"cardNumber"`
	ExpiryDate string    `json:"expiryDate"`
	CVV        string    `json:"cvv"`
	CardHolder string    `json:"cardHolder"`
}

// cardErrors validates the card fields; only card payments carry them.
func (r ProcessPaymentRequest) cardErrors(now time.Time) map[string]string {
	if r.Method != payment_models.MethodCard {
		return nil
	}
	return validation.ValidateFields(map[string]string{
		"cardNumber": r.CardNumber,
		"expiryDate": r.ExpiryDate,
		"cvv":        r.CVV,
		"cardHolder": r.CardHolder,
	}, now)
}

// payableStatuses accept new payments.
var payableStatuses = map[string]bool{
	booking_rules.BookingPending:    true,
	booking_rules.BookingConfirmed:  true,
	booking_rules.BookingPaymentDue: true,
}

// checkAmount applies the tier band and the outstanding balance. A payment that exactly
// settles the balance is accepted even below the band minimum.
func checkAmount(tier string, amount, outstanding float64) string {
	if outstanding <= 0 {
		return ErrNothingOutstanding.Error()
	}
	if amount > outstanding+0.005 {
		return fmt.Sprintf("%s (%.2f)", ErrAmountExceedsOutstanding.Error(), outstanding)
	}
	if math.Abs(amount-outstanding) < 0.005 {
		return ""
	}
	return validation.ValidatePaymentAmount(tier, amount)
}

// Methods lists the payment methods the studio accepts.
func (pc *PaymentController) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": pc.Gateways.Methods()})
}

type paymentOutcome struct {
	Booking *booking_models.Booking
	Payment *payment_models.Payment
}

// ProcessPayment charges the caller for one of their bookings.
func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	logger.InfoLogger.Info("ProcessPayment controller called")

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookingId, amount and method are required"})
		return
	}
	req.Amount = pricing.Round2(req.Amount)
	req.Method = normalizeMethod(req.Method)
	if !slices.Contains(pc.Gateways.Methods(), req.Method) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported payment method"})
		return
	}
	if details := req.cardErrors(time.Now()); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}
	gateway, err := pc.Gateways.For(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var out paymentOutcome
	var amountMsg string
	err = db.WithTx(ctx, pc.DB, func(tx pgx.Tx) error {
		booking, err := booking_models.LockBooking(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return booking_models.ErrBookingNotOwnedByUser
		}
		if !payableStatuses[booking.Status] {
			return ErrBookingNotPayable
		}
		pending, err := payment_models.PendingAmount(ctx, tx, booking.ID)
		if err != nil {
			return err
		}
		if amountMsg = checkAmount(booking.PackageTier, req.Amount, payableBalance(booking, pending)); amountMsg != "" {
			return nil
		}

		payment, err := pc.charge(ctx, tx, gateway, booking, req)
		if err != nil {
			return err
		}
		out = paymentOutcome{Booking: booking, Payment: payment}
		return nil
	})
	if err != nil {
		pc.paymentError(c, err)
		return
	}
	if amountMsg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": amountMsg})
		return
	}

	metrics.IncPaymentProcessed(out.Payment.Status)
	if out.Payment.Status == booking_rules.PaymentPending {
		c.JSON(http.StatusAccepted, gin.H{
			"message":  "Payment order created; awaiting gateway confirmation",
			"payment":  out.Payment,
			"orderId":  out.Payment.GatewayOrderID,
			"currency": pc.Gateways.Currency,
		})
		return
	}

	sendReceipt(out)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Payment processed",
		"payment":     out.Payment,
		"booking":     out.Booking,
		"outstanding": out.Booking.Outstanding(),
	})
}

// payableBalance is what may still be charged: the outstanding amount less orders awaiting capture.
func payableBalance(b *booking_models.Booking, pending float64) float64 {
	return pricing.Outstanding(b.TotalAmount, b.AmountPaid+pending)
}

// charge runs the gateway and records the payment. Settled charges update the booking at once.
func (pc *PaymentController) charge(ctx context.Context, tx pgx.Tx, gateway clients.PaymentGateway, booking *booking_models.Booking, req ProcessPaymentRequest) (*payment_models.Payment, error) {
	result, err := gateway.Charge(ctx, clients.ChargeRequest{
		BookingID: booking.ID,
		Amount:    req.Amount,
		Currency:  pc.Gateways.Currency,
		Method:    req.Method,
		Receipt:   booking.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	bookingStatus, paymentStatus := booking_rules.StatusAfterPayment(booking.TotalAmount, booking.AmountPaid+req.Amount)
	if !result.Settled {
		paymentStatus = booking_rules.PaymentPending
	}

	payment, err := payment_models.NewPayment(booking.ID, req.Amount, req.Method, paymentStatus, result.TransactionID)
	if err != nil {
		return nil, err
	}
	if result.GatewayOrderID != "" {
		payment.GatewayOrderID = &result.GatewayOrderID
	}
	if req.Method == payment_models.MethodCard {
		last4 := validation.CardLast4(req.CardNumber)
		masked := validation.MaskCardNumber(req.CardNumber)
		payment.CardLast4 = &last4
		payment.CardMasked = &masked
	}
	if err := payment_models.CreatePayment(ctx, tx, payment); err != nil {
		return nil, err
	}
	if !result.Settled {
		return payment, nil
	}

	if err := settle(ctx, tx, booking, payment, bookingStatus); err != nil {
		return nil, err
	}
	return payment, nil
}

// settle applies a settled payment to its booking and tells the admins.
func settle(ctx context.Context, tx pgx.Tx, booking *booking_models.Booking, payment *payment_models.Payment, bookingStatus string) error {
	if err := booking_models.RecordPayment(ctx, tx, booking, payment.Amount, payment.Method, bookingStatus); err != nil {
		return err
	}
	return notification_models.Notify(ctx, tx, shared_models.NotificationPayment, "Payment received",
		fmt.Sprintf("%.2f received for booking on %s (%s)", payment.Amount, booking.BookingDate.Format(utils.DateLayout), payment.Status),
		booking.ID)
}

func sendReceipt(out paymentOutcome) {
	data := mail.PaymentEmail{
		CustomerName:  out.Booking.CustomerName,
		BookingID:     out.Booking.ID.String(),
		TransactionID: out.Payment.TransactionID,
		Amount:        fmt.Sprintf("%.2f", out.Payment.Amount),
		Outstanding:   fmt.Sprintf("%.2f", out.Booking.Outstanding()),
	}
	if out.Payment.CardMasked != nil {
		data.CardMasked = *out.Payment.CardMasked
	}
	to := out.Booking.CustomerEmail
	mail.SendAsync(func() error { return mail.SendPaymentReceipt(to, data) })
}

func (pc *PaymentController) paymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking_models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking_models.ErrBookingNotOwnedByUser):
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking does not belong to this user"})
	case errors.Is(err, ErrBookingNotPayable), errors.Is(err, booking_models.ErrOverpayment),
		errors.Is(err, booking_models.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, clients.ErrDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, payment_models.ErrDuplicatePayment):
		c.JSON(http.StatusConflict, gin.H{"error": "Transaction already recorded"})
	default:
		logger.ErrorLogger.Errorf("Payment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment failed"})
	}
}

// BookingPayments lists payments on a booking. Customers only see their own; admins see any.
func (pc *PaymentController) BookingPayments(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	ctx := c.Request.Context()
	booking, err := booking_models.GetBookingByID(ctx, pc.DB, bookingID)
	if err != nil {
		pc.paymentError(c, err)
		return
	}
	if booking.UserID != userID && utils.GetRoleFromContext(c) != shared_models.RoleAdmin {
		pc.paymentError(c, booking_models.ErrBookingNotOwnedByUser)
		return
	}

	payments, err := payment_models.ListPaymentsForBooking(ctx, pc.DB, bookingID)
	if err != nil {
		pc.paymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":    payments,
		"totalAmount": booking.TotalAmount,
		"amountPaid":  booking.AmountPaid,
		"outstanding": booking.Outstanding(),
	})
}

// normalizeMethod lowercases user input so "Card" and "card" match.
func normalizeMethod(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}
