package payment_controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/metrics"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/notification_models"
	"github.com/joy095/studio/models/payment_models"
	"github.com/joy095/studio/models/shared_models"
)

const maxWebhookBody = 1 << 20

// razorpayEvent is the part of a Razorpay webhook payload we read.
type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// captureSkipReason says why a captured payment must leave its booking alone, or "" when it may be applied.
func captureSkipReason(b *booking_models.Booking, amount float64) string {
	switch {
	case booking_rules.IsTerminal(b.Status):
		return "booking is " + b.Status
	case amount > b.Outstanding()+0.005:
		return "amount exceeds the outstanding balance"
	}
	return ""
}

// RazorpayWebhook settles the pending payment behind a captured Razorpay order.
func (pc *PaymentController) RazorpayWebhook(c *gin.Context) {
	if pc.Gateways == nil || pc.Gateways.Razorpay == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Razorpay is not enabled"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if !pc.Gateways.Razorpay.VerifyWebhook(c.GetHeader("X-Razorpay-Signature"), body) {
		logger.WarnLogger.Warn("Razorpay webhook with invalid signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var event razorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	orderID := event.Payload.Payment.Entity.OrderID
	if event.Event != "payment.captured" || orderID == "" {
		logger.InfoLogger.Infof("Ignoring Razorpay event %q", event.Event)
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	ctx := c.Request.Context()
	var (
		settled *payment_models.Payment
		receipt *paymentOutcome
	)
	err = db.WithTx(ctx, pc.DB, func(tx pgx.Tx) error {
		payment, err := payment_models.GetPaymentByGatewayOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if payment.Status != booking_rules.PaymentPending {
			return nil
		}
		booking, err := booking_models.LockBooking(ctx, tx, payment.BookingID)
		if err != nil {
			return err
		}

		bookingStatus, paymentStatus := booking_rules.StatusAfterPayment(booking.TotalAmount, booking.AmountPaid+payment.Amount)
		if err := payment_models.SetPaymentStatus(ctx, tx, payment, paymentStatus); err != nil {
			return err
		}
		if reason := captureSkipReason(booking, payment.Amount); reason != "" {
			logger.WarnLogger.Warnf("Payment %s captured but not applied to booking %s: %s", payment.ID, booking.ID, reason)
			settled = payment
			return notification_models.Notify(ctx, tx, shared_models.NotificationPayment, "Payment needs review",
				fmt.Sprintf("%.2f captured for booking %s was not applied: %s", payment.Amount, booking.ID, reason),
				booking.ID)
		}
		if err := settle(ctx, tx, booking, payment, bookingStatus); err != nil {
			return err
		}
		settled = payment
		receipt = &paymentOutcome{Booking: booking, Payment: payment}
		return nil
	})
	if err != nil {
		if errors.Is(err, payment_models.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown order"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to settle Razorpay order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle payment"})
		return
	}

	if receipt != nil {
		sendReceipt(*receipt)
	}
	if settled != nil {
		metrics.IncPaymentProcessed(settled.Status)
		logger.InfoLogger.Infof("Razorpay order %s settled as %s", orderID, settled.Status)
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
