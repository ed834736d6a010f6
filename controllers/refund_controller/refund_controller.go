package refund_controller

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/metrics"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/notification_models"
	"github.com/joy095/studio/models/payment_models"
	"github.com/joy095/studio/models/refund_models"
	"github.com/joy095/studio/models/shared_models"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/mail"
	"github.com/joy095/studio/utils/validation"
)

var ErrNotEligible = errors.New("booking is not eligible for a refund")

type RefundController struct {
	DB *pgxpool.Pool
}

func NewRefundController(db *pgxpool.Pool) *RefundController {
	return &RefundController{DB: db}
}

type RefundRequest struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
	Reason    string    `json:"reason" binding:"required,min=5,max=500"`
}

type DecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Note   string `json:"note" binding:"max=500"`
}

// refundableStatuses are the booking statuses that can carry money to return.
var refundableStatuses = []string{booking_rules.BookingPaymentDue, booking_rules.BookingPaid}

// Eligibility evaluates the refund policy for a booking at now.
func Eligibility(b *booking_models.Booking, now time.Time) validation.RefundDecision {
	start, err := b.StartsAt()
	if err != nil {
		return validation.RefundDecision{Message: "Booking has an invalid start time"}
	}
	d := validation.RefundEligibility(start, now, b.AmountPaid)
	if !slices.Contains(refundableStatuses, b.Status) {
		d.Eligible = false
		d.Percentage = 0
		d.Amount = 0
		d.Message = fmt.Sprintf("Bookings that are %s cannot be refunded", strings.ReplaceAll(b.Status, "_", " "))
	}
	return d
}

func (rc *RefundController) refundError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking_models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking_models.ErrBookingNotOwnedByUser):
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking does not belong to you"})
	case errors.Is(err, refund_models.ErrRefundNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Refund not found"})
	case errors.Is(err, refund_models.ErrRefundExists), errors.Is(err, refund_models.ErrRefundDecided):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotEligible):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Refund request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refund request failed"})
	}
}

// CheckEligibility reports what the caller would get back for cancelling now.
func (rc *RefundController) CheckEligibility(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}
	booking, err := booking_models.GetUserBooking(c.Request.Context(), rc.DB, id, userID)
	if err != nil {
		rc.refundError(c, err)
		return
	}
	c.JSON(http.StatusOK, Eligibility(booking, time.Now().UTC()))
}

// RequestRefund cancels a paid booking and opens a refund for the policy amount.
func (rc *RefundController) RequestRefund(c *gin.Context) {
	logger.InfoLogger.Info("RequestRefund controller called")

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookingId and a reason (5-500 characters) are required"})
		return
	}

	ctx := c.Request.Context()
	var (
		refund   *refund_models.Refund
		booking  *booking_models.Booking
		decision validation.RefundDecision
	)
	err = db.WithTx(ctx, rc.DB, func(tx pgx.Tx) error {
		var err error
		booking, err = booking_models.LockBooking(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if booking.UserID != userID {
			return booking_models.ErrBookingNotFound
		}
		decision = Eligibility(booking, time.Now().UTC())
		if !decision.Eligible {
			return fmt.Errorf("%w: %s", ErrNotEligible, decision.Message)
		}

		reason := strings.TrimSpace(req.Reason)
		refund, err = refund_models.CreateRefund(ctx, tx, booking.ID, userID, decision.Amount, decision.Percentage, reason)
		if err != nil {
			return err
		}
		if err := booking_models.CancelBooking(ctx, tx, booking, reason); err != nil {
			return err
		}
		return notification_models.Notify(ctx, tx, shared_models.NotificationRefund, "Refund requested",
			fmt.Sprintf("%s requested a %d%% refund (%.2f) for the booking on %s", booking.CustomerName, decision.Percentage, decision.Amount, booking.BookingDate.Format(utils.DateLayout)),
			refund.ID)
	})
	if err != nil {
		rc.refundError(c, err)
		return
	}

	metrics.IncRefundRequested()
	metrics.IncBookingStatus(booking_rules.BookingCancelled)
	data := mail.RefundEmail{
		CustomerName: booking.CustomerName,
		BookingID:    booking.ID.String(),
		Amount:       fmt.Sprintf("%.2f", refund.Amount),
		Percentage:   refund.Percentage,
	}
	to := booking.CustomerEmail
	mail.SendAsync(func() error { return mail.SendRefundRequested(to, data) })

	c.JSON(http.StatusCreated, gin.H{"message": "Refund requested", "refund": refund, "decision": decision})
}

func (rc *RefundController) ListMyRefunds(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	refunds, err := refund_models.ListRefundsByUser(c.Request.Context(), rc.DB, userID)
	if err != nil {
		rc.refundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refunds": refunds})
}

func (rc *RefundController) AdminListRefunds(c *gin.Context) {
	status := c.Query("status")
	valid := []string{refund_models.StatusPending, refund_models.StatusApproved, refund_models.StatusRejected, refund_models.StatusProcessed}
	if status != "" && !slices.Contains(valid, status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown refund status"})
		return
	}
	refunds, err := refund_models.ListRefunds(c.Request.Context(), rc.DB, status)
	if err != nil {
		rc.refundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refunds": refunds})
}

func (rc *RefundController) AdminGetRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refund ID"})
		return
	}
	refund, err := refund_models.GetRefundByID(c.Request.Context(), rc.DB, id)
	if err != nil {
		rc.refundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": refund})
}

// DecideRefund approves or rejects a pending refund. Approval marks the booking's payments refunded.
func (rc *RefundController) DecideRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refund ID"})
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}

	ctx := c.Request.Context()
	var refund *refund_models.Refund
	err = db.WithTx(ctx, rc.DB, func(tx pgx.Tx) error {
		var err error
		refund, err = refund_models.LockRefund(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := refund_models.DecideRefund(ctx, tx, refund, req.Status, strings.TrimSpace(req.Note)); err != nil {
			return err
		}
		if refund.Status != refund_models.StatusApproved {
			return nil
		}
		n, err := payment_models.MarkBookingPaymentsRefunded(ctx, tx, refund.BookingID)
		if err != nil {
			return err
		}
		logger.InfoLogger.Infof("Refund %s approved; %d payments marked refunded", refund.ID, n)
		return nil
	})
	if err != nil {
		rc.refundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Refund " + refund.Status, "refund": refund})
}
