package booking_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/config"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/metrics"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/notification_models"
	"github.com/joy095/studio/models/package_models"
	"github.com/joy095/studio/models/shared_models"
	"github.com/joy095/studio/models/slot_models"
	"github.com/joy095/studio/pricing"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/mail"
	"github.com/joy095/studio/utils/shared_utils"
	"github.com/joy095/studio/utils/validation"
	"github.com/redis/go-redis/v9"
)

// BookingController handles studio bookings. Redis is optional; without it slot holds are skipped
// and the row lock plus the partial unique index still prevent double booking.
type BookingController struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewBookingController(db *pgxpool.Pool, rdb *redis.Client) *BookingController {
	return &BookingController{DB: db, Redis: rdb}
}

type CreateBookingRequest struct {
	PackageID       uuid.UUID `json:"packageId" binding:"required"`
	SlotID          uuid.UUID `json:"slotId" binding:"required"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress string    `json:"customerAddress"`
}

type ContactRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
}

func (r ContactRequest) fields() map[string]string {
	return map[string]string{
		"customerName":    r.CustomerName,
		"customerEmail":   r.CustomerEmail,
		"customerPhone":   r.CustomerPhone,
		"customerAddress": r.CustomerAddress,
	}
}

func (r ContactRequest) apply(b *booking_models.Booking) {
	b.CustomerName = strings.TrimSpace(r.CustomerName)
	b.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	b.CustomerPhone = validation.FormatPhone(r.CustomerPhone)
	b.CustomerAddress = strings.TrimSpace(r.CustomerAddress)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// userCancellable are the statuses a customer may cancel from without going through a refund.
var userCancellable = map[string]bool{
	booking_rules.BookingPending:    true,
	booking_rules.BookingConfirmed:  true,
	booking_rules.BookingPaymentDue: true,
}

// contactEditable are the statuses in which contact details may still change.
var contactEditable = map[string]bool{
	booking_rules.BookingPending:   true,
	booking_rules.BookingConfirmed: true,
}

// ruleError maps a booking rule violation to an HTTP status.
func ruleError(err error) (int, bool) {
	switch {
	case errors.Is(err, booking_rules.ErrSlotConflict),
		errors.Is(err, booking_rules.ErrSlotBooked),
		errors.Is(err, booking_models.ErrSlotAlreadyBooked),
		errors.Is(err, shared_utils.ErrSlotHeld):
		return http.StatusConflict, true
	case errors.Is(err, booking_rules.ErrDateInPast),
		errors.Is(err, booking_rules.ErrBeyondHorizon),
		errors.Is(err, booking_rules.ErrBlackoutDate),
		errors.Is(err, booking_rules.ErrInsufficientNotice),
		errors.Is(err, booking_rules.ErrInvalidSlotTime):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, booking_models.ErrBookingNotFound),
		errors.Is(err, slot_models.ErrSlotNotFound),
		errors.Is(err, package_models.ErrPackageNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, booking_models.ErrBookingNotOwnedByUser):
		return http.StatusForbidden, true
	case errors.Is(err, booking_models.ErrInvalidTransition),
		errors.Is(err, booking_models.ErrBookingNotEditable):
		return http.StatusUnprocessableEntity, true
	}
	return http.StatusInternalServerError, false
}

func respondError(c *gin.Context, err error, fallback string) {
	status, known := ruleError(err)
	if !known {
		logger.ErrorLogger.Errorf("%s: %v", fallback, err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// CreateBooking reserves a slot for the caller.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	logger.InfoLogger.Info("CreateBooking controller called")

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "packageId and slotId are required"})
		return
	}
	contact := ContactRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
	}
	now := time.Now().UTC()
	if details := validation.ValidateFields(contact.fields(), now); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}

	ctx := c.Request.Context()
	if bc.Redis != nil {
		if err := shared_utils.HoldSlot(ctx, bc.Redis, req.SlotID, userID, config.SlotHoldTTL); err != nil {
			if errors.Is(err, shared_utils.ErrSlotHeld) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			logger.WarnLogger.Warnf("Slot hold unavailable, continuing without it: %v", err)
		} else {
			defer shared_utils.ReleaseSlot(context.Background(), bc.Redis, req.SlotID, userID)
		}
	}

	var (
		booking *booking_models.Booking
		pkg     *package_models.Package
	)
	err = db.WithTx(ctx, bc.DB, func(tx pgx.Tx) error {
		var err error
		booking, pkg, err = bc.reserve(ctx, tx, userID, req, contact, now)
		return err
	})
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	metrics.IncBookingCreated()
	logger.InfoLogger.Infof("Booking %s created for user %s", booking.ID, userID)

	emailData := mail.BookingEmail{
		CustomerName: booking.CustomerName,
		PackageName:  pkg.Name,
		BookingID:    booking.ID.String(),
		Date:         booking.BookingDate.Format(utils.DateLayout),
		StartTime:    booking.StartTime,
		Total:        fmt.Sprintf("%.2f", booking.TotalAmount),
		Status:       booking.Status,
	}
	to := booking.CustomerEmail
	mail.SendAsync(func() error { return mail.SendBookingConfirmation(to, emailData) })

	c.JSON(http.StatusCreated, gin.H{"message": "Booking created", "booking": booking})
}

// reserve locks the slot, re-runs the booking rules against committed data and inserts the booking.
func (bc *BookingController) reserve(ctx context.Context, tx pgx.Tx, userID uuid.UUID, req CreateBookingRequest, contact ContactRequest, now time.Time) (*booking_models.Booking, *package_models.Package, error) {
	slot, err := slot_models.LockScheduleSlot(ctx, tx, req.SlotID)
	if err != nil {
		return nil, nil, err
	}
	if slot.PackageID != req.PackageID {
		return nil, nil, slot_models.ErrSlotNotFound
	}
	pkg, err := package_models.GetPackageByID(ctx, tx, req.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if !pkg.IsActive {
		return nil, nil, package_models.ErrPackageNotFound
	}

	blackouts, err := slot_models.ListBlackoutDates(ctx, tx, slot.SlotDate)
	if err != nil {
		return nil, nil, err
	}
	existing, err := booking_models.ExistingOnDate(ctx, tx, slot.SlotDate)
	if err != nil {
		return nil, nil, err
	}
	if err := booking_rules.Validate(slot.Rule(), existing, slot_models.BlackoutDays(blackouts), now, validation.BookingHorizon(now)); err != nil {
		return nil, nil, err
	}

	total := pricing.BookingTotal(pkg.Price, []pricing.Extra{{Name: "Slot fee", Price: slot.Price, Quantity: 1}})
	booking, err := booking_models.NewBooking(userID, pkg.ID, slot.ID, slot.SlotDate, slot.StartTime, total)
	if err != nil {
		return nil, nil, err
	}
	contact.apply(booking)
	booking.PackageName = pkg.Name
	booking.PackageTier = pkg.Tier

	if err := booking_models.CreateBooking(ctx, tx, booking); err != nil {
		return nil, nil, err
	}

	if err := notification_models.Notify(ctx, tx, shared_models.NotificationNewBooking, "New booking",
		fmt.Sprintf("%s booked %s on %s at %s", booking.CustomerName, pkg.Name, slot.SlotDate.Format(utils.DateLayout), slot.StartTime),
		booking.ID); err != nil {
		return nil, nil, err
	}
	return booking, pkg, nil
}

// ListMyBookings pages through the caller's bookings, optionally by ?status.
func (bc *BookingController) ListMyBookings(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	bc.list(c, &userID)
}

// AdminListBookings pages through all bookings with ?status, ?from and ?to filters.
func (bc *BookingController) AdminListBookings(c *gin.Context) {
	bc.list(c, nil)
}

func (bc *BookingController) list(c *gin.Context, userID *uuid.UUID) {
	status := c.Query("status")
	if status != "" && !booking_rules.IsBookingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status"})
		return
	}
	page, limit, offset := utils.ParsePagination(c)
	filter := booking_models.ListFilter{UserID: userID, Status: status, Limit: limit, Offset: offset}

	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if v := c.Query(param); v != "" {
			d, err := utils.ParseDate(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": param + " must be YYYY-MM-DD"})
				return
			}
			*dst = &d
		}
	}

	bookings, total, err := booking_models.ListBookings(c.Request.Context(), bc.DB, filter)
	if err != nil {
		respondError(c, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

func (bc *BookingController) ownedBooking(c *gin.Context) (*booking_models.Booking, bool) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return nil, false
	}
	booking, err := booking_models.GetUserBooking(c.Request.Context(), bc.DB, id, userID)
	if err != nil {
		respondError(c, err, "Failed to load booking")
		return nil, false
	}
	return booking, true
}

func (bc *BookingController) GetMyBooking(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "outstanding": booking.Outstanding()})
}

// UpdateMyBooking changes contact details while the booking is still pending or confirmed.
func (bc *BookingController) UpdateMyBooking(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if details := validation.ValidateFields(req.fields(), time.Now()); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}

	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}
	if !contactEditable[booking.Status] {
		respondError(c, booking_models.ErrBookingNotEditable, "")
		return
	}
	req.apply(booking)
	if err := booking_models.UpdateContact(c.Request.Context(), bc.DB, booking); err != nil {
		respondError(c, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated", "booking": booking})
}

// CancelMyBooking cancels an unpaid booking. Paid bookings are cancelled through a refund request.
func (bc *BookingController) CancelMyBooking(c *gin.Context) {
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}
	if !userCancellable[booking.Status] {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This booking cannot be cancelled here; request a refund instead"})
		return
	}

	ctx := c.Request.Context()
	err := db.WithTx(ctx, bc.DB, func(tx pgx.Tx) error {
		locked, err := booking_models.LockBooking(ctx, tx, booking.ID)
		if err != nil {
			return err
		}
		if !userCancellable[locked.Status] {
			return booking_models.ErrBookingNotEditable
		}
		if err := booking_models.CancelBooking(ctx, tx, locked, strings.TrimSpace(req.Reason)); err != nil {
			return err
		}
		booking = locked
		return notification_models.Notify(ctx, tx, shared_models.NotificationCancellation, "Booking cancelled",
			fmt.Sprintf("%s cancelled the booking on %s at %s", booking.CustomerName, booking.BookingDate.Format(utils.DateLayout), booking.StartTime),
			booking.ID)
	})
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	metrics.IncBookingStatus(booking_rules.BookingCancelled)
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully", "booking": booking})
}

// AdminUpdateStatus moves a booking along the status machine.
func (bc *BookingController) AdminUpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if !booking_rules.IsBookingStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status"})
		return
	}

	ctx := c.Request.Context()
	var booking *booking_models.Booking
	err = db.WithTx(ctx, bc.DB, func(tx pgx.Tx) error {
		booking, err = booking_models.LockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Status == booking_rules.BookingCancelled {
			return booking_models.CancelBooking(ctx, tx, booking, strings.TrimSpace(req.Reason))
		}
		return booking_models.UpdateBookingStatus(ctx, tx, booking, req.Status)
	})
	if err != nil {
		respondError(c, err, "Failed to update booking status")
		return
	}

	metrics.IncBookingStatus(booking.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated", "booking": booking})
}

// ExportBookings streams an .xlsx of bookings dated in [?from, ?to].
func (bc *BookingController) ExportBookings(c *gin.Context) {
	from, err := utils.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := utils.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	bookings, err := booking_models.ListBookingsBetween(c.Request.Context(), bc.DB, from, to)
	if err != nil {
		respondError(c, err, "Failed to export bookings")
		return
	}

	f, err := BuildBookingWorkbook(bookings)
	if err != nil {
		respondError(c, err, "Failed to export bookings")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("bookings_%s_%s.xlsx", from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		logger.ErrorLogger.Errorf("Failed to write booking export: %v", err)
	}
}
