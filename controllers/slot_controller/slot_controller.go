package slot_controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/booking_rules"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/package_models"
	"github.com/joy095/studio/models/slot_models"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/validation"
)

// maxBulkDays bounds one bulk create request.
const maxBulkDays = 92

type SlotController struct {
	DB *pgxpool.Pool
}

func NewSlotController(db *pgxpool.Pool) *SlotController {
	return &SlotController{DB: db}
}

type SlotRequest struct {
	PackageID uuid.UUID `json:"packageId" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	StartTime string    `json:"startTime" binding:"required"`
	EndTime   string    `json:"endTime" binding:"required"`
	Price     float64   `json:"price" binding:"gte=0"`
}

type TimeRange struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type BulkSlotRequest struct {
	PackageID uuid.UUID   `json:"packageId" binding:"required"`
	From      string      `json:"from" binding:"required"`
	To        string      `json:"to" binding:"required"`
	Times     []TimeRange `json:"times" binding:"required,min=1,dive"`
	Weekdays  []int       `json:"weekdays" binding:"dive,min=0,max=6"`
	Price     float64     `json:"price" binding:"gte=0"`
}

type AvailabilityRequest struct {
	IsAvailable bool `json:"isAvailable"`
}

type BlackoutRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"max=200"`
}

func today() time.Time {
	return validation.StartOfDay(time.Now().UTC())
}

// AvailableSlots lists the slots a customer can book for a package on ?date.
func (sc *SlotController) AvailableSlots(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("packageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package ID"})
		return
	}
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	now := time.Now().UTC()
	latest := validation.BookingHorizon(now)
	if msg := validation.ValidateBookingDate(date, now, latest); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	if _, err := package_models.GetPackageByID(ctx, sc.DB, packageID); err != nil {
		if errors.Is(err, package_models.ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to load package %s: %v", packageID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load slots"})
		return
	}

	slots, err := slot_models.ListSlotsForDate(ctx, sc.DB, packageID, date)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list slots: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load slots"})
		return
	}
	existing, err := booking_models.ExistingOnDate(ctx, sc.DB, date)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to load bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load slots"})
		return
	}
	blackouts, err := slot_models.ListBlackoutDates(ctx, sc.DB, date)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to load blackout dates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format(utils.DateLayout),
		"slots": availableSlots(slots, existing, slot_models.BlackoutDays(blackouts), now, latest),
	})
}

// availableSlots runs the booking rules over the rows and keeps the rows that pass.
func availableSlots(slots []slot_models.ScheduleSlot, existing []booking_rules.ExistingBooking, blackouts []time.Time, now, latest time.Time) []slot_models.ScheduleSlot {
	rules := make([]booking_rules.Slot, len(slots))
	for i, s := range slots {
		rules[i] = s.Rule()
	}
	keep := make(map[uuid.UUID]bool)
	for _, s := range booking_rules.FilterAvailable(rules, existing, blackouts, now, latest) {
		keep[s.ID] = true
	}

	out := make([]slot_models.ScheduleSlot, 0, len(keep))
	for _, s := range slots {
		if keep[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// ListSlots is the admin calendar: ?from&to (defaults to the next 30 days), optional ?packageId.
func (sc *SlotController) ListSlots(c *gin.Context) {
	from, to := today(), today().AddDate(0, 0, 30)
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = utils.ParseDate(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = utils.ParseDate(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
	}
	var packageID *uuid.UUID
	if v := c.Query("packageId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package ID"})
			return
		}
		packageID = &id
	}

	slots, err := slot_models.ListSlotsInRange(c.Request.Context(), sc.DB, packageID, from, to)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list slots: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list slots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots, "count": len(slots)})
}

func (sc *SlotController) CreateSlot(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if date.Before(today()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot date cannot be in the past"})
		return
	}
	slot, err := slot_models.NewScheduleSlot(req.PackageID, date, req.StartTime, req.EndTime, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := slot_models.CreateScheduleSlot(c.Request.Context(), sc.DB, slot)
	if err != nil {
		if errors.Is(err, slot_models.ErrSlotExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "A slot already exists at this date and time"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to create slot: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slot"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": created})
}

// buildBulkSlots expands a bulk request into one slot per matching day and time range.
func buildBulkSlots(req BulkSlotRequest, from, to time.Time) ([]*slot_models.ScheduleSlot, error) {
	if to.Before(from) {
		return nil, errors.New("to must not be before from")
	}
	if int(to.Sub(from).Hours()/24) >= maxBulkDays {
		return nil, errors.New("bulk range is limited to 92 days")
	}
	weekdays := make(map[time.Weekday]bool)
	for _, d := range req.Weekdays {
		weekdays[time.Weekday(d)] = true
	}

	var slots []*slot_models.ScheduleSlot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if len(weekdays) > 0 && !weekdays[day.Weekday()] {
			continue
		}
		for _, tr := range req.Times {
			s, err := slot_models.NewScheduleSlot(req.PackageID, day, tr.StartTime, tr.EndTime, req.Price)
			if err != nil {
				return nil, err
			}
			slots = append(slots, s)
		}
	}
	return slots, nil
}

// BulkCreateSlots creates the same time ranges on every day in [from, to]. Existing slots are skipped.
func (sc *SlotController) BulkCreateSlots(c *gin.Context) {
	var req BulkSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	from, err := utils.ParseDate(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := utils.ParseDate(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if from.Before(today()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot date cannot be in the past"})
		return
	}
	slots, err := buildBulkSlots(req, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := slot_models.CreateScheduleSlots(c.Request.Context(), sc.DB, slots)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to bulk create slots: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create slots"})
		return
	}
	logger.InfoLogger.Infof("Bulk created %d of %d slots for package %s", created, len(slots), req.PackageID)
	c.JSON(http.StatusCreated, gin.H{"created": created, "skipped": len(slots) - created})
}

func (sc *SlotController) slotError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, slot_models.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
	case errors.Is(err, slot_models.ErrSlotExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A slot already exists at this date and time"})
	case errors.Is(err, slot_models.ErrSlotInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot has active bookings"})
	default:
		logger.ErrorLogger.Errorf("Failed to %s slot: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " slot"})
	}
}

func (sc *SlotController) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}
	slot, err := slot_models.GetScheduleSlotByID(c.Request.Context(), sc.DB, id)
	if err != nil {
		sc.slotError(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (sc *SlotController) UpdateSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	slot, err := slot_models.NewScheduleSlot(req.PackageID, date, req.StartTime, req.EndTime, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot.ID = id

	updated, err := slot_models.UpdateScheduleSlot(c.Request.Context(), sc.DB, slot)
	if err != nil {
		sc.slotError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": updated})
}

// SetAvailability opens or closes a slot without deleting it.
func (sc *SlotController) SetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := slot_models.SetSlotAvailability(c.Request.Context(), sc.DB, id, req.IsAvailable); err != nil {
		sc.slotError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot availability updated", "isAvailable": req.IsAvailable})
}

func (sc *SlotController) DeleteSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}
	if err := slot_models.DeleteScheduleSlot(c.Request.Context(), sc.DB, id); err != nil {
		sc.slotError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot deleted"})
}

func (sc *SlotController) ListBlackoutDates(c *gin.Context) {
	dates, err := slot_models.ListBlackoutDates(c.Request.Context(), sc.DB, today())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list blackout dates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list blackout dates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blackoutDates": dates})
}

func (sc *SlotController) AddBlackoutDate(c *gin.Context) {
	var req BlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if err := slot_models.AddBlackoutDate(c.Request.Context(), sc.DB, date, req.Reason); err != nil {
		logger.ErrorLogger.Errorf("Failed to add blackout date: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add blackout date"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Blackout date added", "date": req.Date})
}

func (sc *SlotController) DeleteBlackoutDate(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if err := slot_models.DeleteBlackoutDate(c.Request.Context(), sc.DB, date); err != nil {
		if errors.Is(err, slot_models.ErrBlackoutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blackout date not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to delete blackout date: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blackout date"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blackout date removed"})
}
