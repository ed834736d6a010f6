package complaint_controller

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/complaint_models"
	"github.com/joy095/studio/models/notification_models"
	"github.com/joy095/studio/models/shared_models"
	"github.com/joy095/studio/utils"
)

type ComplaintController struct {
	DB *pgxpool.Pool
}

func NewComplaintController(db *pgxpool.Pool) *ComplaintController {
	return &ComplaintController{DB: db}
}

type RespondRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"adminResponse" binding:"max=2000"`
}

func (cc *ComplaintController) complaintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaint_models.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
	case errors.Is(err, booking_models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking_models.ErrBookingNotOwnedByUser):
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking does not belong to you"})
	case errors.Is(err, complaint_models.ErrComplaintLocked):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Complaint request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Complaint request failed"})
	}
}

func bindInput(c *gin.Context) (complaint_models.Input, bool) {
	var in complaint_models.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return in, false
	}
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	if details := complaint_models.Validate(&in); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return in, false
	}
	return in, true
}

// CreateComplaint files a complaint, optionally about one of the caller's bookings.
func (cc *ComplaintController) CreateComplaint(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var complaint *complaint_models.Complaint
	err = db.WithTx(ctx, cc.DB, func(tx pgx.Tx) error {
		if in.BookingID != nil {
			if _, err := booking_models.GetUserBooking(ctx, tx, *in.BookingID, userID); err != nil {
				return err
			}
		}
		var err error
		complaint, err = complaint_models.CreateComplaint(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		return notification_models.Notify(ctx, tx, shared_models.NotificationComplaint, "New complaint",
			fmt.Sprintf("[%s] %s", complaint.Priority, complaint.Title), complaint.ID)
	})
	if err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Complaint submitted", "complaint": complaint})
}

func (cc *ComplaintController) ListMyComplaints(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	complaints, err := complaint_models.ListComplaintsByUser(c.Request.Context(), cc.DB, userID)
	if err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

func (cc *ComplaintController) ownedComplaint(c *gin.Context) (*complaint_models.Complaint, bool) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return nil, false
	}
	complaint, err := complaint_models.GetUserComplaint(c.Request.Context(), cc.DB, id, userID)
	if err != nil {
		cc.complaintError(c, err)
		return nil, false
	}
	return complaint, true
}

func (cc *ComplaintController) GetMyComplaint(c *gin.Context) {
	complaint, ok := cc.ownedComplaint(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

func (cc *ComplaintController) UpdateMyComplaint(c *gin.Context) {
	complaint, ok := cc.ownedComplaint(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	updated, err := complaint_models.UpdateComplaint(c.Request.Context(), cc.DB, complaint, in)
	if err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint updated", "complaint": updated})
}

func (cc *ComplaintController) DeleteMyComplaint(c *gin.Context) {
	complaint, ok := cc.ownedComplaint(c)
	if !ok {
		return
	}
	if err := complaint_models.DeleteComplaint(c.Request.Context(), cc.DB, complaint); err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted"})
}

// AdminListComplaints filters by ?status and ?priority.
func (cc *ComplaintController) AdminListComplaints(c *gin.Context) {
	status, priority := c.Query("status"), c.Query("priority")
	if status != "" && !slices.Contains(complaint_models.Statuses, status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown complaint status"})
		return
	}
	if priority != "" && !slices.Contains(complaint_models.Priorities, priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown complaint priority"})
		return
	}
	complaints, err := complaint_models.ListComplaints(c.Request.Context(), cc.DB, status, priority)
	if err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "count": len(complaints)})
}

func (cc *ComplaintController) AdminGetComplaint(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}
	complaint, err := complaint_models.GetComplaintByID(c.Request.Context(), cc.DB, id)
	if err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

func (cc *ComplaintController) RespondToComplaint(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if !slices.Contains(complaint_models.Statuses, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown complaint status"})
		return
	}
	complaint, err := complaint_models.RespondToComplaint(c.Request.Context(), cc.DB, id, req.Status, strings.TrimSpace(req.AdminResponse))
	if err != nil {
		cc.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint updated", "complaint": complaint})
}
