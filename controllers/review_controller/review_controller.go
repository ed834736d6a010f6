package review_controller

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/models/package_models"
	"github.com/joy095/studio/models/review_models"
	"github.com/joy095/studio/utils"
)

type ReviewController struct {
	DB *pgxpool.Pool
}

func NewReviewController(db *pgxpool.Pool) *ReviewController {
	return &ReviewController{DB: db}
}

type ModerateRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected flagged"`
}

// ErrPackageMismatch is returned when the linked booking is for another package.
var ErrPackageMismatch = errors.New("booking is for a different package")

var reviewStatuses = []string{
	review_models.StatusPending,
	review_models.StatusApproved,
	review_models.StatusRejected,
	review_models.StatusFlagged,
}

func (rc *ReviewController) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, review_models.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
	case errors.Is(err, package_models.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
	case errors.Is(err, booking_models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, booking_models.ErrBookingNotOwnedByUser):
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking does not belong to you"})
	case errors.Is(err, ErrPackageMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking is for a different package"})
	default:
		logger.ErrorLogger.Errorf("Review request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Review request failed"})
	}
}

// bindInput reads and validates a review body, writing the 400 itself.
func bindInput(c *gin.Context) (review_models.Input, bool) {
	var in review_models.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "packageId is required"})
		return in, false
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if details := review_models.Validate(in); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return in, false
	}
	return in, true
}

func (rc *ReviewController) CreateReview(c *gin.Context) {
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
	if _, err := package_models.GetPackageByID(ctx, rc.DB, in.PackageID); err != nil {
		rc.reviewError(c, err)
		return
	}
	if in.BookingID != nil {
		booking, err := booking_models.GetUserBooking(ctx, rc.DB, *in.BookingID, userID)
		if err != nil {
			rc.reviewError(c, err)
			return
		}
		if booking.PackageID != in.PackageID {
			rc.reviewError(c, ErrPackageMismatch)
			return
		}
	}

	review, err := review_models.CreateReview(ctx, rc.DB, userID, in)
	if err != nil {
		rc.reviewError(c, err)
		return
	}
	if review.Status == review_models.StatusFlagged {
		logger.WarnLogger.Warnf("Review %s flagged for moderation", review.ID)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted for moderation", "review": review})
}

func (rc *ReviewController) ListMyReviews(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	reviews, err := review_models.ListReviewsByUser(c.Request.Context(), rc.DB, userID)
	if err != nil {
		rc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// UpdateMyReview rewrites a review; it goes back to moderation.
func (rc *ReviewController) UpdateMyReview(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	review, err := review_models.UpdateReview(c.Request.Context(), rc.DB, id, userID, in)
	if err != nil {
		rc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

func (rc *ReviewController) DeleteMyReview(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}
	if err := review_models.DeleteReview(c.Request.Context(), rc.DB, id, userID); err != nil {
		rc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

func (rc *ReviewController) AdminListReviews(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !slices.Contains(reviewStatuses, status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown review status"})
		return
	}
	reviews, err := review_models.ListReviews(c.Request.Context(), rc.DB, status)
	if err != nil {
		rc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func (rc *ReviewController) ModerateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved, rejected or flagged"})
		return
	}
	review, err := review_models.ModerateReview(c.Request.Context(), rc.DB, id, req.Status)
	if err != nil {
		rc.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review " + review.Status, "review": review})
}
