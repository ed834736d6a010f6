package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/complaint_controller"
	"github.com/joy095/studio/controllers/review_controller"
	middleware "github.com/joy095/studio/middlewares"
)

// RegisterFeedbackRoutes mounts reviews and complaints.
func RegisterFeedbackRoutes(router *gin.Engine) {
	reviewController := review_controller.NewReviewController(db.DB)
	complaintController := complaint_controller.NewComplaintController(db.DB)

	protected := userGroup(router)
	{
		protected.POST("/reviews", middleware.CombinedRateLimiter("create-review", "3-1m", "10-1h"), reviewController.CreateReview)
		protected.GET("/reviews", reviewController.ListMyReviews)
		protected.PUT("/reviews/:id", reviewController.UpdateMyReview)
		protected.DELETE("/reviews/:id", reviewController.DeleteMyReview)

		protected.POST("/complaints", middleware.CombinedRateLimiter("create-complaint", "3-1m", "10-1h"), complaintController.CreateComplaint)
		protected.GET("/complaints", complaintController.ListMyComplaints)
		protected.GET("/complaints/:id", complaintController.GetMyComplaint)
		protected.PUT("/complaints/:id", complaintController.UpdateMyComplaint)
		protected.DELETE("/complaints/:id", complaintController.DeleteMyComplaint)
	}

	admin := adminGroup(router)
	{
		admin.GET("/reviews", reviewController.AdminListReviews)
		admin.PUT("/reviews/:id/moderate", reviewController.ModerateReview)

		admin.GET("/complaints", complaintController.AdminListComplaints)
		admin.GET("/complaints/:id", complaintController.AdminGetComplaint)
		admin.PUT("/complaints/:id", complaintController.RespondToComplaint)
	}
}
