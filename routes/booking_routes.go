package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/booking_controller"
	middleware "github.com/joy095/studio/middlewares"
	"github.com/redis/go-redis/v9"
)

// RegisterBookingRoutes mounts the booking endpoints. rdb may be nil, in which
// case bookings rely on the database lock alone.
func RegisterBookingRoutes(router *gin.Engine, rdb *redis.Client) {
	bookingController := booking_controller.NewBookingController(db.DB, rdb)

	protected := userGroup(router)
	{
		protected.POST("/bookings", middleware.CombinedRateLimiter("create-booking", "5-1m", "30-1h"), bookingController.CreateBooking)
		protected.GET("/bookings", bookingController.ListMyBookings)
		protected.GET("/bookings/:id", bookingController.GetMyBooking)
		protected.PUT("/bookings/:id", middleware.NewRateLimiter("10-1m", "update-booking"), bookingController.UpdateMyBooking)
		protected.DELETE("/bookings/:id", middleware.NewRateLimiter("5-1m", "cancel-booking"), bookingController.CancelMyBooking)
	}

	admin := adminGroup(router)
	{
		admin.GET("/bookings", bookingController.AdminListBookings)
		admin.GET("/bookings/export", middleware.NewRateLimiter("5-1m", "export-bookings"), bookingController.ExportBookings)
		admin.PUT("/bookings/:id/status", bookingController.AdminUpdateStatus)
	}
}
