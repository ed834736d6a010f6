package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/dashboard_controller"
	"github.com/joy095/studio/controllers/notification_controller"
)

// RegisterDashboardRoutes mounts both dashboards and the admin notification feed.
func RegisterDashboardRoutes(router *gin.Engine) {
	dashboardController := dashboard_controller.NewDashboardController(db.DB)
	notificationController := notification_controller.NewNotificationController(db.DB)

	protected := userGroup(router)
	{
		protected.GET("/dashboard", dashboardController.UserDashboard)
	}

	admin := adminGroup(router)
	{
		admin.GET("/dashboard", dashboardController.AdminDashboard)

		admin.GET("/notifications", notificationController.ListNotifications)
		admin.GET("/notifications/unread-count", notificationController.UnreadCount)
		admin.PUT("/notifications/read-all", notificationController.MarkAllRead)
		admin.PUT("/notifications/:id/read", notificationController.MarkRead)
	}
}
