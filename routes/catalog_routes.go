package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/package_controller"
	"github.com/joy095/studio/controllers/slot_controller"
	middleware "github.com/joy095/studio/middlewares"
)

// RegisterCatalogRoutes mounts packages, slots and blackout dates.
func RegisterCatalogRoutes(router *gin.Engine) {
	packageController := package_controller.NewPackageController(db.DB)
	slotController := slot_controller.NewSlotController(db.DB)

	public := router.Group("/api/packages")
	{
		public.GET("", packageController.ListPackages)
		public.GET("/:id", packageController.GetPackage)
		public.GET("/:id/reviews", packageController.PackageReviews)
	}

	protected := userGroup(router)
	{
		protected.GET("/slots/:packageId", middleware.NewRateLimiter("60-1m", "available-slots"), slotController.AvailableSlots)
	}

	admin := adminGroup(router)
	{
		admin.GET("/packages", packageController.AdminListPackages)
		admin.POST("/packages", packageController.CreatePackage)
		admin.PUT("/packages/:id", packageController.UpdatePackage)
		admin.DELETE("/packages/:id", packageController.DeletePackage)

		admin.GET("/slots", slotController.ListSlots)
		admin.POST("/slots", slotController.CreateSlot)
		admin.POST("/slots/bulk", middleware.NewRateLimiter("10-1m", "bulk-slots"), slotController.BulkCreateSlots)
		admin.GET("/slots/:id", slotController.GetSlot)
		admin.PUT("/slots/:id", slotController.UpdateSlot)
		admin.PUT("/slots/:id/availability", slotController.SetAvailability)
		admin.DELETE("/slots/:id", slotController.DeleteSlot)

		admin.GET("/blackout-dates", slotController.ListBlackoutDates)
		admin.POST("/blackout-dates", slotController.AddBlackoutDate)
		admin.DELETE("/blackout-dates/:date", slotController.DeleteBlackoutDate)
	}
}
