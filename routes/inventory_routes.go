package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/inventory_controller"
	middleware "github.com/joy095/studio/middlewares"
)

func RegisterInventoryRoutes(router *gin.Engine) {
	inventoryController := inventory_controller.NewInventoryController(db.DB)

	router.GET("/api/inventory", inventoryController.ListItems)
	router.GET("/api/inventory/:id", inventoryController.GetItem)

	protected := userGroup(router)
	{
		protected.POST("/inventory-bookings", middleware.CombinedRateLimiter("create-rental", "5-1m", "30-1h"), inventoryController.CreateRental)
		protected.GET("/inventory-bookings", inventoryController.ListMyRentals)
		protected.GET("/inventory-bookings/:id", inventoryController.GetMyRental)
		protected.DELETE("/inventory-bookings/:id", inventoryController.CancelMyRental)
	}

	admin := adminGroup(router)
	{
		admin.GET("/inventory", inventoryController.AdminListItems)
		admin.POST("/inventory", inventoryController.CreateItem)
		admin.PUT("/inventory/:id", inventoryController.UpdateItem)
		admin.DELETE("/inventory/:id", inventoryController.DeleteItem)
	}
}
