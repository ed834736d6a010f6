package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/auth_controller"
	middleware "github.com/joy095/studio/middlewares"
	"github.com/joy095/studio/middlewares/auth"
)

func RegisterAuthRoutes(router *gin.Engine) {
	authController := auth_controller.NewAuthController(db.DB)

	// Public routes
	public := router.Group("/api/auth")
	{
		public.POST("/register", middleware.CombinedRateLimiter("register", "10-2m", "30-60m"), authController.Register)
		public.POST("/login", middleware.CombinedRateLimiter("login", "10-2m", "30-30m"), authController.Login)
		public.POST("/admin/login", middleware.CombinedRateLimiter("admin-login", "5-2m", "20-30m"), authController.AdminLogin)
	}

	// Protected routes
	protected := router.Group("/api/auth")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/logout", middleware.CombinedRateLimiter("logout", "5-1m", "20-10m"), authController.Logout)
		protected.GET("/me", authController.Me)
	}
}
