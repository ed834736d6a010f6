package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/middlewares/auth"
	"github.com/joy095/studio/models/shared_models"
)

// userGroup is /api/user behind the bearer token check.
func userGroup(router *gin.Engine) *gin.RouterGroup {
	protected := router.Group("/api/user")
	protected.Use(auth.AuthMiddleware())
	return protected
}

// adminGroup is /api/admin, open to the admin role only.
func adminGroup(router *gin.Engine) *gin.RouterGroup {
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireRole(shared_models.RoleAdmin))
	return admin
}
