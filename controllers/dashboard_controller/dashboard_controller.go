package dashboard_controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/dashboard_models"
	"github.com/joy095/studio/utils"
	"github.com/joy095/studio/utils/validation"
)

type DashboardController struct {
	DB *pgxpool.Pool
}

func NewDashboardController(db *pgxpool.Pool) *DashboardController {
	return &DashboardController{DB: db}
}

func (dc *DashboardController) UserDashboard(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	dash, err := dashboard_models.GetUserDashboard(c.Request.Context(), dc.DB, userID, validation.StartOfDay(time.Now().UTC()))
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to build dashboard for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (dc *DashboardController) AdminDashboard(c *gin.Context) {
	dash, err := dashboard_models.GetAdminDashboard(c.Request.Context(), dc.DB, validation.StartOfDay(time.Now().UTC()))
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to build admin dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, dash)
}
