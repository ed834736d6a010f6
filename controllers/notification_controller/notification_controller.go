package notification_controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/notification_models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type NotificationController struct {
	DB *pgxpool.Pool
}

func NewNotificationController(db *pgxpool.Pool) *NotificationController {
	return &NotificationController{DB: db}
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultLimit
	}
	return min(n, maxLimit)
}

// ListNotifications returns the admin inbox, newest first. ?unread=true hides read items.
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	items, err := notification_models.ListNotifications(c.Request.Context(), nc.DB, unreadOnly, parseLimit(c.Query("limit")))
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	n, err := notification_models.UnreadCount(c.Request.Context(), nc.DB)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to count notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}
	if err := notification_models.MarkRead(c.Request.Context(), nc.DB, id); err != nil {
		if errors.Is(err, notification_models.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to mark notification %s read: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	n, err := notification_models.MarkAllRead(c.Request.Context(), nc.DB)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to mark notifications read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
}
