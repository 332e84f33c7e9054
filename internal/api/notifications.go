package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"account_portal/internal/middleware" // Auth context
	"account_portal/internal/service"    // Account operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListNotificationsHandler returns the newest notifications and the unread count
func ListNotificationsHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := service.DefaultNotificationLimit // Default page size
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v // Capped by the service
			}
		}
		unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

		items, unread, err := notifications.List(c.Request.Context(), middleware.UserID(c), limit, unreadOnly)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":         items,  // Newest first
			"unread_count": unread, // Across all notifications
		})
	}
}

// MarkNotificationReadHandler marks one notification of the user as read
func MarkNotificationReadHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := notifications.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}

// MarkAllNotificationsReadHandler marks every notification of the user as read
func MarkAllNotificationsReadHandler(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := notifications.MarkAllRead(c.Request.Context(), middleware.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
	}
}
