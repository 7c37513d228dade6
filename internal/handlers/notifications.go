package handlers

import (
	"net/http"
	"strconv"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/events"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"
	"github.com/beratcankara/inoflow/internal/notify"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	q := database.DB.
		Preload("Task").
		Preload("Sender").
		Preload("Receiver").
		Where("receiver_id = ?", ctx.UserID).
		Order("created_at desc").
		Limit(limit)

	if c.Query("unread_only") == "true" {
		q = q.Where("status = ?", models.NotifUnread)
	}

	var notifications []models.Notification
	if err := q.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

type createNotificationRequest struct {
	TaskID     string `json:"task_id"`
	ReceiverID string `json:"receiver_id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// CreateNotification is the direct endpoint; most notifications come
// out of the task write paths instead. Unlike those, this one reports
// its failure; the notification is the caller's primary operation.
func CreateNotification(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TaskID == "" || req.ReceiverID == "" || req.Type == "" || req.Title == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	n := models.Notification{
		TaskID:     req.TaskID,
		SenderID:   ctx.UserID,
		ReceiverID: req.ReceiverID,
		Type:       models.NotificationType(req.Type),
		Title:      req.Title,
		Message:    req.Message,
		Status:     models.NotifUnread,
	}
	if err := database.DB.Create(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create notification"})
		return
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "notifications",
		Action:  "created",
		RowID:   n.ID,
		TaskID:  n.TaskID,
		UserIDs: []string{n.ReceiverID},
	})

	c.JSON(http.StatusOK, n)
}

// MarkAllNotificationsRead flips every unread notification of the
// caller to read.
func MarkAllNotificationsRead(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	res := database.DB.Model(&models.Notification{}).
		Where("receiver_id = ? AND status = ?", ctx.UserID, models.NotifUnread).
		Update("status", models.NotifRead)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated_count": res.RowsAffected})
}
