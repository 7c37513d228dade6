package handlers

import (
	"net/http"
	"time"

	"github.com/beratcankara/inoflow/internal/access"
	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/events"
	"github.com/beratcankara/inoflow/internal/lifecycle"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"
	"github.com/beratcankara/inoflow/internal/notify"

	"github.com/gin-gonic/gin"
)

type changeStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// ChangeTaskStatus moves a task to a new status. Any (from, to) pair is
// accepted from an authorized caller; the interesting work is the
// derived-field stamps and the best-effort side effects, which must not
// fail the primary write.
func ChangeTaskStatus(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task, ok := getTask(c, c.Param("id"))
	if !ok {
		return
	}

	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	ch := lifecycle.Apply(task, req.Status, time.Now())

	if err := database.DB.Model(task).Updates(ch.Updates()).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task status"})
		return
	}

	// Audit trail and creator notification are best-effort from here on;
	// the status write already succeeded.
	from := ch.From
	database.AppendStatusLog(task.ID, ctx.UserID, &from, ch.To)

	if n, want := lifecycle.Notification(task, ch, ctx.UserID); want {
		notify.Send(c.Request.Context(), n)
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "tasks",
		Action:  "updated",
		RowID:   task.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	updated, ok := getTask(c, task.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListStatusLogs returns a task's status audit trail, newest first.
func ListStatusLogs(c *gin.Context) {
	taskID := c.Param("id")

	if _, ok := getTask(c, taskID); !ok {
		return
	}

	var logs []models.StatusLog
	err := database.DB.Where("task_id = ?", taskID).
		Preload("User").
		Order("created_at desc").
		Find(&logs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch status logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
