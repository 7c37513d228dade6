package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/beratcankara/inoflow/internal/access"
	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/events"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"
	"github.com/beratcankara/inoflow/internal/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListSubtasks(c *gin.Context) {
	taskID := c.Param("id")

	var subtasks []models.Subtask
	err := database.DB.Where("task_id = ?", taskID).
		Preload("Author").
		Order("created_at desc").
		Find(&subtasks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subtasks"})
		return
	}

	c.JSON(http.StatusOK, subtasks)
}

type createSubtaskRequest struct {
	Title string `json:"title"`
}

func CreateSubtask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	task, ok := getTask(c, c.Param("id"))
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req createSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	subtask := models.Subtask{
		TaskID:    task.ID,
		Title:     req.Title,
		CreatedBy: ctx.UserID,
	}
	if err := database.DB.Create(&subtask).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subtask"})
		return
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "subtasks",
		Action:  "created",
		RowID:   subtask.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	c.JSON(http.StatusOK, subtask)
}

// getSubtask loads the subtask together with its parent task, writing
// 404 when either is missing.
func getSubtask(c *gin.Context, taskID, subtaskID string) (*models.Subtask, *models.Task, bool) {
	var subtask models.Subtask
	err := database.DB.First(&subtask, "id = ? AND task_id = ?", subtaskID, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subtask not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subtask"})
		}
		return nil, nil, false
	}

	task, ok := getTask(c, taskID)
	if !ok {
		return nil, nil, false
	}
	return &subtask, task, true
}

type updateSubtaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// UpdateSubtask edits a subtask; flipping completed sets or clears
// completed_at.
func UpdateSubtask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	subtask, task, ok := getSubtask(c, c.Param("id"), c.Param("subtaskId"))
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req updateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = *req.Title
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
		if *req.Completed {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}

	if len(updates) > 0 {
		if err := database.DB.Model(subtask).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subtask"})
			return
		}
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "subtasks",
		Action:  "updated",
		RowID:   subtask.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	var updated models.Subtask
	if err := database.DB.Preload("Author").First(&updated, "id = ?", subtask.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subtask"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteSubtask(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	subtask, task, ok := getSubtask(c, c.Param("id"), c.Param("subtaskId"))
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := database.DB.Delete(subtask).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subtask"})
		return
	}

	notify.Publish(c.Request.Context(), events.Event{
		Table:   "subtasks",
		Action:  "deleted",
		RowID:   subtask.ID,
		TaskID:  task.ID,
		UserIDs: []string{task.AssignedTo, task.CreatedBy},
	})

	c.JSON(http.StatusOK, gin.H{"success": true})
}
