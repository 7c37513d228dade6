package handlers

import (
	"errors"
	"net/http"

	"github.com/beratcankara/inoflow/internal/access"
	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"
	"github.com/beratcankara/inoflow/internal/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListNotes(c *gin.Context) {
	taskID := c.Param("id")

	var notes []models.Note
	err := database.DB.Where("task_id = ?", taskID).
		Preload("Author").
		Order("created_at desc").
		Find(&notes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notes"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

type noteRequest struct {
	Content string `json:"content"`
}

func CreateNote(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	task, ok := getTask(c, c.Param("id"))
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	note := models.Note{
		TaskID:    task.ID,
		Content:   req.Content,
		CreatedBy: ctx.UserID,
	}
	if err := database.DB.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create note"})
		return
	}

	// Mentioned users get a comment notification, fire-and-forget.
	notify.SendMentions(c.Request.Context(), task, ctx.UserID, ctx.Name, note.Content)

	var created models.Note
	if err := database.DB.Preload("Author").First(&created, "id = ?", note.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch note"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func getNote(c *gin.Context, taskID string) (*models.Note, *models.Task, bool) {
	noteID := c.Query("noteId")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "noteId is required"})
		return nil, nil, false
	}

	var note models.Note
	err := database.DB.First(&note, "id = ? AND task_id = ?", noteID, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch note"})
		}
		return nil, nil, false
	}

	task, ok := getTask(c, taskID)
	if !ok {
		return nil, nil, false
	}
	return &note, task, true
}

func UpdateNote(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	note, task, ok := getNote(c, c.Param("id"))
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	if err := database.DB.Model(note).Update("content", req.Content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update note"})
		return
	}

	notify.SendMentions(c.Request.Context(), task, ctx.UserID, ctx.Name, req.Content)

	var updated models.Note
	if err := database.DB.Preload("Author").First(&updated, "id = ?", note.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch note"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteNote(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	note, task, ok := getNote(c, c.Param("id"))
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := database.DB.Delete(note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
