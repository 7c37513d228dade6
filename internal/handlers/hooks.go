package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-gonic/gin"
)

// The hook endpoints are how the external automation system posts
// generated content back onto a task. They are gated by the shared
// webhook secret (middleware.RequireWebhookSecret), not by a session.

type hookSubtasksRequest struct {
	TaskID   string `json:"taskId"`
	Subtasks []struct {
		Title string `json:"title"`
	} `json:"subtasks"`
}

func HookSubtasks(c *gin.Context) {
	var req hookSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" || req.Subtasks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	rows := make([]models.Subtask, 0, len(req.Subtasks))
	for _, s := range req.Subtasks {
		if s.Title == "" {
			continue
		}
		rows = append(rows, models.Subtask{TaskID: req.TaskID, Title: s.Title})
	}

	if len(rows) == 0 {
		c.JSON(http.StatusOK, gin.H{"ok": true, "inserted": 0})
		return
	}

	if err := database.DB.Create(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert subtasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "inserted": len(rows)})
}

type hookSummaryRequest struct {
	TaskID  string  `json:"taskId"`
	Summary *string `json:"summary"`
}

func HookSummary(c *gin.Context) {
	var req hookSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" || req.Summary == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	res := database.DB.Model(&models.Task{}).
		Where("id = ?", req.TaskID).
		Update("summary", *req.Summary)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update summary"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type dispatchRequest struct {
	TaskID string `json:"taskId"`
}

// Dispatch posts a task and its attachment metadata to the automation
// webhook, which later calls back through the hook endpoints.
func Dispatch(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}

	if WebhookURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook url not configured"})
		return
	}

	task, ok := getTask(c, req.TaskID)
	if !ok {
		return
	}

	var attachments []models.Attachment
	database.DB.Where("task_id = ?", task.ID).Find(&attachments)

	type attachmentPayload struct {
		Name string `json:"name"`
		Mime string `json:"mime"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
		Path string `json:"path"`
	}
	payload := gin.H{
		"taskId":      task.ID,
		"title":       task.Title,
		"description": task.Description,
		"attachments": func() []attachmentPayload {
			out := make([]attachmentPayload, len(attachments))
			for i, a := range attachments {
				out[i] = attachmentPayload{
					Name: a.FileName,
					Mime: a.MimeType,
					Size: a.SizeBytes,
					URL:  a.PublicURL,
					Path: a.StoragePath,
				}
			}
			return out
		}(),
		"requestedBy": gin.H{"id": ctx.UserID, "role": ctx.Role},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build payload"})
		return
	}

	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, WebhookURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build request"})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if WebhookSecret != "" {
		httpReq.Header.Set("X-Webhook-Secret", WebhookSecret)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "webhook call failed"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "webhook call failed", "status": resp.StatusCode})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
