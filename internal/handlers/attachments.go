package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/beratcankara/inoflow/internal/access"
	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/middleware"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ListAttachments(c *gin.Context) {
	taskID := c.Param("id")

	if _, ok := getTask(c, taskID); !ok {
		return
	}

	var attachments []models.Attachment
	err := database.DB.Where("task_id = ?", taskID).
		Order("created_at desc").
		Find(&attachments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attachments"})
		return
	}

	c.JSON(http.StatusOK, attachments)
}

// UploadAttachments stores each file in the object store, then records
// its metadata row. A row insert failure leaves the object orphaned on
// purpose: the bytes are already safe and the upload as a whole should
// not fail over bookkeeping.
func UploadAttachments(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	taskIDs := form.Value["taskId"]
	if len(taskIDs) == 0 || taskIDs[0] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	taskID := taskIDs[0]

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files to upload"})
		return
	}

	task, ok := getTask(c, taskID)
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	type uploadedFile struct {
		Name string `json:"name"`
		URL  string `json:"url,omitempty"`
	}
	uploaded := make([]uploadedFile, 0, len(files))

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		ext := strings.TrimPrefix(path.Ext(fh.Filename), ".")
		if ext == "" {
			ext = "bin"
		}
		key := taskID + "/" + uuid.NewString() + "." + ext

		if _, err := Store.Put(c.Request.Context(), key, data, contentType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		publicURL := BaseURL + "/files/" + key

		row := models.Attachment{
			TaskID:      taskID,
			FileName:    fh.Filename,
			MimeType:    contentType,
			SizeBytes:   fh.Size,
			StoragePath: key,
			PublicURL:   publicURL,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("failed to record attachment %s for task %s: %v", key, taskID, err)
		}

		uploaded = append(uploaded, uploadedFile{Name: fh.Filename, URL: publicURL})
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "files": uploaded})
}

func DeleteAttachment(c *gin.Context) {
	ctx, _ := middleware.Auth(c)

	attachmentID := c.Query("attachmentId")
	if attachmentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attachmentId is required"})
		return
	}

	var attachment models.Attachment
	err := database.DB.First(&attachment, "id = ? AND task_id = ?", attachmentID, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attachment"})
		}
		return
	}

	task, ok := getTask(c, attachment.TaskID)
	if !ok {
		return
	}
	if !access.CanEdit(ctx, task) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := database.DB.Delete(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete attachment"})
		return
	}

	// Row is gone; removing the bytes is best-effort.
	if Store != nil {
		if err := Store.Delete(c.Request.Context(), attachment.StoragePath); err != nil {
			log.Printf("failed to delete object %s: %v", attachment.StoragePath, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ServeFile streams attachment bytes back by storage key. Keys are
// unguessable uuids, which is what makes the URLs shareable.
func ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file key"})
		return
	}

	data, info, err := Store.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.Data(http.StatusOK, info.ContentType, data)
}
