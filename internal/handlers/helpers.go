package handlers

import (
	"errors"
	"net/http"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/mailer"
	"github.com/beratcankara/inoflow/internal/models"
	"github.com/beratcankara/inoflow/internal/realtime"
	"github.com/beratcankara/inoflow/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Wiring shared by the handlers, set once from the serve command.
var (
	Store   storage.ObjectStore
	Hub     *realtime.Hub
	Mail    *mailer.Mailer
	BaseURL string

	// Outbound automation webhook (the dispatch endpoint).
	WebhookURL    string
	WebhookSecret string
)

// lookupRole resolves a user's role for the assigner third-party view
// path in the access predicate.
func lookupRole(userID string) (models.UserRole, error) {
	var user models.User
	if err := database.DB.Select("role").First(&user, "id = ?", userID).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

// getTask fetches a task with its relations, writing 404 and returning
// false when it does not exist.
func getTask(c *gin.Context, id string) (*models.Task, bool) {
	var task models.Task
	err := database.DB.
		Preload("Client").
		Preload("System").
		Preload("AssignedUser").
		Preload("Creator").
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch task"})
		}
		return nil, false
	}
	return &task, true
}
