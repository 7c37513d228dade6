package handlers

import (
	"errors"
	"net/http"

	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListSystems(c *gin.Context) {
	q := database.DB.Order("name asc")
	if clientID := c.Query("clientId"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}

	var systems []models.System
	if err := q.Find(&systems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch systems"})
		return
	}
	c.JSON(http.StatusOK, systems)
}

type systemRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ClientID    string `json:"client_id"`
}

func CreateSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.ClientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and client_id are required"})
		return
	}

	var client models.Client
	if err := database.DB.First(&client, "id = ?", req.ClientID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
		return
	}

	system := models.System{Name: req.Name, Description: req.Description, ClientID: client.ID}
	if err := database.DB.Create(&system).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create system"})
		return
	}
	c.JSON(http.StatusOK, system)
}

func UpdateSystem(c *gin.Context) {
	var req systemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	var system models.System
	if err := database.DB.First(&system, "id = ?", req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "system not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch system"})
		}
		return
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	updates["description"] = req.Description

	if err := database.DB.Model(&system).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update system"})
		return
	}
	c.JSON(http.StatusOK, system)
}

// DeleteSystem refuses to delete a system that still has tasks.
func DeleteSystem(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	var system models.System
	if err := database.DB.First(&system, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "system not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch system"})
		}
		return
	}

	var tasks int64
	if err := database.DB.Model(&models.Task{}).Where("system_id = ?", id).Count(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete system"})
		return
	}
	if tasks > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "system still has tasks"})
		return
	}

	if err := database.DB.Delete(&system).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete system"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
