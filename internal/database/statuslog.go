package database

import (
	"log"

	"github.com/beratcankara/inoflow/internal/models"
)

// AppendStatusLog records a status change in the audit trail. The append
// is best-effort: a failure here must never fail the status update that
// triggered it.
func AppendStatusLog(taskID, userID string, from *models.TaskStatus, to models.TaskStatus) {
	if DB == nil {
		return
	}
	row := models.StatusLog{
		TaskID:     taskID,
		UserID:     userID,
		FromStatus: from,
		ToStatus:   to,
	}
	if err := DB.Create(&row).Error; err != nil {
		log.Printf("failed to append status log for task %s: %v", taskID, err)
	}
}
