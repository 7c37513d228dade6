package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusLog is the append-only audit trail of task status changes.
type StatusLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TaskID string `gorm:"type:uuid;not null;index" json:"task_id"`

	UserID string `gorm:"type:uuid;not null" json:"user_id"`
	User   User   `json:"user,omitempty"`

	// FromStatus is nil for the first log row of a task.
	FromStatus *TaskStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   TaskStatus  `gorm:"type:varchar(20);not null" json:"to_status"`
}

func (l *StatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
