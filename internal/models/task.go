package models

import "time"

type TaskStatus string
type TaskPriority string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusNewStarted TaskStatus = "NEW_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusInTesting  TaskStatus = "IN_TESTING"
	StatusCompleted  TaskStatus = "COMPLETED"

	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusNotStarted, StatusNewStarted, StatusInProgress, StatusInTesting, StatusCompleted:
		return true
	}
	return false
}

func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	Base
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:NOT_STARTED" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:MEDIUM" json:"priority"`

	// Summary is filled in by the automation webhook (see handlers/hooks.go).
	Summary string `gorm:"type:text" json:"summary,omitempty"`

	Deadline    *time.Time `json:"deadline,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Duration in whole seconds, set once at first completion.
	Duration *int64 `json:"duration,omitempty"`

	ClientID string `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   Client `json:"client,omitempty"`

	SystemID string `gorm:"type:uuid;not null;index" json:"system_id"`
	System   System `json:"system,omitempty"`

	AssignedTo   string `gorm:"type:uuid;not null;index" json:"assigned_to"`
	AssignedUser User   `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`

	CreatedBy string `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator   User   `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	Subtasks      []Subtask      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Notes         []Note         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Attachments   []Attachment   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StatusLogs    []StatusLog    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Subtask struct {
	Base
	TaskID string `gorm:"type:uuid;not null;index" json:"task_id"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedBy string `gorm:"type:uuid" json:"created_by,omitempty"`
	Author    User   `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
}

type Note struct {
	Base
	TaskID string `gorm:"type:uuid;not null;index" json:"task_id"`

	// Content is rich-text HTML from the note editor; mention spans carry
	// a data-mention-id attribute (see notify.Mentions).
	Content string `gorm:"type:text;not null" json:"content"`

	CreatedBy string `gorm:"type:uuid;not null" json:"created_by"`
	Author    User   `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
}

type Attachment struct {
	Base
	TaskID string `gorm:"type:uuid;not null;index" json:"task_id"`

	FileName    string `gorm:"size:512;not null" json:"file_name"`
	MimeType    string `gorm:"size:255" json:"mime_type"`
	SizeBytes   int64  `json:"size_bytes"`
	StoragePath string `gorm:"size:512;not null" json:"storage_path"`
	PublicURL   string `gorm:"size:1024" json:"public_url"`
}
