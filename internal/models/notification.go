package models

type NotificationType string
type NotificationStatus string

const (
	NotifTaskAssigned      NotificationType = "TASK_ASSIGNED"
	NotifTaskStatusChanged NotificationType = "TASK_STATUS_CHANGED"
	NotifTaskCompleted     NotificationType = "TASK_COMPLETED"
	NotifTaskComment       NotificationType = "TASK_COMMENT"

	NotifUnread NotificationStatus = "UNREAD"
	NotifRead   NotificationStatus = "READ"
)

type Notification struct {
	Base
	TaskID string `gorm:"type:uuid;not null;index" json:"task_id"`
	Task   Task   `json:"task,omitempty"`

	SenderID string `gorm:"type:uuid;not null" json:"sender_id"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	ReceiverID string `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Receiver   User   `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`

	Type    NotificationType   `gorm:"type:varchar(30);not null" json:"type"`
	Title   string             `gorm:"size:255;not null" json:"title"`
	Message string             `gorm:"type:text;not null" json:"message"`
	Status  NotificationStatus `gorm:"type:varchar(10);not null;default:UNREAD" json:"status"`
}
