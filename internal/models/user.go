package models

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleAssigner UserRole = "ASSIGNER"
	RoleWorker   UserRole = "WORKER"
)

type User struct {
	Base
	Name         string   `gorm:"size:255;not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}
