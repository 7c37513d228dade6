package models

type Client struct {
	Base
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Systems []System `json:"systems,omitempty"`
}

type System struct {
	Base
	ClientID string `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   Client `json:"client,omitempty"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}
