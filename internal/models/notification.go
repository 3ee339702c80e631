package models

import (
	"time"
)

// NotificationCategory groups notifications for filtering in the client
type NotificationCategory string

const (
	CategoryAppointment NotificationCategory = "appointment"
	CategoryMessage     NotificationCategory = "message"
	CategorySystem      NotificationCategory = "system"
)

// Notification is an in-app message delivered to a single user. Notifications
// are created by server-side workflows (e.g. a successful booking), never
// directly by the user that receives them.
type Notification struct {
	BaseModel
	UserID   string               `gorm:"size:36;index" json:"userId"`
	Title    string               `gorm:"size:255" json:"title"`
	Message  string               `gorm:"type:text" json:"message"`
	Category NotificationCategory `gorm:"size:20;default:'system'" json:"category"`
	IsRead   bool                 `gorm:"default:false" json:"isRead"`
	ReadAt   *time.Time           `json:"readAt,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
