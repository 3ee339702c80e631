package models

import (
	"time"
)

// RefreshToken represents a JWT refresh token in the database.
// Persistent login is handled entirely through these rotated tokens;
// there is no separate remember-me credential.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
