package models

import (
	"time"
)

type Post struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID        uint      `gorm:"not null;index" json:"owner_id"`
	Owner          User      `json:"-" gorm:"foreignKey:OwnerID"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Status         Status    `gorm:"type:varchar(10);default:ACTIVE" json:"status"`
	AIEnabled      bool      `gorm:"default:false" json:"ai_enabled"`
	AIDelayMinutes int       `gorm:"default:5" json:"ai_delay_minutes"`
	Comments       []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
