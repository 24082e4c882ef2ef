package models

import (
	"time"
)

// Comment is a reply to a post, or to another comment via ParentID. The
// parent chain is only validated at write time (parent must exist under the
// same post); readers must tolerate a deleted ancestor.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     User      `json:"-" gorm:"foreignKey:OwnerID"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `json:"-" gorm:"foreignKey:PostID"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Status    Status    `gorm:"type:varchar(10);default:ACTIVE" json:"status"`
	IsAI      bool      `gorm:"default:false" json:"is_ai"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
