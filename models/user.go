package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  *string        `json:"-"` // nil for Google accounts
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	GoogleID  *string        `gorm:"uniqueIndex" json:"-"`
	Provider  string         `gorm:"default:email" json:"-"`

	Posts         []Post         `json:"-" gorm:"foreignKey:OwnerID"`
	Comments      []Comment      `json:"-" gorm:"foreignKey:OwnerID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}
