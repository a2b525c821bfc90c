package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Username       string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email          *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash   *string    `gorm:"size:255" json:"-"`
	DisplayName    string     `gorm:"size:100" json:"display_name"`
	AvatarURL      string     `gorm:"size:500" json:"avatar_url"`
	Bio            string     `gorm:"type:text" json:"bio"`
	GithubID       *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	ResetCode      *string    `gorm:"size:100" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
