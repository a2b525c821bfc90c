package model

import (
	"time"
)

type Follow struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	FollowerID  string    `gorm:"size:36;not null;uniqueIndex:idx_follows_pair;index" json:"follower_id"`
	FollowingID string    `gorm:"size:36;not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
