package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray stores a JSON array in a single column.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

type Post struct {
	ID             string      `gorm:"primaryKey;size:36" json:"id"`
	UserID         string      `gorm:"size:36;not null;index" json:"user_id"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	MediaURLs      StringArray `gorm:"type:json" json:"media_urls,omitempty"`
	OriginalPostID *string     `gorm:"size:36;index" json:"original_post_id,omitempty"` // non-nil marks a repost
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsRepost reports whether the post is a repost of another post.
func (p *Post) IsRepost() bool {
	return p.OriginalPostID != nil
}
