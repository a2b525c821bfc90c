package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Interaction types accepted by the tracking pipeline.
const (
	InteractionView  = "view"
	InteractionClick = "click"
	InteractionLike  = "like"
	InteractionShare = "share"
)

var validInteractionTypes = map[string]struct{}{
	InteractionView:  {},
	InteractionClick: {},
	InteractionLike:  {},
	InteractionShare: {},
}

// IsValidInteractionType reports whether t is a known interaction type.
func IsValidInteractionType(t string) bool {
	_, ok := validInteractionTypes[t]
	return ok
}

// JSONMap stores a free-form JSON object in a single column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
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
	return json.Unmarshal(bytes, m)
}

// Interaction is a tracked user action on a post. Rows are append-only:
// duplicates for the same (user, post, type) are expected (repeated views),
// and rows are removed only when the referenced user or post is deleted.
type Interaction struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	PostID    string    `gorm:"size:36;not null;index" json:"post_id"`
	Type      string    `gorm:"size:20;not null;index" json:"type"`
	Metadata  JSONMap   `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Interaction) TableName() string {
	return "interactions"
}
