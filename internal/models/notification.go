package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification tells a follower that an author published a blog.
// (blog_id, user_id) is unique so fan-out never produces duplicates.
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	BlogID    uint              `gorm:"not null;uniqueIndex:idx_notification_blog_user" json:"blog_id"`
	UserID    uint              `gorm:"not null;uniqueIndex:idx_notification_blog_user;index" json:"user_id"`
	Blog      *Blog             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	User      *User             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Seen      bool              `gorm:"not null;default:false;index" json:"seen"`
	Meta      datatypes.JSONMap `gorm:"type:jsonb" json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
