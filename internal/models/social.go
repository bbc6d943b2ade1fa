package models

import "time"

// Follow is a directed edge follower -> followed, unique per ordered pair.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"followed_id"`
	Follower   *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   *User     `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// SavedBlog is one entry in a user's saved list.
type SavedBlog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_user_blog" json:"user_id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_saved_user_blog" json:"blog_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Blog      *Blog     `gorm:"constraint:OnDelete:CASCADE" json:"blog,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
