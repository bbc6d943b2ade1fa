package models

import (
	"strings"
	"time"
)

type Blog struct {
	BaseModel
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Author      *User      `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Title       string     `gorm:"size:200" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Categories  []Category `gorm:"many2many:blog_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
}

func (b *Blog) IsDraft() bool {
	return !b.Published
}

// PublishProblems lists the fields that keep a draft from being published.
func (b *Blog) PublishProblems() map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(b.Title) == "" {
		problems["title"] = "Title is required to publish"
	}
	if strings.TrimSpace(b.Content) == "" {
		problems["content"] = "Content is required to publish"
	}
	return problems
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:60;not null" json:"name"`
	Slug      string    `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	BaseModel
	BlogID   uint   `gorm:"not null;index" json:"blog_id"`
	Blog     *Blog  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Body     string `gorm:"type:text;not null" json:"body"`
}
