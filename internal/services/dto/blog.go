package dto

import (
	"io"

	"inkwell_backend/internal/models"
)

type CreateBlogRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Content     string `json:"content"`
	CategoryIDs []uint `json:"category_ids" validate:"max=10"`
}

// UpdateBlogRequest leaves nil fields untouched.
type UpdateBlogRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Content     *string `json:"content"`
	CategoryIDs *[]uint `json:"category_ids" validate:"omitempty,max=10"`
}

type BlogListQuery struct {
	CategoryID uint `form:"category_id"`
	AuthorID   uint `form:"author_id"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
}

type PublishResponse struct {
	Blog *models.Blog `json:"blog"`
	// Notified is the number of followers that received a new notification.
	Notified int `json:"notified"`
}

// UploadFile is a decoded multipart upload.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,notblank,max=2000"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=60"`
}
