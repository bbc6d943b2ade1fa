package dto

import "inkwell_backend/internal/models"

type SearchQuery struct {
	Q        string `form:"q" json:"q" validate:"required,min=2,max=100"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
}

type SearchResponse struct {
	Query string                    `json:"query"`
	Blogs *models.Page[models.Blog] `json:"blogs"`
	Users *models.Page[models.User] `json:"users"`
}
