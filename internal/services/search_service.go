package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

const (
	minSearchLen = 2
	maxSearchLen = 100
)

type SearchService interface {
	// Search matches published blogs by title or content and users by name or username.
	Search(ctx context.Context, query string, page, pageSize int) (*dto.SearchResponse, error)
}

type searchService struct {
	store repositories.Store
}

func NewSearchService(store repositories.Store) SearchService {
	return &searchService{store: store}
}

func (s *searchService) Search(ctx context.Context, query string, page, pageSize int) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if n := utf8.RuneCountInString(query); n < minSearchLen || n > maxSearchLen {
		return nil, apperrors.FieldError("q", "Search query must be between 2 and 100 characters")
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := models.Offset(page, pageSize)

	blogs, blogTotal, err := s.store.Blogs().Search(ctx, query, pageSize, offset)
	if err != nil {
		return nil, dbError(err)
	}
	users, userTotal, err := s.store.Users().Search(ctx, query, pageSize, offset)
	if err != nil {
		return nil, dbError(err)
	}

	return &dto.SearchResponse{
		Query: query,
		Blogs: newPage(publicBlogs(blogs), blogTotal, page, pageSize),
		Users: newPage(publicUsers(users), userTotal, page, pageSize),
	}, nil
}
