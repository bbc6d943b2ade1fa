package services

import (
	"strings"

	"inkwell_backend/internal/models"
	"inkwell_backend/pkg/apperrors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func newPage[T any](items []T, total int64, page, pageSize int) *models.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &models.Page[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}

// dbError passes AppErrors through and wraps anything else as a database failure.
func dbError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.DatabaseError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// publicUsers strips private fields before users are shown to other people.
func publicUsers(users []models.User) []models.User {
	for i := range users {
		users[i].Email = ""
	}
	return users
}

func publicBlogs(blogs []models.Blog) []models.Blog {
	for i := range blogs {
		if blogs[i].Author != nil {
			blogs[i].Author.Email = ""
		}
	}
	return blogs
}
