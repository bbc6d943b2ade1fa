package services

import (
	"context"
	"errors"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/pkg/apperrors"
)

type SavedService interface {
	Save(ctx context.Context, userID, blogID uint) error
	Remove(ctx context.Context, userID, blogID uint) error
	List(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.SavedBlog], error)
}

type savedService struct {
	store repositories.Store
}

func NewSavedService(store repositories.Store) SavedService {
	return &savedService{store: store}
}

func (s *savedService) Save(ctx context.Context, userID, blogID uint) error {
	blog, err := s.store.Blogs().FindByID(ctx, blogID)
	if err != nil {
		return blogLookupError(err)
	}
	if !blog.Published {
		return apperrors.ErrBlogNotFound
	}

	if err := s.store.Saved().Create(ctx, &models.SavedBlog{UserID: userID, BlogID: blogID}); err != nil {
		if errors.Is(err, repositories.ErrSavedExists) {
			return apperrors.ErrAlreadySaved
		}
		return dbError(err)
	}
	return nil
}

func (s *savedService) Remove(ctx context.Context, userID, blogID uint) error {
	if err := s.store.Saved().Delete(ctx, userID, blogID); err != nil {
		if errors.Is(err, repositories.ErrSavedNotFound) {
			return apperrors.ErrSavedNotFound
		}
		return dbError(err)
	}
	return nil
}

func (s *savedService) List(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.SavedBlog], error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.store.Saved().ListByUser(ctx, userID, pageSize, models.Offset(page, pageSize))
	if err != nil {
		return nil, dbError(err)
	}
	for i := range items {
		if items[i].Blog != nil && items[i].Blog.Author != nil {
			items[i].Blog.Author.Email = ""
		}
	}
	return newPage(items, total, page, pageSize), nil
}
