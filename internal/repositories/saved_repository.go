package repositories

import (
	"context"

	"inkwell_backend/internal/models"

	"gorm.io/gorm"
)

type SavedBlogRepository interface {
	Create(ctx context.Context, saved *models.SavedBlog) error
	Delete(ctx context.Context, userID, blogID uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.SavedBlog, int64, error)
}

type SavedBlogRepositoryImpl struct {
	db *gorm.DB
}

func NewSavedBlogRepository(db *gorm.DB) SavedBlogRepository {
	return &SavedBlogRepositoryImpl{db: db}
}

func (r *SavedBlogRepositoryImpl) Create(ctx context.Context, saved *models.SavedBlog) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavedBlog{}).
		Where("user_id = ? AND blog_id = ?", saved.UserID, saved.BlogID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSavedExists
	}
	return duplicate(r.db.WithContext(ctx).Omit("User", "Blog").Create(saved).Error, ErrSavedExists)
}

func (r *SavedBlogRepositoryImpl) Delete(ctx context.Context, userID, blogID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Delete(&models.SavedBlog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSavedNotFound
	}
	return nil
}

func (r *SavedBlogRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.SavedBlog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SavedBlog{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var saved []models.SavedBlog
	err := query.Preload("Blog").Preload("Blog.Author").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&saved).Error
	if err != nil {
		return nil, 0, err
	}
	return saved, total, nil
}
