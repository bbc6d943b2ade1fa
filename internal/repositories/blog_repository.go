package repositories

import (
	"context"
	"strings"
	"time"

	"inkwell_backend/internal/models"

	"gorm.io/gorm"
)

// BlogFilter narrows ListPublished. Zero values mean "any".
type BlogFilter struct {
	CategoryID uint
	AuthorID   uint
	// FollowedBy restricts to authors the given user follows.
	FollowedBy uint
	Limit      int
	Offset     int
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	FindByID(ctx context.Context, id uint) (*models.Blog, error)
	FindDraft(ctx context.Context, id uint) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	ReplaceCategories(ctx context.Context, blog *models.Blog, categories []models.Category) error
	// SetPublished flips a draft to published. A blog that is already published reports ErrBlogNotFound.
	SetPublished(ctx context.Context, id uint, at time.Time) error
	SetCover(ctx context.Context, id uint, url string) error
	Delete(ctx context.Context, id uint) error
	ListPublished(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error)
	ListDrafts(ctx context.Context, authorID uint) ([]models.Blog, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.Blog, int64, error)
}

type BlogRepositoryImpl struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &BlogRepositoryImpl{db: db}
}

func (r *BlogRepositoryImpl) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit("Author", "Categories.*").Create(blog).Error
}

func (r *BlogRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Preload("Author").Preload("Categories").First(&blog, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrBlogNotFound)
	}
	return &blog, nil
}

func (r *BlogRepositoryImpl) FindDraft(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Where("id = ? AND published = ?", id, false).First(&blog).Error
	if err != nil {
		return nil, notFound(err, ErrBlogNotFound)
	}
	return &blog, nil
}

func (r *BlogRepositoryImpl) Update(ctx context.Context, blog *models.Blog) error {
	result := r.db.WithContext(ctx).Model(blog).Select("title", "content").Updates(blog)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepositoryImpl) ReplaceCategories(ctx context.Context, blog *models.Blog, categories []models.Category) error {
	return r.db.WithContext(ctx).Model(blog).Association("Categories").Replace(categories)
}

func (r *BlogRepositoryImpl) SetPublished(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ? AND published = ?", id, false).
		Updates(map[string]interface{}{"published": true, "published_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepositoryImpl) SetCover(ctx context.Context, id uint, url string) error {
	result := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Update("cover_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Blog{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepositoryImpl) ListPublished(ctx context.Context, filter BlogFilter) ([]models.Blog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{}).Where("blogs.published = ?", true)

	if filter.AuthorID != 0 {
		query = query.Where("blogs.author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("blogs.id IN (?)",
			r.db.Table("blog_categories").Select("blog_id").Where("category_id = ?", filter.CategoryID))
	}
	if filter.FollowedBy != 0 {
		query = query.Where("blogs.author_id IN (?)",
			r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", filter.FollowedBy))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	err := query.Preload("Author").Preload("Categories").
		Order("blogs.published_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *BlogRepositoryImpl) ListDrafts(ctx context.Context, authorID uint) ([]models.Blog, error) {
	var blogs []models.Blog
	err := r.db.WithContext(ctx).Preload("Categories").
		Where("author_id = ? AND published = ?", authorID, false).
		Order("updated_at DESC").
		Find(&blogs).Error
	return blogs, err
}

func (r *BlogRepositoryImpl) Search(ctx context.Context, query string, limit, offset int) ([]models.Blog, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	q := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("published = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	if err := q.Preload("Author").Order("published_at DESC").Limit(limit).Offset(offset).Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}
