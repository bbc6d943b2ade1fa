package repositories

import (
	"context"

	"inkwell_backend/internal/models"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followedID uint) error
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	// ListFollowerIDs returns the followers of userID as of this call.
	ListFollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error)
	Counts(ctx context.Context, userID uint) (followers int64, following int64, err error)
}

type FollowRepositoryImpl struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &FollowRepositoryImpl{db: db}
}

func (r *FollowRepositoryImpl) Create(ctx context.Context, follow *models.Follow) error {
	exists, err := r.Exists(ctx, follow.FollowerID, follow.FollowedID)
	if err != nil {
		return err
	}
	if exists {
		return ErrFollowExists
	}
	return duplicate(r.db.WithContext(ctx).Omit("Follower", "Followed").Create(follow).Error, ErrFollowExists)
}

func (r *FollowRepositoryImpl) Delete(ctx context.Context, followerID, followedID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

func (r *FollowRepositoryImpl) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func (r *FollowRepositoryImpl) ListFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Order("follower_id").
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *FollowRepositoryImpl) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return r.listUsers(ctx, "users.id IN (?)",
		r.db.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ?", userID),
		limit, offset)
}

func (r *FollowRepositoryImpl) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return r.listUsers(ctx, "users.id IN (?)",
		r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID),
		limit, offset)
}

func (r *FollowRepositoryImpl) listUsers(ctx context.Context, cond string, sub *gorm.DB, limit, offset int) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where(cond, sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("users.id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *FollowRepositoryImpl) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	var followers, following int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
