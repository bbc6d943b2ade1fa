package services

import (
	"context"
	"errors"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/pkg/apperrors"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	ListFollowers(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.User], error)
	ListFollowing(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.User], error)
}

type followService struct {
	store repositories.Store
}

func NewFollowService(store repositories.Store) FollowService {
	return &followService{store: store}
}

func (s *followService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return apperrors.ErrCannotFollowSelf
	}

	if _, err := s.store.Users().FindByID(ctx, followedID); err != nil {
		return userLookupError(err)
	}

	err := s.store.Follows().Create(ctx, &models.Follow{FollowerID: followerID, FollowedID: followedID})
	if err != nil {
		if errors.Is(err, repositories.ErrFollowExists) {
			return apperrors.ErrAlreadyFollowing
		}
		return dbError(err)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.store.Follows().Delete(ctx, followerID, followedID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return apperrors.ErrNotFollowing
		}
		return dbError(err)
	}
	return nil
}

func (s *followService) ListFollowers(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.User], error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return nil, userLookupError(err)
	}
	page, pageSize = normalizePage(page, pageSize)
	users, total, err := s.store.Follows().ListFollowers(ctx, userID, pageSize, models.Offset(page, pageSize))
	if err != nil {
		return nil, dbError(err)
	}
	return newPage(publicUsers(users), total, page, pageSize), nil
}

func (s *followService) ListFollowing(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.User], error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return nil, userLookupError(err)
	}
	page, pageSize = normalizePage(page, pageSize)
	users, total, err := s.store.Follows().ListFollowing(ctx, userID, pageSize, models.Offset(page, pageSize))
	if err != nil {
		return nil, dbError(err)
	}
	return newPage(publicUsers(users), total, page, pageSize), nil
}
