package services

import (
	"context"
	"errors"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/pkg/apperrors"
)

type NotificationService interface {
	List(ctx context.Context, userID uint, onlyUnseen bool, page, pageSize int) (*models.Page[models.Notification], error)
	UnseenCount(ctx context.Context, userID uint) (int64, error)
	MarkSeen(ctx context.Context, userID, notificationID uint) error
	MarkAllSeen(ctx context.Context, userID uint) (int64, error)
}

type notificationService struct {
	store repositories.Store
}

func NewNotificationService(store repositories.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) List(ctx context.Context, userID uint, onlyUnseen bool, page, pageSize int) (*models.Page[models.Notification], error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.store.Notifications().ListByUser(ctx, userID, onlyUnseen, pageSize, models.Offset(page, pageSize))
	if err != nil {
		return nil, dbError(err)
	}
	return newPage(items, total, page, pageSize), nil
}

func (s *notificationService) UnseenCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.Notifications().CountUnseen(ctx, userID)
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (s *notificationService) MarkSeen(ctx context.Context, userID, notificationID uint) error {
	if err := s.store.Notifications().MarkSeen(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return dbError(err)
	}
	return nil
}

func (s *notificationService) MarkAllSeen(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.Notifications().MarkAllSeen(ctx, userID)
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}
