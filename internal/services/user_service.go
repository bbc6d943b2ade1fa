package services

import (
	"context"
	"strings"

	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

type UserService interface {
	// GetProfile returns the profile with follower counts. The email is only shown to its owner.
	GetProfile(ctx context.Context, userID, viewerID uint) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
	RequestDeletion(ctx context.Context, userID uint) error
	ConfirmDeletion(ctx context.Context, token string) error
}

type userService struct {
	store  repositories.Store
	tokens TokenService
}

func NewUserService(store repositories.Store, tokens TokenService) UserService {
	return &userService{store: store, tokens: tokens}
}

func (s *userService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.UserProfile, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}

	followers, following, err := s.store.Follows().Counts(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}

	if viewerID != userID {
		user.Email = ""
	}
	return &models.UserProfile{User: *user, Followers: followers, Following: following}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}

	if req.Username != nil {
		if *req.Username == "" {
			user.Username = nil
		} else {
			username := *req.Username
			user.Username = &username
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}

	if !user.HasPassword() || !auth.CheckPasswordHash(req.OldPassword, *user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := passwordPolicy("new_password", req.NewPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.store.Users().UpdatePassword(ctx, userID, hash); err != nil {
		return userLookupError(err)
	}

	logger.CtxInfo(ctx, "Password changed", "user_id", userID)
	return nil
}

func (s *userService) RequestDeletion(ctx context.Context, userID uint) error {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return userLookupError(err)
	}
	_, err = s.tokens.Issue(ctx, user, models.PurposeDeletion)
	return err
}

func (s *userService) ConfirmDeletion(ctx context.Context, token string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		userID, err := s.tokens.WithStore(tx).Redeem(ctx, token, models.PurposeDeletion)
		if err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, userID); err != nil {
			return userLookupError(err)
		}
		logger.CtxInfo(ctx, "Account deleted", "user_id", userID)
		return nil
	})
}
