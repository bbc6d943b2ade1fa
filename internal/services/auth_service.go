package services

import (
	"context"
	"errors"
	"strings"

	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

// AuthService covers the account lifecycle: registration, activation and password reset.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Activate(ctx context.Context, token string) error
	ResendActivation(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	store    repositories.Store
	tokens   TokenService
	sessions SessionService
}

func NewAuthService(store repositories.Store, tokens TokenService, sessions SessionService) AuthService {
	return &authService{store: store, tokens: tokens, sessions: sessions}
}

func passwordPolicy(field, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return apperrors.FieldError(field, err.Error())
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := passwordPolicy("password", req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: &hash,
		Provider:     models.ProviderDefault,
	}
	if req.Username != nil && *req.Username != "" {
		username := *req.Username
		user.Username = &username
	}

	// the activation mail is part of the transaction: no mail, no account
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return userWriteError(err)
		}
		_, err := s.tokens.WithStore(tx).Issue(ctx, user, models.PurposeActivation)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)

	token, expiresAt, err := s.sessions.IssueSession(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Activate(ctx context.Context, token string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		userID, err := s.tokens.WithStore(tx).Redeem(ctx, token, models.PurposeActivation)
		if err != nil {
			return err
		}
		if err := tx.Users().SetVerified(ctx, userID); err != nil {
			return userLookupError(err)
		}
		logger.CtxInfo(ctx, "Account activated", "user_id", userID)
		return nil
	})
}

func (s *authService) ResendActivation(ctx context.Context, email string) error {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return dbError(err)
	}
	if user.IsVerified {
		return nil
	}

	_, err = s.tokens.Issue(ctx, user, models.PurposeActivation)
	return err
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxDebug(ctx, "Password reset requested for unknown email")
			return nil
		}
		return dbError(err)
	}

	_, err = s.tokens.Issue(ctx, user, models.PurposePasswordReset)
	return err
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if _, err := s.tokens.Validate(ctx, token, models.PurposePasswordReset); err != nil {
		return err
	}
	if err := passwordPolicy("new_password", newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		userID, err := s.tokens.WithStore(tx).Redeem(ctx, token, models.PurposePasswordReset)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdatePassword(ctx, userID, hash); err != nil {
			return userLookupError(err)
		}
		logger.CtxInfo(ctx, "Password reset", "user_id", userID)
		return nil
	})
}

func userWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrEmailTaken):
		return apperrors.ErrEmailTaken
	case errors.Is(err, repositories.ErrUsernameTaken):
		return apperrors.ErrUsernameTaken
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	default:
		return dbError(err)
	}
}

func userLookupError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return dbError(err)
}
