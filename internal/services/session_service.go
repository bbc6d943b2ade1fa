package services

import (
	"context"
	"errors"
	"time"

	"inkwell_backend/internal/auth"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/metrics"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

// IdentityProviders verifies a token issued by an external identity provider.
type IdentityProviders interface {
	Verify(ctx context.Context, providerName, token string) (*auth.ProviderIdentity, error)
}

type SessionService interface {
	Authenticate(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	AuthenticateWithProvider(ctx context.Context, providerToken, providerName string) (*dto.AuthResponse, error)
	IssueSession(userID uint) (string, time.Time, error)
	// VerifySession returns the user id asserted by a valid session token.
	VerifySession(token string) (uint, error)
}

type sessionService struct {
	store     repositories.Store
	signer    *auth.SessionSigner
	providers IdentityProviders
}

func NewSessionService(store repositories.Store, signer *auth.SessionSigner, providers IdentityProviders) SessionService {
	return &sessionService{store: store, signer: signer, providers: providers}
}

func (s *sessionService) Authenticate(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			metrics.AuthFailures.WithLabelValues("unknown_email").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, dbError(err)
	}

	if !user.HasPassword() {
		metrics.AuthFailures.WithLabelValues("no_password").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(password, *user.PasswordHash) {
		metrics.AuthFailures.WithLabelValues("wrong_password").Inc()
		logger.CtxWarn(ctx, "Failed login attempt", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.respond(user)
}

func (s *sessionService) AuthenticateWithProvider(ctx context.Context, providerToken, providerName string) (*dto.AuthResponse, error) {
	identity, err := s.providers.Verify(ctx, providerName, providerToken)
	if err != nil {
		if errors.Is(err, auth.ErrUnsupportedProvider) {
			return nil, apperrors.ErrUnsupportedProvider
		}
		metrics.AuthFailures.WithLabelValues("provider").Inc()
		logger.CtxWithError(ctx, "Identity provider verification failed", err, "provider", providerName)
		return nil, apperrors.ProviderVerificationFailed(err)
	}

	user, err := s.findOrProvision(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

func (s *sessionService) findOrProvision(ctx context.Context, identity *auth.ProviderIdentity) (*models.User, error) {
	users := s.store.Users()

	user, err := users.FindByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, dbError(err)
	}

	user = &models.User{
		Email:      identity.Email,
		IsVerified: true,
		Provider:   identity.Provider,
	}
	if err := users.Create(ctx, user); err != nil {
		// a concurrent first login created it
		if errors.Is(err, repositories.ErrEmailTaken) {
			return users.FindByEmail(ctx, identity.Email)
		}
		return nil, dbError(err)
	}

	logger.CtxInfo(ctx, "Provisioned user from identity provider",
		"user_id", user.ID,
		"provider", string(identity.Provider),
	)
	return user, nil
}

func (s *sessionService) respond(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.IssueSession(user.ID)
	if err != nil {
		return nil, err
	}
	metrics.SessionsIssued.WithLabelValues(string(user.Provider)).Inc()
	return &dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *sessionService) IssueSession(userID uint) (string, time.Time, error) {
	token, expiresAt, err := s.signer.Sign(userID)
	if err != nil {
		return "", time.Time{}, apperrors.InternalError(err)
	}
	return token, expiresAt, nil
}

func (s *sessionService) VerifySession(token string) (uint, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return 0, apperrors.ErrSessionInvalid
	}
	return claims.UserID, nil
}
