package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/logger"
	"inkwell_backend/internal/metrics"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories"
	"inkwell_backend/pkg/apperrors"
)

// TokenValidity is how long an issued single-use token can be redeemed.
const TokenValidity = 24 * time.Hour

// TokenMailer delivers the link for a freshly issued token.
type TokenMailer interface {
	SendToken(ctx context.Context, purpose models.TokenPurpose, user *models.User, token string) error
}

type TokenService interface {
	// Issue creates a token for user, invalidates older tokens of the same purpose and mails the link.
	// Nothing is stored when the mail cannot be sent.
	Issue(ctx context.Context, user *models.User, purpose models.TokenPurpose) (string, error)
	// Validate returns the owner of an unconsumed, unexpired token.
	Validate(ctx context.Context, token string, purpose models.TokenPurpose) (uint, error)
	// Consume marks the token used. Only one caller can consume a token.
	Consume(ctx context.Context, token string, purpose models.TokenPurpose) error
	// Redeem validates then consumes and returns the owner.
	Redeem(ctx context.Context, token string, purpose models.TokenPurpose) (uint, error)
	// WithStore binds the service to a transaction.
	WithStore(store repositories.Store) TokenService
}

type tokenService struct {
	store  repositories.Store
	mailer TokenMailer
	clock  clock.Clock
	ttl    time.Duration
}

func NewTokenService(store repositories.Store, mailer TokenMailer, clk clock.Clock, ttl time.Duration) TokenService {
	if ttl <= 0 {
		ttl = TokenValidity
	}
	return &tokenService{store: store, mailer: mailer, clock: clk, ttl: ttl}
}

func (s *tokenService) WithStore(store repositories.Store) TokenService {
	cp := *s
	cp.store = store
	return &cp
}

// newTokenValue joins two random UUIDs: 244 random bits, 64 hex chars.
func newTokenValue() (string, error) {
	a, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	b, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(a.String()+b.String(), "-", ""), nil
}

func (s *tokenService) Issue(ctx context.Context, user *models.User, purpose models.TokenPurpose) (string, error) {
	if !purpose.Valid() {
		return "", apperrors.InternalError(repositories.ErrUnknownPurpose)
	}

	value, err := newTokenValue()
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		now := s.clock.Now()

		if _, err := tx.Tokens().InvalidateForUser(ctx, purpose, user.ID, now); err != nil {
			return apperrors.DatabaseError(err)
		}

		token := &models.SingleUseToken{Value: value, UserID: user.ID, CreatedAt: now}
		if err := tx.Tokens().Create(ctx, purpose, token); err != nil {
			return apperrors.DatabaseError(err)
		}

		if err := s.mailer.SendToken(ctx, purpose, user, value); err != nil {
			logger.CtxWithError(ctx, "Failed to mail token", err,
				"purpose", string(purpose),
				"user_id", user.ID,
			)
			return apperrors.NotificationDeliveryFailed(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.WithLabelValues(string(purpose)).Inc()
	logger.CtxInfo(ctx, "Token issued", "purpose", string(purpose), "user_id", user.ID)
	return value, nil
}

func (s *tokenService) Validate(ctx context.Context, value string, purpose models.TokenPurpose) (uint, error) {
	if value == "" {
		metrics.TokenValidations.WithLabelValues(string(purpose), "not_found").Inc()
		return 0, apperrors.ErrTokenNotFound
	}

	token, err := s.store.Tokens().FindByValue(ctx, purpose, value)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			metrics.TokenValidations.WithLabelValues(string(purpose), "not_found").Inc()
			return 0, apperrors.ErrTokenNotFound
		}
		return 0, dbError(err)
	}

	if token.Expired(s.clock.Now(), s.ttl) {
		metrics.TokenValidations.WithLabelValues(string(purpose), "expired").Inc()
		return 0, apperrors.ErrTokenExpired
	}

	metrics.TokenValidations.WithLabelValues(string(purpose), "ok").Inc()
	return token.UserID, nil
}

func (s *tokenService) Consume(ctx context.Context, value string, purpose models.TokenPurpose) error {
	err := s.store.Tokens().Consume(ctx, purpose, value, s.clock.Now())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTokenNotFound):
		return apperrors.ErrTokenNotFound
	case errors.Is(err, repositories.ErrTokenConsumed):
		return apperrors.ErrTokenExpired
	default:
		return dbError(err)
	}
}

func (s *tokenService) Redeem(ctx context.Context, value string, purpose models.TokenPurpose) (uint, error) {
	userID, err := s.Validate(ctx, value, purpose)
	if err != nil {
		return 0, err
	}
	if err := s.Consume(ctx, value, purpose); err != nil {
		return 0, err
	}
	return userID, nil
}
