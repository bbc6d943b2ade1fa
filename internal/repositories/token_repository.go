package repositories

import (
	"context"
	"time"

	"inkwell_backend/internal/models"

	"gorm.io/gorm"
)

// TokenRepository stores single-use tokens. Every call names the purpose, which selects the table.
type TokenRepository interface {
	Create(ctx context.Context, purpose models.TokenPurpose, token *models.SingleUseToken) error
	FindByValue(ctx context.Context, purpose models.TokenPurpose, value string) (*models.SingleUseToken, error)
	// Consume marks the token used only if it is still unconsumed.
	// Returns ErrTokenConsumed when another caller got there first.
	Consume(ctx context.Context, purpose models.TokenPurpose, value string, at time.Time) error
	InvalidateForUser(ctx context.Context, purpose models.TokenPurpose, userID uint, at time.Time) (int64, error)
	// DeleteStale removes rows created before the cutoff, consumed or not.
	DeleteStale(ctx context.Context, purpose models.TokenPurpose, createdBefore time.Time) (int64, error)
}

type TokenRepositoryImpl struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

func (r *TokenRepositoryImpl) table(ctx context.Context, purpose models.TokenPurpose) (*gorm.DB, error) {
	if !purpose.Valid() {
		return nil, ErrUnknownPurpose
	}
	return r.db.WithContext(ctx).Table(purpose.Table()), nil
}

func (r *TokenRepositoryImpl) Create(ctx context.Context, purpose models.TokenPurpose, token *models.SingleUseToken) error {
	q, err := r.table(ctx, purpose)
	if err != nil {
		return err
	}
	return q.Create(token).Error
}

func (r *TokenRepositoryImpl) FindByValue(ctx context.Context, purpose models.TokenPurpose, value string) (*models.SingleUseToken, error) {
	q, err := r.table(ctx, purpose)
	if err != nil {
		return nil, err
	}

	var token models.SingleUseToken
	if err := q.Where("value = ?", value).First(&token).Error; err != nil {
		return nil, notFound(err, ErrTokenNotFound)
	}
	return &token, nil
}

func (r *TokenRepositoryImpl) Consume(ctx context.Context, purpose models.TokenPurpose, value string, at time.Time) error {
	q, err := r.table(ctx, purpose)
	if err != nil {
		return err
	}

	result := q.Where("value = ? AND consumed_at IS NULL", value).Update("consumed_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// Nothing updated: either the token never existed or it was already used.
	if _, err := r.FindByValue(ctx, purpose, value); err != nil {
		return err
	}
	return ErrTokenConsumed
}

func (r *TokenRepositoryImpl) InvalidateForUser(ctx context.Context, purpose models.TokenPurpose, userID uint, at time.Time) (int64, error) {
	q, err := r.table(ctx, purpose)
	if err != nil {
		return 0, err
	}

	result := q.Where("user_id = ? AND consumed_at IS NULL", userID).Update("consumed_at", at)
	return result.RowsAffected, result.Error
}

func (r *TokenRepositoryImpl) DeleteStale(ctx context.Context, purpose models.TokenPurpose, createdBefore time.Time) (int64, error) {
	q, err := r.table(ctx, purpose)
	if err != nil {
		return 0, err
	}

	result := q.Where("created_at < ?", createdBefore).Delete(&models.SingleUseToken{})
	return result.RowsAffected, result.Error
}
