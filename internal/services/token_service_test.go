package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/workers"
	"inkwell_backend/pkg/apperrors"
)

func TestIssue_TokenShapeAndMail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "tok@example.com")

	first, err := env.svc.TokenService.Issue(ctx, user, models.PurposeActivation)
	require.NoError(t, err)
	second, err := env.svc.TokenService.Issue(ctx, user, models.PurposePasswordReset)
	require.NoError(t, err)

	hex64 := regexp.MustCompile(`^[0-9a-f]{64}$`)
	assert.Regexp(t, hex64, first)
	assert.Regexp(t, hex64, second)
	assert.NotEqual(t, first, second)

	require.Equal(t, 2, env.mailer.count())
	assert.Equal(t, sentMail{purpose: models.PurposePasswordReset, to: "tok@example.com", token: second}, env.mailer.last())
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "exp@example.com")
	issuedAt := env.clock.Now()

	token, err := env.svc.TokenService.Issue(ctx, user, models.PurposeActivation)
	require.NoError(t, err)

	env.clock.Set(issuedAt.Add(23*time.Hour + 59*time.Minute))
	id, err := env.svc.TokenService.Validate(ctx, token, models.PurposeActivation)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	env.clock.Set(issuedAt.Add(24 * time.Hour))
	_, err = env.svc.TokenService.Validate(ctx, token, models.PurposeActivation)
	assert.NoError(t, err, "exactly 24h is still valid")

	env.clock.Set(issuedAt.Add(24*time.Hour + time.Second))
	_, err = env.svc.TokenService.Validate(ctx, token, models.PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidate_UnknownToken(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.TokenService.Validate(context.Background(), "does-not-exist", models.PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	_, err = env.svc.TokenService.Validate(context.Background(), "", models.PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestConsume_OnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "once@example.com")

	token, err := env.svc.TokenService.Issue(ctx, user, models.PurposePasswordReset)
	require.NoError(t, err)

	require.NoError(t, env.svc.TokenService.Consume(ctx, token, models.PurposePasswordReset))
	assert.ErrorIs(t, env.svc.TokenService.Consume(ctx, token, models.PurposePasswordReset), apperrors.ErrTokenExpired)

	_, err = env.svc.TokenService.Validate(ctx, token, models.PurposePasswordReset)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	assert.ErrorIs(t, env.svc.TokenService.Consume(ctx, "unknown", models.PurposePasswordReset), apperrors.ErrTokenNotFound)
}

func TestConsume_RacingConsumersOneWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "race@example.com")

	token, err := env.svc.TokenService.Issue(ctx, user, models.PurposeDeletion)
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if env.svc.TokenService.Consume(ctx, token, models.PurposeDeletion) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestPurposesAreSeparateNamespaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ns@example.com")

	activation, err := env.svc.TokenService.Issue(ctx, user, models.PurposeActivation)
	require.NoError(t, err)

	_, err = env.svc.TokenService.Validate(ctx, activation, models.PurposePasswordReset)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	_, err = env.svc.TokenService.Validate(ctx, activation, models.PurposeDeletion)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	id, err := env.svc.TokenService.Validate(ctx, activation, models.PurposeActivation)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestIssue_InvalidatesOlderTokensOfSamePurpose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "old@example.com")

	older, err := env.svc.TokenService.Issue(ctx, user, models.PurposePasswordReset)
	require.NoError(t, err)
	activation, err := env.svc.TokenService.Issue(ctx, user, models.PurposeActivation)
	require.NoError(t, err)
	newer, err := env.svc.TokenService.Issue(ctx, user, models.PurposePasswordReset)
	require.NoError(t, err)

	_, err = env.svc.TokenService.Validate(ctx, older, models.PurposePasswordReset)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	_, err = env.svc.TokenService.Validate(ctx, newer, models.PurposePasswordReset)
	assert.NoError(t, err)
	_, err = env.svc.TokenService.Validate(ctx, activation, models.PurposeActivation)
	assert.NoError(t, err, "other purposes are untouched")
}

func TestIssue_MailFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "mailfail@example.com")

	existing, err := env.svc.TokenService.Issue(ctx, user, models.PurposePasswordReset)
	require.NoError(t, err)

	env.mailer.fail(errors.New("smtp: connection refused"))

	token, err := env.svc.TokenService.Issue(ctx, user, models.PurposePasswordReset)
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotificationDeliveryFailed))

	// the invalidation of the earlier token was rolled back with the failed issue
	_, err = env.svc.TokenService.Validate(ctx, existing, models.PurposePasswordReset)
	assert.NoError(t, err)
}

func TestRedeem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "redeem@example.com")

	token, err := env.svc.TokenService.Issue(ctx, user, models.PurposeActivation)
	require.NoError(t, err)

	id, err := env.svc.TokenService.Redeem(ctx, token, models.PurposeActivation)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = env.svc.TokenService.Redeem(ctx, token, models.PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokensStillReportExpiredAfterCleanup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tokens := env.svc.TokenService
	user := env.createUser(t, "cleanup@example.com")

	reset, err := tokens.Issue(ctx, user, models.PurposePasswordReset)
	require.NoError(t, err)
	require.NoError(t, tokens.Consume(ctx, reset, models.PurposePasswordReset))

	activation, err := tokens.Issue(ctx, user, models.PurposeActivation)
	require.NoError(t, err)

	env.clock.Add(24*time.Hour + time.Minute)
	worker := workers.NewTokenCleanupWorker(env.store, env.clock, TokenValidity, 7*24*time.Hour, time.Hour)
	assert.Zero(t, worker.RunOnce(ctx))

	_, err = tokens.Validate(ctx, reset, models.PurposePasswordReset)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired, "consumed token")
	err = tokens.Consume(ctx, reset, models.PurposePasswordReset)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired, "second consume")
	_, err = tokens.Validate(ctx, activation, models.PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired, "token past its ttl")

	// once retention is over the rows are gone
	env.clock.Add(7 * 24 * time.Hour)
	assert.Equal(t, int64(2), worker.RunOnce(ctx))
	_, err = tokens.Validate(ctx, activation, models.PurposeActivation)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
