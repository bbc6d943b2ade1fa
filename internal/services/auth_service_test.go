package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/models"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

func register(t *testing.T, env *testEnv, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := env.svc.AuthService.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: testPassword,
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_ActivationFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp := register(t, env, "Alice@Example.com")
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.False(t, resp.User.IsVerified)
	assert.NotEmpty(t, resp.Token)

	id, err := env.svc.SessionService.VerifySession(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id)

	require.Equal(t, 1, env.mailer.count())
	mail := env.mailer.last()
	assert.Equal(t, models.PurposeActivation, mail.purpose)
	assert.Equal(t, "alice@example.com", mail.to)

	env.clock.Add(2 * time.Hour)
	require.NoError(t, env.svc.AuthService.Activate(ctx, mail.token))

	user, err := env.store.Users().FindByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	err = env.svc.AuthService.Activate(ctx, mail.token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRegister_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "taken@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.svc.AuthService.Register(ctx, &dto.RegisterRequest{Email: "TAKEN@example.com", Password: testPassword})
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := env.svc.AuthService.Register(ctx, &dto.RegisterRequest{Email: "weak@example.com", Password: "password"})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

		_, err = env.store.Users().FindByEmail(ctx, "weak@example.com")
		assert.Error(t, err, "no account is created")
	})

	t.Run("mail failure creates no account", func(t *testing.T) {
		env.mailer.fail(errors.New("smtp down"))
		defer env.mailer.fail(nil)

		_, err := env.svc.AuthService.Register(ctx, &dto.RegisterRequest{Email: "nomail@example.com", Password: testPassword})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotificationDeliveryFailed))

		_, err = env.store.Users().FindByEmail(ctx, "nomail@example.com")
		assert.Error(t, err)
	})
}

func TestActivate_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "late@example.com")
	token := env.mailer.last().token

	env.clock.Add(25 * time.Hour)
	err := env.svc.AuthService.Activate(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestResendActivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	register(t, env, "resend@example.com")
	first := env.mailer.last().token

	require.NoError(t, env.svc.AuthService.ResendActivation(ctx, "resend@example.com"))
	require.Equal(t, 2, env.mailer.count())
	second := env.mailer.last().token

	assert.ErrorIs(t, env.svc.AuthService.Activate(ctx, first), apperrors.ErrTokenExpired)
	require.NoError(t, env.svc.AuthService.Activate(ctx, second))

	// verified accounts and unknown emails are silently ignored
	require.NoError(t, env.svc.AuthService.ResendActivation(ctx, "resend@example.com"))
	require.NoError(t, env.svc.AuthService.ResendActivation(ctx, "ghost@example.com"))
	assert.Equal(t, 2, env.mailer.count())
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "reset@example.com")

	require.NoError(t, env.svc.AuthService.RequestPasswordReset(ctx, "ghost@example.com"))
	assert.Equal(t, 0, env.mailer.count())

	require.NoError(t, env.svc.AuthService.RequestPasswordReset(ctx, "reset@example.com"))
	token := env.mailer.last().token

	t.Run("weak new password keeps the token", func(t *testing.T) {
		err := env.svc.AuthService.ResetPassword(ctx, token, "short")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	const newPassword = "An0ther!Secret#Phrase"
	require.NoError(t, env.svc.AuthService.ResetPassword(ctx, token, newPassword))

	_, err := env.svc.SessionService.Authenticate(ctx, "reset@example.com", testPassword)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	resp, err := env.svc.SessionService.Authenticate(ctx, "reset@example.com", newPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	err = env.svc.AuthService.ResetPassword(ctx, token, "Y3t!Another#Phrase")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	err = env.svc.AuthService.ResetPassword(ctx, "bogus", newPassword)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
