package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/models"
	"inkwell_backend/pkg/apperrors"
)

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "login@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := env.svc.SessionService.Authenticate(ctx, "  Login@Example.com ", testPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Equal(t, env.clock.Now().Add(30*24*time.Hour), resp.ExpiresAt)

		id, err := env.svc.SessionService.VerifySession(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.svc.SessionService.Authenticate(ctx, "login@example.com", "not-the-password")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.svc.SessionService.Authenticate(ctx, "nobody@example.com", testPassword)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("account without password", func(t *testing.T) {
		social := &models.User{Email: "social@example.com", IsVerified: true, Provider: models.ProviderGoogle}
		require.NoError(t, env.store.Users().Create(ctx, social))

		_, err := env.svc.SessionService.Authenticate(ctx, "social@example.com", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		_, err = env.svc.SessionService.Authenticate(ctx, "social@example.com", testPassword)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestVerifySession_Expiry(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "expiry@example.com")

	token, expiresAt, err := env.svc.SessionService.IssueSession(user.ID)
	require.NoError(t, err)

	env.clock.Set(expiresAt.Add(-time.Minute))
	id, err := env.svc.SessionService.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	env.clock.Set(expiresAt.Add(time.Minute))
	_, err = env.svc.SessionService.VerifySession(token)
	assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)

	_, err = env.svc.SessionService.VerifySession("not.a.jwt")
	assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)
}

func TestAuthenticateWithProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions a verified user on first login", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.svc.SessionService.AuthenticateWithProvider(ctx, "google-ok", "google")
		require.NoError(t, err)
		assert.Equal(t, "gina@example.com", resp.User.Email)
		assert.True(t, resp.User.IsVerified)
		assert.Equal(t, models.ProviderGoogle, resp.User.Provider)
		assert.False(t, resp.User.HasPassword())

		again, err := env.svc.SessionService.AuthenticateWithProvider(ctx, "google-ok", "Google")
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, again.User.ID)
	})

	t.Run("links to an existing account by email", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, "alice@example.com")

		resp, err := env.svc.SessionService.AuthenticateWithProvider(ctx, "google-existing", "google")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, resp.User.ID)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		env := newTestEnv(t)
		for _, name := range []string{"myspace", "default", ""} {
			_, err := env.svc.SessionService.AuthenticateWithProvider(ctx, "google-ok", name)
			assert.ErrorIs(t, err, apperrors.ErrUnsupportedProvider, name)
		}
	})

	t.Run("provider rejects the token", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.SessionService.AuthenticateWithProvider(ctx, "forged", "google")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeProviderVerificationFailed))
	})

	t.Run("registered but unconfigured provider", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.SessionService.AuthenticateWithProvider(ctx, "token", "apple")
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedProvider)
	})
}
