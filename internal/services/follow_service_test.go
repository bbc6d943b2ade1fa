package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/pkg/apperrors"
)

func TestFollowRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")

	t.Run("self follow", func(t *testing.T) {
		err := env.svc.FollowService.Follow(ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, apperrors.ErrCannotFollowSelf)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("unknown target", func(t *testing.T) {
		err := env.svc.FollowService.Follow(ctx, alice.ID, 4242)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("duplicate follow", func(t *testing.T) {
		require.NoError(t, env.svc.FollowService.Follow(ctx, alice.ID, bob.ID))
		err := env.svc.FollowService.Follow(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyFollowing)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	})

	t.Run("listing", func(t *testing.T) {
		followers, err := env.svc.FollowService.ListFollowers(ctx, bob.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, followers.Items, 1)
		assert.Equal(t, alice.ID, followers.Items[0].ID)
		assert.Empty(t, followers.Items[0].Email)

		following, err := env.svc.FollowService.ListFollowing(ctx, alice.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), following.Total)
	})

	t.Run("unfollow", func(t *testing.T) {
		require.NoError(t, env.svc.FollowService.Unfollow(ctx, alice.ID, bob.ID))
		assert.ErrorIs(t, env.svc.FollowService.Unfollow(ctx, alice.ID, bob.ID), apperrors.ErrNotFollowing)
	})
}
