package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell_backend/internal/clock"
	"inkwell_backend/internal/models"
	"inkwell_backend/internal/repositories/memstore"
)

func TestTokenCleanupWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := memstore.New().UseClock(clk)
	tokens := store.Tokens()

	user := &models.User{Email: "w@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	old := &models.SingleUseToken{Value: "old", UserID: user.ID, CreatedAt: clk.Now()}
	require.NoError(t, tokens.Create(ctx, models.PurposeActivation, old))

	clk.Add(20 * time.Hour)
	consumed := &models.SingleUseToken{Value: "consumed", UserID: user.ID, CreatedAt: clk.Now()}
	require.NoError(t, tokens.Create(ctx, models.PurposePasswordReset, consumed))
	require.NoError(t, tokens.Consume(ctx, models.PurposePasswordReset, "consumed", clk.Now()))

	fresh := &models.SingleUseToken{Value: "fresh", UserID: user.ID, CreatedAt: clk.Now()}
	require.NoError(t, tokens.Create(ctx, models.PurposeDeletion, fresh))

	worker := NewTokenCleanupWorker(store, clk, 24*time.Hour, 48*time.Hour, time.Minute)

	// past the ttl but inside retention: everything stays
	clk.Add(5 * time.Hour)
	assert.Zero(t, worker.RunOnce(ctx))
	_, err := tokens.FindByValue(ctx, models.PurposePasswordReset, "consumed")
	assert.NoError(t, err, "consumed tokens are kept until retention ends")

	// just over 24h+48h after "old" was created
	clk.Add(48 * time.Hour)
	assert.Equal(t, int64(1), worker.RunOnce(ctx))
	_, err = tokens.FindByValue(ctx, models.PurposeActivation, "old")
	assert.Error(t, err)

	clk.Add(20 * time.Hour)
	assert.Equal(t, int64(2), worker.RunOnce(ctx))
	_, err = tokens.FindByValue(ctx, models.PurposePasswordReset, "consumed")
	assert.Error(t, err)
	_, err = tokens.FindByValue(ctx, models.PurposeDeletion, "fresh")
	assert.Error(t, err)

	assert.Zero(t, worker.RunOnce(ctx))
}

func TestNewTokenCleanupWorker_Defaults(t *testing.T) {
	w := NewTokenCleanupWorker(memstore.New(), clock.New(), 24*time.Hour, 0, 0)
	assert.Equal(t, DefaultTokenRetention, w.retention)
	assert.Equal(t, DefaultTokenCleanupInterval, w.interval)
}
