package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, 42)

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, uint(42), GetUserID(ctx))
	assert.NotNil(t, FromContext(ctx))
}

func TestContextValues_Missing(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Zero(t, GetUserID(ctx))
}
