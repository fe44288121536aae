package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContextPropagation(t *testing.T) {
	base := zap.NewNop()

	t.Run("logger round-trips through context", func(t *testing.T) {
		ctx := WithContext(context.Background(), base)
		assert.Same(t, base, FromContext(ctx))
	})

	t.Run("missing logger yields a no-op", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request ID is stored and retrievable", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), base, "req-123")
		assert.Equal(t, "req-123", GetRequestID(ctx))
		assert.NotNil(t, enriched)
	})

	t.Run("org and actor IDs are stored and retrievable", func(t *testing.T) {
		ctx, _ := WithOrgID(context.Background(), base, "org-1")
		ctx, _ = WithActorID(ctx, base, "user-9")
		assert.Equal(t, "org-1", GetOrgID(ctx))
		assert.Equal(t, "user-9", GetActorID(ctx))
	})

	t.Run("empty context returns empty identifiers", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetRequestID(ctx))
		assert.Empty(t, GetOrgID(ctx))
		assert.Empty(t, GetActorID(ctx))
	})
}
