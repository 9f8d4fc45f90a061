package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/chatsift/core"
)

func TestCachedThreadSource(t *testing.T) {
	ctx := context.Background()

	t.Run("caches lookups", func(t *testing.T) {
		source := &staticThreadSource{tc: &core.ThreadContext{ThreadId: "T1"}}
		cached := NewCachedThreadSource(source, time.Minute)

		tc1, err := cached.ThreadContext(ctx, "T1")
		require.NoError(t, err)
		tc2, err := cached.ThreadContext(ctx, "T1")
		require.NoError(t, err)

		assert.Same(t, tc1, tc2)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("caches absent threads", func(t *testing.T) {
		source := &staticThreadSource{tc: nil}
		cached := NewCachedThreadSource(source, time.Minute)

		tc, err := cached.ThreadContext(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, tc)

		_, err = cached.ThreadContext(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("invalidate forces refetch", func(t *testing.T) {
		source := &staticThreadSource{tc: &core.ThreadContext{ThreadId: "T1"}}
		cached := NewCachedThreadSource(source, time.Minute)

		_, err := cached.ThreadContext(ctx, "T1")
		require.NoError(t, err)
		cached.Invalidate("T1")
		_, err = cached.ThreadContext(ctx, "T1")
		require.NoError(t, err)

		assert.Equal(t, 2, source.calls)
	})
}
