package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newList := func() *MemoryRevocationList {
		l := NewMemoryRevocationList()
		l.now = func() time.Time { return now }
		return l
	}

	t.Run("revoked id is reported until expiry", func(t *testing.T) {
		l := newList()
		require.NoError(t, l.Revoke(ctx, "jti-1", now.Add(time.Minute)))

		revoked, err := l.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = l.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("entries lapse after the token would have expired", func(t *testing.T) {
		l := newList()
		require.NoError(t, l.Revoke(ctx, "jti-1", now.Add(time.Second)))

		l.now = func() time.Time { return now.Add(2 * time.Second) }
		revoked, err := l.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("already expired tokens are not stored", func(t *testing.T) {
		l := newList()
		require.NoError(t, l.Revoke(ctx, "jti-1", now.Add(-time.Second)))
		assert.Equal(t, 0, l.Len())
	})

	t.Run("empty id is ignored", func(t *testing.T) {
		l := newList()
		require.NoError(t, l.Revoke(ctx, "", now.Add(time.Minute)))
		assert.Equal(t, 0, l.Len())

		revoked, err := l.IsRevoked(ctx, "")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("expired entries are pruned on write", func(t *testing.T) {
		l := newList()
		require.NoError(t, l.Revoke(ctx, "old", now.Add(time.Second)))

		l.now = func() time.Time { return now.Add(time.Minute) }
		require.NoError(t, l.Revoke(ctx, "new", now.Add(time.Hour)))
		assert.Equal(t, 1, l.Len())
	})

	t.Run("concurrent use", func(t *testing.T) {
		l := newList()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = l.Revoke(ctx, "shared", now.Add(time.Hour))
			}()
			go func() {
				defer wg.Done()
				_, _ = l.IsRevoked(ctx, "shared")
			}()
		}
		wg.Wait()

		revoked, err := l.IsRevoked(ctx, "shared")
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
