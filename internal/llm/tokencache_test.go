package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCache_Freshness(t *testing.T) {
	expiry := time.Unix(1_800_000_000, 0)
	margin := 60 * time.Second

	tests := []struct {
		name          string
		now           time.Time
		wantToken     string
		wantExchanges int32
	}{
		{
			name:          "before margin returns cached",
			now:           expiry.Add(-margin - time.Second),
			wantToken:     "cached",
			wantExchanges: 0,
		},
		{
			name:          "inside margin re-exchanges",
			now:           expiry.Add(-margin + time.Second),
			wantToken:     "fresh",
			wantExchanges: 1,
		},
		{
			name:          "after expiry re-exchanges",
			now:           expiry.Add(time.Hour),
			wantToken:     "fresh",
			wantExchanges: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewTokenCache(margin)
			cache.now = func() time.Time { return tt.now }

			_, err := cache.Token(context.Background(), "oauth", func(context.Context) (CachedToken, error) {
				return CachedToken{Token: "cached", ExpiresAt: expiry.Unix()}, nil
			})
			require.NoError(t, err)

			var exchanges atomic.Int32
			got, err := cache.Token(context.Background(), "oauth", func(context.Context) (CachedToken, error) {
				exchanges.Add(1)
				return CachedToken{Token: "fresh", ExpiresAt: expiry.Add(time.Hour).Unix()}, nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, got)
			assert.Equal(t, tt.wantExchanges, exchanges.Load())
		})
	}
}

func TestTokenCache_OwnerChange(t *testing.T) {
	cache := NewTokenCache(0)
	far := time.Now().Add(time.Hour).Unix()

	first, err := cache.Token(context.Background(), "user-a", func(context.Context) (CachedToken, error) {
		return CachedToken{Token: "a", ExpiresAt: far}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a", first)

	second, err := cache.Token(context.Background(), "user-b", func(context.Context) (CachedToken, error) {
		return CachedToken{Token: "b", ExpiresAt: far}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "b", second)
}

func TestTokenCache_InvalidateAndErrors(t *testing.T) {
	cache := NewTokenCache(time.Minute)
	far := time.Now().Add(time.Hour).Unix()

	_, err := cache.Token(context.Background(), "oauth", func(context.Context) (CachedToken, error) {
		return CachedToken{Token: "one", ExpiresAt: far}, nil
	})
	require.NoError(t, err)

	cache.Invalidate()

	boom := errors.New("exchange failed")
	_, err = cache.Token(context.Background(), "oauth", func(context.Context) (CachedToken, error) {
		return CachedToken{}, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := cache.Token(context.Background(), "oauth", func(context.Context) (CachedToken, error) {
		return CachedToken{Token: "two", ExpiresAt: far}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestTokenCache_Concurrent(t *testing.T) {
	cache := NewTokenCache(time.Minute)
	far := time.Now().Add(time.Hour).Unix()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Token(context.Background(), "oauth", func(context.Context) (CachedToken, error) {
				return CachedToken{Token: "shared", ExpiresAt: far}, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "shared", got)
		}()
	}
	wg.Wait()
}
