package llm

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"
)

// DefaultTokenMargin is how long before expiry a cached token is refreshed.
const DefaultTokenMargin = 60 * time.Second

// CachedToken is a short-lived session token and its expiry in unix seconds.
type CachedToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ExchangeFunc obtains a fresh session token.
type ExchangeFunc func(ctx context.Context) (CachedToken, error)

// TokenCache holds the most recently exchanged session token.
// Create one at startup and share it between all requests; it has no teardown.
// The mutex only guards the in-memory state, so concurrent callers may run
// duplicate exchanges and the last one to finish wins.
type TokenCache struct {
	mu     sync.Mutex
	owner  [sha256.Size]byte
	cached *CachedToken
	margin time.Duration
	now    func() time.Time
}

// NewTokenCache creates an empty cache. A non-positive margin selects DefaultTokenMargin.
func NewTokenCache(margin time.Duration) *TokenCache {
	if margin <= 0 {
		margin = DefaultTokenMargin
	}
	return &TokenCache{
		margin: margin,
		now:    time.Now,
	}
}

// Token returns the cached token for credential while it is still fresh,
// otherwise calls exchange and replaces the cached entry with its result.
// A cache entry obtained with a different credential is never returned.
func (c *TokenCache) Token(ctx context.Context, credential string, exchange ExchangeFunc) (string, error) {
	owner := sha256.Sum256([]byte(credential))
	if token, ok := c.lookup(owner); ok {
		return token, nil
	}

	fresh, err := exchange(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.owner = owner
	c.cached = &fresh
	c.mu.Unlock()

	return fresh.Token, nil
}

// Invalidate empties the cache.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *TokenCache) lookup(owner [sha256.Size]byte) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached == nil || c.owner != owner {
		return "", false
	}
	if c.now().Add(c.margin).Unix() < c.cached.ExpiresAt {
		return c.cached.Token, true
	}
	return "", false
}
