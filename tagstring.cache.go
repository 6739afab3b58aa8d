package tagstring

import (
	"context"
	"sync"
)

// CachingResolver memoizes successful results of the wrapped resolver by
// expression. Arguments are not part of the key, so wrap only resolvers
// whose results do not depend on them. Failures are never cached.
type CachingResolver struct {
	inner   Resolver
	mu      sync.RWMutex
	entries map[string]any
	stats   CacheStats
}

// CacheStats tracks cache performance metrics.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewCachingResolver wraps inner with an expression cache
func NewCachingResolver(inner Resolver) *CachingResolver {
	return &CachingResolver{
		inner:   inner,
		entries: make(map[string]any),
	}
}

// Evaluate implements Resolver
func (c *CachingResolver) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	return c.cached(expr, func() (any, error) {
		return c.inner.Evaluate(ctx, expr, args)
	})
}

// EvaluateDepth implements DepthResolver. The budget is forwarded when the
// wrapped resolver honors one.
func (c *CachingResolver) EvaluateDepth(ctx context.Context, expr string, args *Args, depth int) (any, error) {
	return c.cached(expr, func() (any, error) {
		return evaluateWithDepth(ctx, c.inner, expr, args, depth)
	})
}

func (c *CachingResolver) cached(expr string, resolve func() (any, error)) (any, error) {
	c.mu.RLock()
	v, ok := c.entries[expr]
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		c.stats.Hits++
		c.mu.Unlock()
		return v, nil
	}

	v, err := resolve()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Misses++
	if err != nil {
		return nil, err
	}
	c.entries[expr] = v
	return v, nil
}

// Clear removes all cached entries
func (c *CachingResolver) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Len returns the number of cached entries
func (c *CachingResolver) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache statistics
func (c *CachingResolver) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Entries = len(c.entries)
	return stats
}
