// Package auth provides header providers for the IMDb client. The service
// authorizes requests through signed headers computed per request path;
// this package treats the signing scheme as opaque and only deals in the
// resulting header maps.
package auth

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Provider computes the headers required to authorize a request for a
// path. It satisfies the client's AuthProvider interface.
type Provider interface {
	AuthHeaders(ctx context.Context, path string) (map[string]string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, path string) (map[string]string, error)

// AuthHeaders implements Provider
func (f ProviderFunc) AuthHeaders(ctx context.Context, path string) (map[string]string, error) {
	return f(ctx, path)
}

// StaticProvider returns the same fixed headers for every path. Useful for
// API keys and for endpoints that accept unauthenticated requests (pass
// nil headers).
type StaticProvider struct {
	headers map[string]string
}

// Static creates a provider that always returns the given headers.
func Static(headers map[string]string) *StaticProvider {
	return &StaticProvider{headers: maps.Clone(headers)}
}

// AuthHeaders implements Provider
func (p *StaticProvider) AuthHeaders(_ context.Context, _ string) (map[string]string, error) {
	return maps.Clone(p.headers), nil
}

// CachingProvider wraps another provider and reuses its headers per path
// until they expire. Signing providers typically derive headers from
// short-lived credentials; caching avoids recomputing them for repeated
// fetches of the same path.
type CachingProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry

	now func() time.Time
}

type cacheEntry struct {
	headers map[string]string
	fetched time.Time
}

// NewCaching creates a caching decorator around inner with the given TTL.
func NewCaching(inner Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// AuthHeaders implements Provider
func (p *CachingProvider) AuthHeaders(ctx context.Context, path string) (map[string]string, error) {
	p.mu.Lock()
	entry, ok := p.entries[path]
	p.mu.Unlock()

	if ok && p.now().Sub(entry.fetched) < p.ttl {
		return maps.Clone(entry.headers), nil
	}

	headers, err := p.inner.AuthHeaders(ctx, path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.entries[path] = cacheEntry{headers: maps.Clone(headers), fetched: p.now()}
	p.mu.Unlock()

	return headers, nil
}

// Invalidate drops any cached headers for path.
func (p *CachingProvider) Invalidate(path string) {
	p.mu.Lock()
	delete(p.entries, path)
	p.mu.Unlock()
}
