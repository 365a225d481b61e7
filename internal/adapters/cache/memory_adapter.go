package cache

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/providers"
)

// MemoryAdapter is an in-process CacheProvider used when Redis is disabled
// and in tests. Entries share one TTL; the per-call expiration is ignored
// beyond that bound.
type MemoryAdapter struct {
	lru *expirable.LRU[string, []byte]
}

// Ensure MemoryAdapter implements CacheProvider
var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// NewMemoryAdapter creates an LRU cache holding at most size entries for ttl
func NewMemoryAdapter(size int, ttl time.Duration) *MemoryAdapter {
	return &MemoryAdapter{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := a.lru.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

// GetMulti retrieves several values
func (a *MemoryAdapter) GetMulti(_ context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := a.lru.Get(k); ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set stores a value in cache
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, _ int) error {
	a.lru.Add(key, value)
	return nil
}

// SetMulti stores several values
func (a *MemoryAdapter) SetMulti(_ context.Context, items map[string][]byte, _ int) error {
	for k, v := range items {
		a.lru.Add(k, v)
	}
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.lru.Remove(key)
	return nil
}

// DeletePattern removes every key matching the glob pattern. As in Redis,
// * matches any run of characters including slashes and ? matches one.
func (a *MemoryAdapter) DeletePattern(_ context.Context, pattern string) error {
	re, err := globToRegexp(pattern)
	if err != nil {
		return err
	}
	for _, k := range a.lru.Keys() {
		if re.MatchString(k) {
			a.lru.Remove(k)
		}
	}
	return nil
}

func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(_ context.Context, key string) (bool, error) {
	return a.lru.Contains(key), nil
}
