// Package cache provides an in-process TTL cache with structured keys and
// identical-key computation coalescing.
//
// Entries are immutable once written; a Set replaces, never mutates in place.
// TTL exists to bound memory growth across long uptimes, not because cached
// payloads go stale: for fixed past ranges the underlying computation is pure.
// The cache is the only shared mutable state in the process and is safe under
// concurrent readers and writers
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key is a deterministic digest of every parameter that affects a payload.
// Build one with KeyOf over a value type holding the exact parameter tuple;
// never concatenate strings by hand at call sites
type Key [sha256.Size]byte

// String returns the full hex form of the key
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Short returns an abbreviated hex form for logs
func (k Key) Short() string { return hex.EncodeToString(k[:6]) }

// KeyOf digests a value type into a Key. The value must be a plain struct of
// marshalable fields; field order is fixed by the type declaration, which is
// what makes the digest deterministic across call sites
func KeyOf(v any) Key {
	b, err := json.Marshal(v)
	if err != nil {
		// keys are built from developer-defined parameter structs; a marshal
		// failure is a programming error, not a runtime condition
		panic("cache: unmarshalable key struct: " + err.Error())
	}
	return sha256.Sum256(b)
}

// Options configures a Cache
type Options struct {
	// TTL is the default entry lifetime; <= 0 uses one hour
	TTL time.Duration
	// SweepInterval is how often the janitor drops expired entries; <= 0
	// uses five minutes
	SweepInterval time.Duration
}

type entry struct {
	payload   any
	expiresAt time.Time
}

// Cache is an injectable TTL cache. Construct with New, stop with Close
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]entry

	ttl   time.Duration
	sweep time.Duration

	sf singleflight.Group

	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a Cache and starts its janitor goroutine
func New(opt Options) *Cache {
	if opt.TTL <= 0 {
		opt.TTL = time.Hour
	}
	if opt.SweepInterval <= 0 {
		opt.SweepInterval = 5 * time.Minute
	}
	c := &Cache{
		entries: make(map[Key]entry),
		ttl:     opt.TTL,
		sweep:   opt.SweepInterval,
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the payload for k if present and unexpired
func (c *Cache) Get(k Key) (any, bool) {
	now := time.Now()
	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok || now.After(e.expiresAt) {
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under k. ttl <= 0 uses the cache default. Last write
// wins; two concurrent computations of the same key store equal payloads
func (c *Cache) Set(k Key, payload any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	c.entries[k] = entry{payload: payload, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// FillFunc computes a payload on miss. Returning store=false hands the
// payload to the caller without caching it (used for degraded results that
// should be retried on the next request)
type FillFunc func(ctx context.Context) (payload any, store bool, err error)

// Do returns the cached payload for k or computes it once, coalescing
// concurrent callers of the same key onto a single computation. The bool
// result reports a cache hit
func (c *Cache) Do(ctx context.Context, k Key, ttl time.Duration, fill FillFunc) (any, bool, error) {
	if v, ok := c.Get(k); ok {
		return v, true, nil
	}
	type filled struct {
		payload any
		hit     bool
	}
	v, err, _ := c.sf.Do(k.String(), func() (any, error) {
		// a racing caller may have filled while we queued
		if v, ok := c.Get(k); ok {
			return filled{payload: v, hit: true}, nil
		}
		payload, store, err := fill(ctx)
		if err != nil {
			return nil, err
		}
		if store {
			c.Set(k, payload, ttl)
		}
		return filled{payload: payload}, nil
	})
	if err != nil {
		return nil, false, err
	}
	f := v.(filled)
	return f.payload, f.hit, nil
}

// Len reports the number of live entries (expired but unswept entries count)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[Key]entry)
	c.mu.Unlock()
}

// Close stops the janitor and clears the cache. Safe to call twice
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.Purge()
}

func (c *Cache) janitor() {
	t := time.NewTicker(c.sweep)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-t.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
