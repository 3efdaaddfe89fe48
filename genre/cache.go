// Package genre keeps a local, time-expiring mapping of genre id to name.
//
// Reads never touch the network. Only Refresh and PrimeIfEmpty call the
// catalog. The cache is all-or-nothing: when the oldest entry is older than
// the TTL the whole store is cleared, and a failed refresh leaves the
// previous contents in place.
package genre

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

// DefaultTTL is how long a fetched genre list stays valid
const DefaultTTL = 24 * time.Hour

// DefaultFallbackName is returned by LookupName for unknown ids
const DefaultFallbackName = "Action"

// Entry is a cached genre with the time it was fetched
type Entry struct {
	ID          int
	Name        string
	LastUpdated time.Time
}

// Fetcher loads the genre list from the remote catalog
type Fetcher interface {
	FetchGenres(ctx context.Context) ([]tmdb.Genre, error)
}

// Store persists cache entries. Implementations must make Replace atomic.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Replace(ctx context.Context, entries []Entry) error
	Clear(ctx context.Context) error
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFallbackName sets the name returned for unknown ids.
func WithFallbackName(name string) Option {
	return func(c *Cache) {
		c.fallback = name
	}
}

// Cache maps genre ids to names
type Cache struct {
	fetcher  Fetcher
	store    Store
	logger   zerolog.Logger
	ttl      time.Duration
	now      func() time.Time
	fallback string

	// mu serialises expiry checks against replacement so a clear never
	// races a fresh write. It is not held during the network fetch.
	mu sync.Mutex
}

// NewCache creates a genre cache backed by store. A nil store means an
// in-memory store.
func NewCache(fetcher Fetcher, store Store, logger zerolog.Logger, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		fetcher:  fetcher,
		store:    store,
		logger:   logger.With().Str("component", "genre_cache").Logger(),
		ttl:      DefaultTTL,
		now:      time.Now,
		fallback: DefaultFallbackName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// snapshot returns the current entries if the cache is non-empty and fresh.
// An expired cache is cleared as a side effect.
func (c *Cache) snapshot(ctx context.Context) ([]Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load genre cache")
		return nil, false
	}
	if len(entries) == 0 {
		return nil, false
	}

	oldest := entries[0].LastUpdated
	for _, e := range entries[1:] {
		if e.LastUpdated.Before(oldest) {
			oldest = e.LastUpdated
		}
	}

	if age := c.now().Sub(oldest); age > c.ttl {
		c.logger.Debug().
			Dur("age", age).
			Int("entries", len(entries)).
			Msg("Genre cache expired, clearing")
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to clear expired genre cache")
		}
		return nil, false
	}

	return entries, true
}

// LookupName returns the cached name for id, or the fallback name when the id
// is unknown or the cache is empty or expired.
func (c *Cache) LookupName(id int) string {
	entries, ok := c.snapshot(context.Background())
	if !ok {
		return c.fallback
	}
	for _, e := range entries {
		if e.ID == id {
			return e.Name
		}
	}
	return c.fallback
}

// LookupNames joins the names of the known ids with ", " in the order given.
// Unknown ids are skipped. It reports false when nothing matched.
func (c *Cache) LookupNames(ids []int) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	entries, ok := c.snapshot(context.Background())
	if !ok {
		return "", false
	}

	byID := make(map[int]string, len(entries))
	for _, e := range entries {
		byID[e.ID] = e.Name
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, ", "), true
}

// FallbackName returns the name used for unknown ids
func (c *Cache) FallbackName() string {
	return c.fallback
}

// Names returns the cached genres in catalog order, or nil when the cache is
// empty or expired
func (c *Cache) Names() []tmdb.Genre {
	entries, ok := c.snapshot(context.Background())
	if !ok {
		return nil
	}
	genres := make([]tmdb.Genre, len(entries))
	for i, e := range entries {
		genres[i] = tmdb.Genre{ID: e.ID, Name: e.Name}
	}
	return genres
}

// Refresh fetches the genre list and replaces the cache contents, stamping
// every entry with the current time. On failure the previous contents are
// kept.
func (c *Cache) Refresh(ctx context.Context) error {
	genres, err := c.fetcher.FetchGenres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}

	now := c.now()
	entries := make([]Entry, len(genres))
	for i, g := range genres {
		entries[i] = Entry{ID: g.ID, Name: g.Name, LastUpdated: now}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Replace(ctx, entries); err != nil {
		return fmt.Errorf("failed to store genres: %w", err)
	}

	c.logger.Debug().Int("count", len(entries)).Msg("Genre cache refreshed")
	return nil
}

// PrimeIfEmpty refreshes only when there is no valid cache
func (c *Cache) PrimeIfEmpty(ctx context.Context) error {
	if _, ok := c.snapshot(ctx); ok {
		return nil
	}
	return c.Refresh(ctx)
}
