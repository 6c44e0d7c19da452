package categorize

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

// DefaultCacheTTL is how long a fetched pattern set is served before refetching.
const DefaultCacheTTL = 60 * time.Second

// PatternFetcher retrieves the current pattern tables from the pattern store.
type PatternFetcher interface {
	FetchPatterns(ctx context.Context) (*model.PatternFeed, error)
}

// FailurePolicy decides what the cache serves after a failed refresh.
type FailurePolicy string

const (
	// FailClosed drops both tables so everything falls through to Uncategorised.
	FailClosed FailurePolicy = "closed"
	// FailStale keeps serving the last successfully fetched tables.
	FailStale FailurePolicy = "stale"
)

// Patterns is an immutable snapshot of both pattern tables. It must not be copied
// after first use.
type Patterns struct {
	FetchedAt     time.Time
	Merchants     []model.MerchantPattern
	KeywordGroups []model.KeywordGroup

	prepareOnce sync.Once
	merchants   []preparedMerchant
	groups      []preparedGroup
}

// tables returns the normalized matching tables, building them on first use.
func (p *Patterns) tables() ([]preparedMerchant, []preparedGroup) {
	p.prepareOnce.Do(func() {
		p.merchants = prepareMerchants(p.Merchants)
		p.groups = prepareGroups(p.KeywordGroups)
	})
	return p.merchants, p.groups
}

// Loaded reports whether the snapshot came from a successful fetch.
func (p *Patterns) Loaded() bool {
	return !p.FetchedAt.IsZero()
}

// PatternCache holds the merchant and keyword tables behind a TTL. Readers always
// get a whole snapshot; refresh replaces the pointer and never mutates in place.
// Concurrent refreshes are not serialized, the last one to finish wins.
type PatternCache struct {
	fetcher  PatternFetcher
	now      func() time.Time
	snapshot atomic.Pointer[Patterns]
	policy   FailurePolicy
	ttl      time.Duration
}

// CacheOption configures a PatternCache.
type CacheOption func(*PatternCache)

// WithTTL sets the cache lifetime. Non-positive values keep the default.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *PatternCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithFailurePolicy sets the behavior after a failed refresh.
func WithFailurePolicy(policy FailurePolicy) CacheOption {
	return func(c *PatternCache) {
		if policy != "" {
			c.policy = policy
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *PatternCache) {
		c.now = now
	}
}

// NewPatternCache creates an empty cache that fetches through fetcher.
func NewPatternCache(fetcher PatternFetcher, opts ...CacheOption) *PatternCache {
	c := &PatternCache{
		fetcher: fetcher,
		now:     time.Now,
		policy:  FailClosed,
		ttl:     DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snapshot.Store(&Patterns{})
	return c
}

// Refresh fetches new tables unless the current ones are younger than the TTL and
// force is false. On failure the cache follows its FailurePolicy and the error is
// returned for reporting only; the cache is already in a usable state.
func (c *PatternCache) Refresh(ctx context.Context, force bool) error {
	current := c.snapshot.Load()
	if !force && current.Loaded() && c.now().Sub(current.FetchedAt) < c.ttl {
		common.LogDebug("Pattern cache hit", common.Fields{"age": c.now().Sub(current.FetchedAt)})
		return nil
	}

	feed, err := c.fetcher.FetchPatterns(ctx)
	if err == nil && feed == nil {
		err = fmt.Errorf("pattern store returned no data")
	}
	if err != nil {
		common.LogError(err, "Failed to refresh categorization patterns", common.Fields{
			"policy": string(c.policy),
			"forced": force,
		})
		if c.policy != FailStale {
			c.snapshot.Store(&Patterns{})
		}
		return fmt.Errorf("%w: %w", common.ErrPatternFetch, err)
	}

	next := &Patterns{
		FetchedAt:     c.now(),
		Merchants:     MerchantsFromFeed(feed.Merchants),
		KeywordGroups: GroupKeywords(feed.Keywords),
	}
	next.tables()
	c.snapshot.Store(next)

	slog.Info("Categorization patterns refreshed",
		"merchants", len(next.Merchants),
		"keyword_groups", len(next.KeywordGroups),
		"forced", force)

	return nil
}

// Invalidate drops both tables so the next Refresh always fetches.
func (c *PatternCache) Invalidate() {
	c.snapshot.Store(&Patterns{})
}

// Snapshot returns the current tables. It is never nil.
func (c *PatternCache) Snapshot() *Patterns {
	return c.snapshot.Load()
}

// Merchants returns the cached merchant table.
func (c *PatternCache) Merchants() []model.MerchantPattern {
	return c.Snapshot().Merchants
}

// KeywordGroups returns the cached keyword groups.
func (c *PatternCache) KeywordGroups() []model.KeywordGroup {
	return c.Snapshot().KeywordGroups
}

// LastFetched returns when the current tables were fetched, or the zero time.
func (c *PatternCache) LastFetched() time.Time {
	return c.Snapshot().FetchedAt
}
