package categorize

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sampleFeed() *model.PatternFeed {
	return &model.PatternFeed{
		Merchants: []model.MerchantRow{
			{MerchantPattern: "TIM HORTONS", AlternatePatterns: []string{"TIMS"}, Category: "Food", Label: "Coffee"},
		},
		Keywords: []model.KeywordRow{
			{Keyword: "GROCERY", Category: "Food", Label: "Groceries"},
			{Keyword: "RENT", Category: "Housing", Label: "Rent"},
		},
	}
}

func TestPatternCache_RefreshLoadsTables(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	clock := newFakeClock()

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil).Times(1)

	cache := NewPatternCache(fetcher, WithClock(clock.Now))
	assert.False(t, cache.Snapshot().Loaded())

	require.NoError(t, cache.Refresh(context.Background(), false))

	assert.True(t, cache.Snapshot().Loaded())
	assert.Equal(t, clock.Now(), cache.LastFetched())
	require.Len(t, cache.Merchants(), 1)
	assert.Equal(t, "TIM HORTONS", cache.Merchants()[0].Pattern)
	require.Len(t, cache.KeywordGroups(), 2)
	assert.Equal(t, "Groceries", cache.KeywordGroups()[0].Label)
}

func TestPatternCache_RefreshPreparesMatchTables(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil).Times(1)

	cache := NewPatternCache(fetcher)
	require.NoError(t, cache.Refresh(context.Background(), false))

	snap := cache.Snapshot()
	require.Len(t, snap.merchants, 1)
	assert.Equal(t, token{spaced: "TIM HORTONS", compact: "TIMHORTONS"}, snap.merchants[0].primary)
	require.Len(t, snap.merchants[0].alternates, 1)
	assert.Equal(t, "TIMS", snap.merchants[0].alternates[0].spaced)
	require.Len(t, snap.groups, 2)
	assert.Equal(t, "GROCERY", snap.groups[0].keywords[0].compact)
}

func TestPatterns_LiteralSnapshotPreparesOnFirstUse(t *testing.T) {
	snap := &Patterns{
		FetchedAt: time.Now(),
		Merchants: []model.MerchantPattern{{Pattern: "shell  gas", Category: "Transport", Label: "Car"}},
	}
	merchants, groups := snap.tables()
	require.Len(t, merchants, 1)
	assert.Equal(t, "SHELLGAS", merchants[0].primary.compact)
	assert.Empty(t, groups)

	again, _ := snap.tables()
	assert.Same(t, &merchants[0], &again[0])
}

func TestPatternCache_TTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	clock := newFakeClock()
	ctx := context.Background()

	cache := NewPatternCache(fetcher, WithClock(clock.Now), WithTTL(time.Minute))

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil).Times(1)
	require.NoError(t, cache.Refresh(ctx, false))

	// Within the TTL: no fetch.
	clock.Advance(30 * time.Second)
	require.NoError(t, cache.Refresh(ctx, false))

	// Expired: fetch again.
	clock.Advance(31 * time.Second)
	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil).Times(1)
	require.NoError(t, cache.Refresh(ctx, false))
	assert.Equal(t, clock.Now(), cache.LastFetched())
}

func TestPatternCache_ForceRefreshIgnoresTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	ctx := context.Background()

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil).Times(2)

	cache := NewPatternCache(fetcher, WithTTL(time.Hour))
	require.NoError(t, cache.Refresh(ctx, false))
	require.NoError(t, cache.Refresh(ctx, true))
}

func TestPatternCache_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	ctx := context.Background()

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil).Times(2)

	cache := NewPatternCache(fetcher, WithTTL(time.Hour))
	require.NoError(t, cache.Refresh(ctx, false))

	cache.Invalidate()
	assert.False(t, cache.Snapshot().Loaded())
	assert.Nil(t, cache.Merchants())
	assert.Nil(t, cache.KeywordGroups())
	assert.True(t, cache.LastFetched().IsZero())

	require.NoError(t, cache.Refresh(ctx, false))
	assert.Len(t, cache.Merchants(), 1)
}

func TestPatternCache_FailClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	clock := newFakeClock()
	ctx := context.Background()
	errDown := errors.New("connection refused")

	cache := NewPatternCache(fetcher, WithClock(clock.Now))

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil)
	require.NoError(t, cache.Refresh(ctx, false))

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(nil, errDown)
	err := cache.Refresh(ctx, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPatternFetch)
	assert.ErrorIs(t, err, errDown)

	assert.False(t, cache.Snapshot().Loaded())
	assert.Empty(t, cache.Merchants())
	assert.Empty(t, cache.KeywordGroups())

	// Nothing cached, so the next call fetches even without force.
	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil)
	require.NoError(t, cache.Refresh(ctx, false))
	assert.Len(t, cache.Merchants(), 1)
}

func TestPatternCache_FailStaleKeepsPreviousTables(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)
	clock := newFakeClock()
	ctx := context.Background()

	cache := NewPatternCache(fetcher, WithClock(clock.Now), WithFailurePolicy(FailStale))

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(sampleFeed(), nil)
	require.NoError(t, cache.Refresh(ctx, false))
	fetchedAt := cache.LastFetched()

	clock.Advance(2 * DefaultCacheTTL)
	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(nil, errors.New("503"))
	require.Error(t, cache.Refresh(ctx, false))

	assert.Len(t, cache.Merchants(), 1)
	assert.Len(t, cache.KeywordGroups(), 2)
	assert.Equal(t, fetchedAt, cache.LastFetched())
}

func TestPatternCache_NilFeedIsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(nil, nil)

	cache := NewPatternCache(fetcher)
	err := cache.Refresh(context.Background(), false)
	assert.ErrorIs(t, err, common.ErrPatternFetch)
	assert.False(t, cache.Snapshot().Loaded())
}

func TestPatternCache_SuccessfulEmptyFetchCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)

	fetcher.EXPECT().FetchPatterns(gomock.Any()).Return(&model.PatternFeed{}, nil).Times(1)

	cache := NewPatternCache(fetcher)
	require.NoError(t, cache.Refresh(context.Background(), false))
	assert.True(t, cache.Snapshot().Loaded())

	// Still within TTL, so an empty but successful fetch is not repeated.
	require.NoError(t, cache.Refresh(context.Background(), false))
}

func TestPatternCache_SnapshotsAreNeverMixed(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockPatternFetcher(ctrl)

	feeds := []*model.PatternFeed{
		{
			Merchants: []model.MerchantRow{{MerchantPattern: "A", Category: "Food", Label: "Coffee"}},
			Keywords:  []model.KeywordRow{{Keyword: "A", Category: "Food", Label: "Coffee"}},
		},
		{
			Merchants: []model.MerchantRow{{MerchantPattern: "B", Category: "Work", Label: "Work"}},
			Keywords:  []model.KeywordRow{{Keyword: "B", Category: "Work", Label: "Work"}},
		},
	}
	var mu sync.Mutex
	next := 0
	fetcher.EXPECT().FetchPatterns(gomock.Any()).DoAndReturn(func(context.Context) (*model.PatternFeed, error) {
		mu.Lock()
		defer mu.Unlock()
		feed := feeds[next%2]
		next++
		return feed, nil
	}).AnyTimes()

	cache := NewPatternCache(fetcher)
	require.NoError(t, cache.Refresh(context.Background(), true))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = cache.Refresh(context.Background(), true)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap := cache.Snapshot()
			assert.Equal(t, snap.Merchants[0].Pattern, snap.KeywordGroups[0].Keywords[0])
		}
	}()
	wg.Wait()
}
