package patternfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedJSON = `{
	"keywords": [
		{"keyword": "grocery", "category": "Food", "label": "Groceries"},
		{"keyword": "supermarket", "category": "Food", "label": "Groceries"}
	],
	"merchants": [
		{"merchant_pattern": "TIM HORTONS", "alternate_patterns": ["TIMS"], "category": "Food", "label": "Coffee"}
	]
}`

func fastRetry() Option {
	return WithRetryOptions(common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	})
}

func TestClient_FetchPatterns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/patterns", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedJSON))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/patterns", fastRetry())
	require.NoError(t, err)

	feed, err := client.FetchPatterns(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.Keywords, 2)
	assert.Equal(t, "grocery", feed.Keywords[0].Keyword)
	require.Len(t, feed.Merchants, 1)
	assert.Equal(t, "TIM HORTONS", feed.Merchants[0].MerchantPattern)
	assert.Equal(t, []string{"TIMS"}, feed.Merchants[0].AlternatePatterns)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(feedJSON))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, fastRetry())
	require.NoError(t, err)

	feed, err := client.FetchPatterns(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.Merchants, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, fastRetry())
	require.NoError(t, err)

	_, err = client.FetchPatterns(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"keywords": [`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, fastRetry())
	require.NoError(t, err)

	_, err = client.FetchPatterns(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestClient_FeedsPatternCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feedJSON))
	}))

	client, err := NewClient(srv.URL, fastRetry())
	require.NoError(t, err)

	engine := categorize.NewEngine(categorize.NewPatternCache(client))
	require.NoError(t, engine.RefreshPatterns(context.Background(), false))

	got := engine.Categorize("SUPERMARKET 24", decimal.NewFromInt(-20), nil)
	assert.Equal(t, "Groceries", got.Label)

	// Store goes away: fail closed on the next forced refresh.
	srv.Close()
	require.Error(t, engine.RefreshPatterns(context.Background(), true))
	assert.True(t, engine.Categorize("SUPERMARKET 24", decimal.Zero, nil).IsUncategorised())
}
