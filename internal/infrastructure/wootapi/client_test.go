package wootapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wootdeals/internal/config"
	"wootdeals/internal/domain"
	"wootdeals/internal/infrastructure/wootapi"
	"wootdeals/pkg/errcodes"
)

func newTestClient(baseURL string) (*wootapi.Client, *[]time.Duration) {
	sleeps := &[]time.Duration{}

	client := wootapi.NewClient(config.Woot{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		AttemptTimeout: 2 * time.Second,
	}).
		WithHTTPClient(http.DefaultClient).
		WithSleep(func(_ context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		})

	return client, sleeps
}

func TestFetchFeedSuccess(t *testing.T) {
	rq := require.New(t)

	var gotPath, gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(`{"Items": [{"OfferId": "O1", "Title": "Thing"}]}`))
	}))
	defer server.Close()

	// Default transport carries the api key header.
	client := wootapi.NewClient(config.Woot{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		AttemptTimeout: 2 * time.Second,
	})

	items, err := client.FetchFeed(context.Background(), "Electronics")
	rq.NoError(err)
	rq.Len(items, 1)
	rq.Equal("O1", items[0].OfferID)
	rq.Equal("Thing", items[0].Title)
	rq.Equal("/feed/Electronics", gotPath)
	rq.Equal("test-key", gotKey)
}

func TestFetchFeedRetriesOnRateLimit(t *testing.T) {
	rq := require.New(t)

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"Items": [{"OfferId": "O1"}]}`))
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	items, err := client.FetchFeed(context.Background(), "Tools")
	rq.NoError(err)
	rq.Len(items, 1)
	rq.EqualValues(3, calls.Load())

	// Backoff grows with the attempt: 2^attempt plus jitter in [0.5, 1.5).
	rq.Len(*sleeps, 2)
	rq.GreaterOrEqual((*sleeps)[0], 1500*time.Millisecond)
	rq.Less((*sleeps)[0], 2500*time.Millisecond)
	rq.GreaterOrEqual((*sleeps)[1], 2500*time.Millisecond)
	rq.Less((*sleeps)[1], 3500*time.Millisecond)
}

func TestFetchFeedRateLimitExhaustion(t *testing.T) {
	rq := require.New(t)

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	_, err := client.FetchFeed(context.Background(), "Tools")
	rq.Error(err)
	rq.EqualValues(3, calls.Load())
	rq.Len(*sleeps, 3)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.FeedRateLimited, code)
}

func TestFetchFeedHardFailureDoesNotRetry(t *testing.T) {
	rq := require.New(t)

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)

	_, err := client.FetchFeed(context.Background(), "Tools")
	rq.Error(err)
	rq.EqualValues(1, calls.Load())
	rq.Empty(*sleeps)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.FeedUnavailable, code)
}

func TestFetchFeedTimeoutRetriesImmediately(t *testing.T) {
	rq := require.New(t)

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			// Outlive the attempt timeout.
			<-r.Context().Done()
			return
		}
		_, _ = w.Write([]byte(`{"Items": []}`))
	}))
	defer server.Close()

	sleeps := []time.Duration{}

	client := wootapi.NewClient(config.Woot{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		AttemptTimeout: 100 * time.Millisecond,
	}).
		WithHTTPClient(http.DefaultClient).
		WithSleep(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		})

	items, err := client.FetchFeed(context.Background(), "Tools")
	rq.NoError(err)
	rq.Empty(items)
	rq.EqualValues(2, calls.Load())

	// A timed-out attempt retries without backing off.
	rq.Empty(sleeps)
}

func TestFetchFeedCancelledContext(t *testing.T) {
	rq := require.New(t)

	client, _ := newTestClient("http://127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchFeed(ctx, "Tools")
	rq.ErrorIs(err, context.Canceled)
}

func TestHasCredential(t *testing.T) {
	rq := require.New(t)

	rq.True(wootapi.NewClient(config.Woot{APIKey: "k"}).HasCredential())
	rq.False(wootapi.NewClient(config.Woot{}).HasCredential())
}
