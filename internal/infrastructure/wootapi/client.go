package wootapi

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"wootdeals/internal/config"
	"wootdeals/internal/domain"
	"wootdeals/internal/domain/service/deals"
	"wootdeals/pkg/contextx"
	"wootdeals/pkg/errcodes"
	"wootdeals/pkg/httpx"
	"wootdeals/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const maxAttempts = 3

// Client fetches raw feed items from the Woot developer API.
//
// Retry policy per feed: up to 3 attempts; 429 waits 2^attempt plus jitter
// seconds, a timed-out attempt retries immediately, any other failure aborts
// the feed. Each attempt runs under its own bounded timeout.
type Client struct {
	baseURL        string
	apiKey         string
	attemptTimeout time.Duration
	httpClient     *http.Client

	// Injection points for tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

func NewClient(cfg config.Woot) *Client {
	transport := httpx.NewLoggingRoundTripper(
		httpx.NewAPIKeyRoundTripper(http.DefaultTransport, cfg.APIKey),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(2048),
	)

	return &Client{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		attemptTimeout: cfg.AttemptTimeout,
		httpClient:     &http.Client{Transport: transport},
		sleep:          sleepContext,
		jitter:         func() float64 { return 0.5 + rand.Float64() }, //nolint:gosec // backoff jitter
	}
}

func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

func (c *Client) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Client {
	c.sleep = sleep
	return c
}

func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

type feedResponse struct {
	Items []deals.RawItem `json:"Items"`
}

// FetchFeed returns the raw item list for one named feed. Callers contain
// the error: a failed feed contributes an empty slice to the cycle.
func (c *Client) FetchFeed(ctx context.Context, feedName string) ([]deals.RawItem, error) {
	endpoint := fmt.Sprintf("%s/feed/%s", c.baseURL, feedName)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck
		}

		items, status, err := c.attempt(ctx, endpoint)

		switch {
		case err == nil && status == http.StatusOK:
			return items, nil

		case err == nil && status == http.StatusTooManyRequests:
			delay := time.Duration((exp2(attempt) + c.jitter()) * float64(time.Second))

			logger(ctx).Warn("feed rate limited, backing off",
				"feed", feedName,
				"attempt", attempt,
				"delay", delay,
			)

			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}

		case err == nil:
			return nil, domain.NewError(errcodes.FeedUnavailable,
				fmt.Sprintf("feed %s answered status %d", feedName, status))

		case isTimeout(err) && ctx.Err() == nil:
			// Immediate retry, still bounded by the attempt ceiling.
			logger(ctx).Warn("feed request timed out", "feed", feedName, "attempt", attempt)

		default:
			return nil, domain.WrapError(err, errcodes.FeedUnavailable,
				fmt.Sprintf("feed %s request failed", feedName))
		}
	}

	return nil, domain.NewError(errcodes.FeedRateLimited,
		fmt.Sprintf("feed %s: %d attempts exhausted", feedName, maxAttempts))
}

func (c *Client) attempt(ctx context.Context, endpoint string) ([]deals.RawItem, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, 0, fmt.Errorf("json.Decode: %w", err)
	}

	return feed.Items, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func exp2(attempt int) float64 {
	return float64(int(1) << attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}
