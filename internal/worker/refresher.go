package worker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wootdeals/internal/domain"
	"wootdeals/internal/domain/entity"
	"wootdeals/internal/domain/service/deals"
	"wootdeals/pkg/contextx"
	"wootdeals/pkg/errcodes"
	"wootdeals/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultFreshFor = 300 * time.Second

	pacingMin = 1100 * time.Millisecond
	pacingMax = 1300 * time.Millisecond
)

type FeedClient interface {
	FetchFeed(ctx context.Context, feedName string) ([]deals.RawItem, error)
	HasCredential() bool
}

// LowLoader reloads the historical-low table before each cycle.
type LowLoader interface {
	Load(ctx context.Context) error
}

type State int

const (
	StateStale State = iota
	StateRefreshing
	StateFresh
)

func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "REFRESHING"
	case StateFresh:
		return "FRESH"
	default:
		return "STALE"
	}
}

// Refresher owns the shared result cache and drives the
// fetch→normalize→filter→track cycle over all feeds.
//
// At most one cycle runs at a time process-wide: concurrent triggers share
// the in-flight computation through singleflight. The cached slice is
// swapped wholesale, so readers holding the previous slice are unaffected.
type Refresher struct {
	client  FeedClient
	tracker *deals.Tracker
	lows    LowLoader
	feeds   []string

	freshFor time.Duration
	announce chan<- []entity.Deal

	mu          sync.Mutex
	state       State
	cached      []entity.Deal
	refreshedAt time.Time

	group singleflight.Group

	// Injection points for tests.
	sleep  func(ctx context.Context, d time.Duration) error
	pacing func() time.Duration
}

func NewRefresher(
	client FeedClient,
	tracker *deals.Tracker,
	lows LowLoader,
	feeds []string,
) *Refresher {
	return &Refresher{
		client:   client,
		tracker:  tracker,
		lows:     lows,
		feeds:    feeds,
		freshFor: defaultFreshFor,
		sleep:    sleepContext,
		pacing: func() time.Duration {
			return pacingMin + time.Duration(rand.Int63n(int64(pacingMax-pacingMin))) //nolint:gosec // pacing jitter
		},
	}
}

func (r *Refresher) WithFreshness(d time.Duration) *Refresher {
	r.freshFor = d
	return r
}

// WithAnnouncements wires the channel scheduled refreshes publish to.
func (r *Refresher) WithAnnouncements(ch chan<- []entity.Deal) *Refresher {
	r.announce = ch
	return r
}

func (r *Refresher) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Deals returns the qualifying deal list. A fresh cached set is returned
// as-is unless force is set; otherwise one refresh cycle runs and every
// concurrent caller awaits it. A failed cycle keeps the previous set and
// hands it to the caller; only a missing feed credential is surfaced.
func (r *Refresher) Deals(ctx context.Context, force bool) ([]entity.Deal, error) {
	if !r.client.HasCredential() {
		return nil, domain.NewError(errcodes.MissingAPIKey, "feed API key is not configured")
	}

	if !force {
		r.mu.Lock()
		if r.state == StateFresh && time.Since(r.refreshedAt) < r.freshFor {
			cached := r.cached
			r.mu.Unlock()
			return cached, nil
		}
		r.mu.Unlock()
	}

	result, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.runCycle(ctx)
	})
	if err != nil {
		logger(ctx).Error("refresh cycle failed, serving previous result set", logx.Error(err))

		r.mu.Lock()
		cached := r.cached
		r.mu.Unlock()

		return cached, nil
	}

	list, ok := result.([]entity.Deal)
	if !ok {
		return nil, fmt.Errorf("unexpected singleflight result type %T", result)
	}

	return list, nil
}

func (r *Refresher) runCycle(ctx context.Context) (result []entity.Deal, err error) {
	r.setState(StateRefreshing)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during refresh cycle: %v", rec)
		}
		if err != nil {
			// Previous cached set stays published untouched.
			r.setState(StateStale)
			metricRefreshCycles.WithLabelValues("failure").Inc()
		}
	}()

	logger(ctx).Info("refresh cycle started", "feeds", len(r.feeds))
	start := time.Now()

	if err := r.lows.Load(ctx); err != nil {
		return nil, domain.WrapError(err, errcodes.RefreshFailed, "load historical lows")
	}

	var qualified []entity.Deal

	for _, feedName := range r.feeds {
		items, err := r.client.FetchFeed(ctx, feedName)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err() //nolint:wrapcheck
			}

			// One feed failing never aborts the cycle.
			logger(ctx).Warn("feed contributed no items", "feed", feedName, logx.Error(err))
			metricFeedFailures.WithLabelValues(feedName).Inc()
			items = nil
		}

		for _, raw := range items {
			deal := deals.Normalize(raw, feedName)

			if !deals.PassesStrictRules(deal) {
				continue
			}

			r.tracker.Evaluate(ctx, &deal)
			qualified = append(qualified, deal)
		}

		// Upstream rate-limit pacing between feeds.
		if err := r.sleep(ctx, r.pacing()); err != nil {
			return nil, err
		}
	}

	deals.SortByDiscount(qualified)

	r.mu.Lock()
	r.cached = qualified
	r.refreshedAt = time.Now()
	r.state = StateFresh
	r.mu.Unlock()

	metricRefreshCycles.WithLabelValues("success").Inc()
	metricQualifyingDeals.Set(float64(len(qualified)))

	logger(ctx).Info("refresh cycle completed",
		"qualifying_deals", len(qualified),
		"elapsed", time.Since(start),
	)

	return qualified, nil
}

func (r *Refresher) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

// RunScheduled forces a refresh on every tick and publishes the fresh set
// for announcement. It stops only on context cancellation or a missing
// credential.
func (r *Refresher) RunScheduled(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger(ctx).Info("scheduled refresh started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("scheduled refresh stopped")
			return ctx.Err() //nolint:wrapcheck

		case <-ticker.C:
			if err := r.refreshAndPublish(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Refresher) refreshAndPublish(ctx context.Context) error {
	list, err := r.Deals(ctx, true)
	if err != nil {
		if code, ok := domain.GetCode(err); ok && code == errcodes.MissingAPIKey {
			logger(ctx).Error("feed API key missing, stopping scheduled refresh")
			return err
		}

		logger(ctx).Error("scheduled refresh failed", logx.Error(err))
		return nil
	}

	if r.announce == nil {
		return nil
	}

	select {
	case r.announce <- list:
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	default:
		logger(ctx).Warn("announcement channel full, dropping cycle summary")
	}

	return nil
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
