package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wootdeals/internal/domain"
	"wootdeals/internal/domain/entity"
	"wootdeals/internal/domain/service/deals"
	"wootdeals/pkg/errcodes"
)

type memLowStore struct {
	mu   sync.Mutex
	lows map[string]float64
}

func newMemLowStore() *memLowStore {
	return &memLowStore{lows: make(map[string]float64)}
}

func (s *memLowStore) Get(offerID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	low, ok := s.lows[offerID]
	return low, ok
}

func (s *memLowStore) Record(_ context.Context, offerID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lows[offerID] = price
	return nil
}

type fakeLoader struct {
	err   error
	loads int
}

func (l *fakeLoader) Load(context.Context) error {
	l.loads++
	return l.err
}

type fakeClient struct {
	mu     sync.Mutex
	calls  map[string]int
	items  map[string][]deals.RawItem
	errs   map[string]error
	delay  time.Duration
	noCred bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls: make(map[string]int),
		items: make(map[string][]deals.RawItem),
		errs:  make(map[string]error),
	}
}

func (c *fakeClient) FetchFeed(_ context.Context, feedName string) ([]deals.RawItem, error) {
	c.mu.Lock()
	c.calls[feedName]++
	items, err := c.items[feedName], c.errs[feedName]
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	return items, err
}

func (c *fakeClient) HasCredential() bool {
	return !c.noCred
}

func (c *fakeClient) totalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int
	for _, n := range c.calls {
		total += n
	}
	return total
}

func boolPtr(b bool) *bool { return &b }

func qualifyingItem(offerID string, sale, list float64) deals.RawItem {
	return deals.RawItem{
		OfferID:   offerID,
		Title:     "Item " + offerID,
		URL:       "https://woot.com/offers/" + offerID,
		IsSoldOut: boolPtr(false),
		SalePrice: &deals.PriceBlock{Minimum: sale},
		ListPrice: &deals.PriceBlock{Minimum: list},
	}
}

func newTestRefresher(client *fakeClient, feeds ...string) *Refresher {
	r := NewRefresher(client, deals.NewTracker(newMemLowStore()), &fakeLoader{}, feeds)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	r.pacing = func() time.Duration { return 0 }

	return r
}

func TestDealsRunsCycleAndFilters(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{
		qualifyingItem("Q1", 80, 200),
		qualifyingItem("CHEAP", 20, 100),
	}

	r := newTestRefresher(client, "Electronics")

	list, err := r.Deals(context.Background(), false)
	rq.NoError(err)
	rq.Len(list, 1)
	rq.Equal("Q1", list[0].OfferID)
	rq.Equal(entity.StatusNewLow, list[0].Status.Kind)
	rq.Equal(StateFresh, r.State())
}

func TestDealsServedFromFreshCache(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}

	r := newTestRefresher(client, "Electronics")

	first, err := r.Deals(context.Background(), false)
	rq.NoError(err)

	second, err := r.Deals(context.Background(), false)
	rq.NoError(err)

	// No second fetch, identical slice.
	rq.Equal(1, client.totalCalls())
	rq.Same(&first[0], &second[0])
}

func TestDealsForceBypassesFreshness(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}

	r := newTestRefresher(client, "Electronics")

	_, err := r.Deals(context.Background(), false)
	rq.NoError(err)

	_, err = r.Deals(context.Background(), true)
	rq.NoError(err)

	rq.Equal(2, client.totalCalls())
}

func TestDealsExpiredCacheRefetches(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}

	r := newTestRefresher(client, "Electronics").WithFreshness(0)

	_, err := r.Deals(context.Background(), false)
	rq.NoError(err)

	_, err = r.Deals(context.Background(), false)
	rq.NoError(err)

	rq.Equal(2, client.totalCalls())
}

func TestDealsFailedFeedContributesNothing(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}
	client.errs["Tools"] = errors.New("boom")
	client.items["Home"] = []deals.RawItem{qualifyingItem("Q2", 90, 300)}

	r := newTestRefresher(client, "Electronics", "Tools", "Home")

	list, err := r.Deals(context.Background(), false)
	rq.NoError(err)
	rq.Len(list, 2)
	rq.Equal(StateFresh, r.State())
}

func TestDealsSortedByDiscountDesc(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("LOW", 95, 200)} // 52.5%
	client.items["Home"] = []deals.RawItem{qualifyingItem("HIGH", 80, 400)}       // 80%
	client.items["Tools"] = []deals.RawItem{qualifyingItem("MID", 80, 200)}       // 60%

	r := newTestRefresher(client, "Electronics", "Home", "Tools")

	list, err := r.Deals(context.Background(), false)
	rq.NoError(err)
	rq.Len(list, 3)
	rq.Equal("HIGH", list[0].OfferID)
	rq.Equal("MID", list[1].OfferID)
	rq.Equal("LOW", list[2].OfferID)
}

func TestDealsMissingCredential(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.noCred = true

	r := newTestRefresher(client, "Electronics")

	_, err := r.Deals(context.Background(), false)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.MissingAPIKey, code)
	rq.Equal(0, client.totalCalls())
}

func TestDealsFailedCycleServesPreviousSet(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}

	loader := &fakeLoader{}
	r := NewRefresher(client, deals.NewTracker(newMemLowStore()), loader, []string{"Electronics"})
	r.sleep = func(context.Context, time.Duration) error { return nil }
	r.pacing = func() time.Duration { return 0 }

	first, err := r.Deals(context.Background(), false)
	rq.NoError(err)
	rq.Len(first, 1)

	loader.err = errors.New("disk on fire")

	second, err := r.Deals(context.Background(), true)
	rq.NoError(err)
	rq.Equal(first, second)
	rq.Equal(StateStale, r.State())
}

func TestDealsConcurrentCallsShareOneCycle(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}
	client.delay = 50 * time.Millisecond

	r := newTestRefresher(client, "Electronics")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := r.Deals(context.Background(), false)
			rq.NoError(err)
			rq.Len(list, 1)
		}()
	}
	wg.Wait()

	rq.Equal(1, client.totalCalls())
}

func TestRefreshAndPublishSendsToChannel(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.items["Electronics"] = []deals.RawItem{qualifyingItem("Q1", 80, 200)}

	ch := make(chan []entity.Deal, 1)
	r := newTestRefresher(client, "Electronics").WithAnnouncements(ch)

	rq.NoError(r.refreshAndPublish(context.Background()))

	select {
	case list := <-ch:
		rq.Len(list, 1)
	default:
		t.Fatal("expected a published result set")
	}
}

func TestRefreshAndPublishStopsOnMissingCredential(t *testing.T) {
	rq := require.New(t)

	client := newFakeClient()
	client.noCred = true

	r := newTestRefresher(client, "Electronics")

	err := r.refreshAndPublish(context.Background())
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.MissingAPIKey, code)
}

func TestStateString(t *testing.T) {
	rq := require.New(t)

	rq.Equal("STALE", StateStale.String())
	rq.Equal("REFRESHING", StateRefreshing.String())
	rq.Equal("FRESH", StateFresh.String())
}
