package persistence

import (
	"context"
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"wootdeals/internal/domain"
	"wootdeals/pkg/contextx"
	"wootdeals/pkg/errcodes"
	"wootdeals/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// LowStore persists the offer-id → lowest-sale-price table as a flat,
// pretty-printed JSON file. Every Record rewrites the whole file, so a crash
// loses at most the in-flight offer.
type LowStore struct {
	path string

	mu   sync.Mutex
	lows map[string]float64
}

func NewLowStore(path string) *LowStore {
	return &LowStore{
		path: path,
		lows: make(map[string]float64),
	}
}

// Load replaces the in-memory table with the file contents. A missing or
// unreadable file yields an empty table and a warning, never an error: the
// pipeline degrades to treating every deal as unseen.
func (s *LowStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger(ctx).Warn("could not load historical lows file, starting empty", logx.Error(err))
		}
		s.lows = make(map[string]float64)
		return nil
	}

	lows := make(map[string]float64)
	if err := json.Unmarshal(data, &lows); err != nil {
		logger(ctx).Warn("historical lows file is corrupt, starting empty", logx.Error(err))
		s.lows = make(map[string]float64)
		return nil
	}

	s.lows = lows

	return nil
}

func (s *LowStore) Get(offerID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	low, ok := s.lows[offerID]
	return low, ok
}

func (s *LowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lows)
}

// Record stores a new low and flushes immediately. The in-memory table is
// updated even when the flush fails.
func (s *LowStore) Record(_ context.Context, offerID string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lows[offerID] = price

	if err := s.flushLocked(); err != nil {
		return domain.WrapError(err, errcodes.PersistenceError, "save historical lows")
	}

	return nil
}

func (s *LowStore) flushLocked() error {
	data, err := json.MarshalIndent(s.lows, "", "    ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	return nil
}
