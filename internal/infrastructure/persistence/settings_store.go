package persistence

import (
	"context"
	"fmt"
	"os"
	"sync"

	"wootdeals/internal/domain"
	"wootdeals/pkg/errcodes"
	"wootdeals/pkg/logx"
)

// Settings is the bot's operator-writable configuration.
type Settings struct {
	AlertsChatID int64 `json:"alerts_chat_id,omitempty"`
}

// SettingsStore persists Settings as a flat JSON file, read on demand so an
// operator edit between announcements is picked up without a restart.
type SettingsStore struct {
	path string
	mu   sync.Mutex
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

func (s *SettingsStore) Load(ctx context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

func (s *SettingsStore) loadLocked(ctx context.Context) Settings {
	var settings Settings

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger(ctx).Warn("could not load settings file", logx.Error(err))
		}
		return settings
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		logger(ctx).Warn("settings file is corrupt", logx.Error(err))
		return Settings{}
	}

	return settings
}

func (s *SettingsStore) SetAlertsChatID(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.loadLocked(ctx)
	settings.AlertsChatID = chatID

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return domain.WrapError(fmt.Errorf("json.MarshalIndent: %w", err), errcodes.PersistenceError, "save settings")
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return domain.WrapError(fmt.Errorf("os.WriteFile: %w", err), errcodes.PersistenceError, "save settings")
	}

	return nil
}
