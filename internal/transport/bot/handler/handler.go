package handler

import (
	"wootdeals/internal/infrastructure/persistence"
	"wootdeals/internal/worker"
	"wootdeals/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Handler struct {
	refresher *worker.Refresher
	settings  *persistence.SettingsStore
	feeds     []string
}

func New(refresher *worker.Refresher, settings *persistence.SettingsStore, feeds []string) *Handler {
	return &Handler{
		refresher: refresher,
		settings:  settings,
		feeds:     feeds,
	}
}
