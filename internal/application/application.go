package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"wootdeals/internal/config"
	"wootdeals/internal/domain/entity"
	"wootdeals/internal/domain/service/deals"
	"wootdeals/internal/infrastructure/notifier"
	"wootdeals/internal/infrastructure/persistence"
	"wootdeals/internal/infrastructure/wootapi"
	"wootdeals/internal/server"
	"wootdeals/internal/transport/bot"
	"wootdeals/internal/worker"
	"wootdeals/pkg/application/modules"
	"wootdeals/pkg/contextx"
	"wootdeals/pkg/logx"
	"wootdeals/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	lowStore := persistence.NewLowStore(cfg.Storage.LowsFile)
	settings := persistence.NewSettingsStore(cfg.Storage.SettingsFile)

	tracker := deals.NewTracker(lowStore)
	client := wootapi.NewClient(cfg.Woot)

	announceCh := make(chan []entity.Deal, 1)

	refresher := worker.NewRefresher(client, tracker, lowStore, cfg.Woot.Feeds).
		WithAnnouncements(announceCh)

	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, settings)
	if err != nil {
		return fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	commandBot, err := bot.New(cfg, refresher, settings)
	if err != nil {
		return fmt.Errorf("bot.New: %w", err)
	}

	logger(ctx).Info("application configured",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"feeds", len(cfg.Woot.Feeds),
		"redis", cfg.Redis.Enabled(),
	)

	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Servers.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Servers.MetricsListenAddress,
	}.Run(ctx, g)

	modules.HTTPServer{
		ShutdownTimeout: cfg.Servers.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{ //nolint:gosec
		Addr:    cfg.Servers.HTTPListenAddress,
		Handler: newRouter(cfg, refresher),
	})

	if cfg.Redis.Enabled() {
		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
		}.Run(ctx, g,
			modules.AsynqQueues{"default": 1},
			modules.AsynqHandler{
				Pattern: worker.TaskRefreshDeals,
				Handle:  refresher.HandleRefreshTask,
			},
		)

		modules.AsynqScheduler{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
		}.Run(ctx, g, modules.AsynqPeriodicTask{
			Cronspec: fmt.Sprintf("@every %s", cfg.App.RefreshInterval),
			Pattern:  worker.TaskRefreshDeals,
		})
	} else {
		g.Go(func() error {
			err := refresher.RunScheduled(ctx, cfg.App.RefreshInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		if err := alertBot.Run(ctx, announceCh); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("alertBot.Run: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := commandBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("commandBot.Run: %w", err)
		}
		return nil
	})

	return g.Wait() //nolint:wrapcheck
}

func newRouter(cfg config.Config, refresher *worker.Refresher) chi.Router {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()
	r.Use(middlewarex.TraceID)
	r.Use(middlewarex.Logger)
	r.Use(middlewarex.Recovery)
	r.Use(middlewarex.RequestLogging(masker, cfg.Servers.LogFieldMaxLen))
	r.Use(middlewarex.ResponseLogging(masker, cfg.Servers.LogFieldMaxLen))

	server.NewServer(
		server.NewDealServer(refresher),
	).RegisterRoutes(r)

	return r
}
