package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"wootdeals/internal/config"
	"wootdeals/internal/infrastructure/persistence"
	"wootdeals/internal/transport/bot/handler"
	"wootdeals/internal/worker"
	"wootdeals/pkg/contextx"
	"wootdeals/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot serves the command interface over Telegram long polling.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

func New(
	cfg config.Config,
	refresher *worker.Refresher,
	settings *persistence.SettingsStore,
) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	commandHandler := handler.New(refresher, settings, cfg.Woot.Feeds)
	commandHandler.RegisterRoutes(botHandler, cfg.Bot.AdminID)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

// Run blocks until the context is cancelled, then stops update handling.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler stopped", logx.Error(err))
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	return ctx.Err() //nolint:wrapcheck
}
