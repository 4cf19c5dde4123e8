package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/patrickmn/go-cache"

	"wootdeals/internal/domain/entity"
	"wootdeals/internal/infrastructure/persistence"
	"wootdeals/pkg/contextx"
	"wootdeals/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const announcedTTL = 24 * time.Hour

// TelegramBot announces scheduled refresh results to the configured alerts
// chat. Offers already announced within the TTL are not counted as new, so
// the same cycle result does not spam the chat every 4 minutes.
type TelegramBot struct {
	bot       *telego.Bot
	settings  *persistence.SettingsStore
	announced *cache.Cache
}

func NewTelegramBot(token string, settings *persistence.SettingsStore) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:       bot,
		settings:  settings,
		announced: cache.New(announcedTTL, time.Hour),
	}, nil
}

// Run consumes refresh results until the channel closes or the context is
// cancelled.
func (b *TelegramBot) Run(ctx context.Context, results <-chan []entity.Deal) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		case list, ok := <-results:
			if !ok {
				return nil
			}
			if err := b.announce(ctx, list); err != nil {
				logger(ctx).Error("failed to announce refresh result", logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) announce(ctx context.Context, list []entity.Deal) error {
	chatID := b.settings.Load(ctx).AlertsChatID
	if chatID == 0 {
		// No alerts chat configured yet.
		return nil
	}

	fresh := b.markAnnounced(list)

	var text string

	switch {
	case len(list) == 0:
		text = "✅ Check complete. No exceptional deals found this cycle."
	case fresh == 0:
		// Everything was already announced within the TTL.
		return nil
	default:
		text = fmt.Sprintf(
			"📣 <b>Woot Deal Alert!</b> The scheduled check found <b>%d</b> exceptional deals (%d new).\n"+
				"View them now with the /deals command!",
			len(list), fresh,
		)
	}

	msg := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) markAnnounced(list []entity.Deal) int {
	var fresh int

	for _, deal := range list {
		if _, seen := b.announced.Get(deal.OfferID); seen {
			continue
		}
		b.announced.Set(deal.OfferID, true, cache.DefaultExpiration)
		fresh++
	}

	return fresh
}

// SendText sends a plain message to the alerts chat, if one is configured.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	chatID := b.settings.Load(ctx).AlertsChatID
	if chatID == 0 {
		return nil
	}

	if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
