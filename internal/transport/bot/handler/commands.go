package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"wootdeals/internal/domain"
	"wootdeals/internal/domain/entity"
	"wootdeals/internal/domain/service/deals"
	"wootdeals/internal/transport/bot/view"
	"wootdeals/pkg/errcodes"
	"wootdeals/pkg/logx"
)

func (h *Handler) OnDeals(ctx *th.Context, msg telego.Message) error {
	list, err := h.refresher.Deals(ctx, false)
	if err != nil {
		return h.sendRefreshError(ctx, msg.Chat.ID, err)
	}

	return h.sendPage(ctx, msg.Chat.ID, list, view.AllDealsTitle, "all", "")
}

func (h *Handler) OnCategory(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.sendHTML(ctx, msg.Chat.ID, view.CategoryMissingArgument)
	}

	feedName, ok := h.matchFeed(strings.Join(parts[1:], " "))
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID,
			fmt.Sprintf(view.CategoryUnknownFeed, strings.Join(parts[1:], " "), strings.Join(h.feeds, ", ")))
	}

	list, err := h.refresher.Deals(ctx, false)
	if err != nil {
		return h.sendRefreshError(ctx, msg.Chat.ID, err)
	}

	return h.sendPage(ctx, msg.Chat.ID,
		deals.ByFeed(list, feedName),
		fmt.Sprintf(view.CategoryTitle, feedName),
		"cat", feedName)
}

func (h *Handler) OnSearch(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.sendHTML(ctx, msg.Chat.ID, view.SearchMissingArgument)
	}

	term := strings.Join(parts[1:], " ")

	list, err := h.refresher.Deals(ctx, false)
	if err != nil {
		return h.sendRefreshError(ctx, msg.Chat.ID, err)
	}

	matches := deals.Search(list, term)
	if len(matches) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.SearchNoMatches, term))
	}

	return h.sendPage(ctx, msg.Chat.ID, matches,
		fmt.Sprintf(view.SearchTitle, term), "search", term)
}

func (h *Handler) OnRefresh(ctx *th.Context, msg telego.Message) error {
	if err := h.send(ctx, msg.Chat.ID, view.RefreshStarted); err != nil {
		return err
	}

	list, err := h.refresher.Deals(ctx, true)
	if err != nil {
		return h.sendRefreshError(ctx, msg.Chat.ID, err)
	}

	return h.sendPage(ctx, msg.Chat.ID, list, view.RefreshedTitle, "all", "")
}

func (h *Handler) OnSetAlerts(ctx *th.Context, msg telego.Message) error {
	if err := h.settings.SetAlertsChatID(ctx, msg.Chat.ID); err != nil {
		logger(ctx).Error("failed to save alerts chat", logx.Error(err))
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf(view.SetAlertsFailed, err))
	}

	return h.send(ctx, msg.Chat.ID, view.SetAlertsSuccess)
}

func (h *Handler) OnHelp(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.HelpMessage)
}

// matchFeed resolves a user-typed feed name against the configured list
// case-insensitively, returning the canonical spelling.
func (h *Handler) matchFeed(input string) (string, bool) {
	for _, feed := range h.feeds {
		if strings.EqualFold(feed, input) {
			return feed, true
		}
	}

	return "", false
}

func (h *Handler) sendPage(
	ctx *th.Context,
	chatID int64,
	list []entity.Deal,
	title, scope, arg string,
) error {
	pager := view.NewPager(list, title)

	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        pager.Render(),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: paginationKeyboard(scope, arg, pager.CurrentPage(), pager.TotalPages()),
	})

	return err //nolint:wrapcheck
}

func (h *Handler) sendRefreshError(ctx *th.Context, chatID int64, err error) error {
	if code, ok := domain.GetCode(err); ok && code == errcodes.MissingAPIKey {
		return h.send(ctx, chatID, view.MissingAPIKeyMessage)
	}

	logger(ctx).Error("deal lookup failed", logx.Error(err))

	return h.send(ctx, chatID, fmt.Sprintf(view.RefreshFailed, err))
}

func paginationKeyboard(scope, arg string, page, totalPages int) *telego.InlineKeyboardMarkup {
	if totalPages <= 1 {
		return nil
	}

	target := scope
	if arg != "" {
		target = scope + ":" + arg
	}

	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("page:%s:%d", target, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("page:%s:%d", target, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err //nolint:wrapcheck
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})

	return err //nolint:wrapcheck
}
