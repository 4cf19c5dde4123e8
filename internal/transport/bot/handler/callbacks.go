package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"wootdeals/internal/domain/service/deals"
	"wootdeals/internal/transport/bot/view"
	"wootdeals/pkg/logx"
)

// OnPageCallback serves the pagination buttons. Callback data carries the
// scope and the target page ("page:all:3", "page:cat:Electronics:2",
// "page:search:usb hub:1"); the deal list is rebuilt from the current cache,
// so a button on a stale message pages through today's results.
func (h *Handler) OnPageCallback(ctx *th.Context, query telego.CallbackQuery) error {
	scope, arg, page, err := parsePageData(query.Data)
	if err != nil {
		logger(ctx).Warn("bad pagination callback", "data", query.Data, logx.Error(err))
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
	}

	list, err := h.refresher.Deals(ctx, false)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText("❌ Deals are unavailable right now").WithShowAlert())
		return err
	}

	var title string

	switch scope {
	case "cat":
		list = deals.ByFeed(list, arg)
		title = fmt.Sprintf(view.CategoryTitle, arg)
	case "search":
		list = deals.Search(list, arg)
		title = fmt.Sprintf(view.SearchTitle, arg)
	default:
		title = view.AllDealsTitle
	}

	pager := view.NewPager(list, title).SetPage(page)

	if err := h.editPage(ctx, query, pager, scope, arg); err != nil {
		// Telegram rejects edits that change nothing. Not an error worth
		// surfacing to the user.
		logger(ctx).Warn("failed to edit pagination message", logx.Error(err))
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
}

func (h *Handler) OnNoopCallback(ctx *th.Context, query telego.CallbackQuery) error {
	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
}

func (h *Handler) editPage(
	ctx *th.Context,
	query telego.CallbackQuery,
	pager *view.Pager,
	scope, arg string,
) error {
	_, err := ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        pager.Render(),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: paginationKeyboard(scope, arg, pager.CurrentPage(), pager.TotalPages()),
	})

	return err //nolint:wrapcheck
}

func parsePageData(data string) (scope, arg string, page int, err error) {
	rest, found := strings.CutPrefix(data, "page:")
	if !found {
		return "", "", 0, fmt.Errorf("missing page prefix: %q", data)
	}

	parts := strings.Split(rest, ":")
	if len(parts) < 2 {
		return "", "", 0, fmt.Errorf("malformed page data: %q", data)
	}

	page, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", "", 0, fmt.Errorf("bad page number in %q: %w", data, err)
	}

	scope = parts[0]
	// Search terms may themselves contain colons.
	arg = strings.Join(parts[1:len(parts)-1], ":")

	return scope, arg, page, nil
}
