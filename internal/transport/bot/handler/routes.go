package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"wootdeals/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	bh.HandleMessage(h.OnDeals, th.CommandEqual("deals"))
	bh.HandleMessage(h.OnCategory, th.CommandEqual("category"))
	bh.HandleMessage(h.OnSearch, th.CommandEqual("search"))
	bh.HandleMessage(h.OnHelp, th.CommandEqual("help"))
	bh.HandleMessage(h.OnHelp, th.CommandEqual("start"))

	adminGroup := bh.Group(th.Or(
		th.CommandEqual("refresh"),
		th.CommandEqual("setalerts"),
	))
	adminGroup.Use(middleware.AdminOnly(adminID))
	adminGroup.HandleMessage(h.OnRefresh, th.CommandEqual("refresh"))
	adminGroup.HandleMessage(h.OnSetAlerts, th.CommandEqual("setalerts"))

	bh.HandleCallbackQuery(h.OnPageCallback, th.CallbackDataPrefix("page:"))
	bh.HandleCallbackQuery(h.OnNoopCallback, th.CallbackDataEqual("noop"))
}
