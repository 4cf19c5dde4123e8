package view

const NoDealsMessage = "😔 No exceptional deals found that meet the strict rules at this time."

const HelpMessage = `🤖 <b>Woot Deals Bot</b>

/deals - Show all qualifying deals
/category <code>&lt;feed&gt;</code> - Deals from one feed (e.g. /category Electronics)
/search <code>&lt;term&gt;</code> - Deals whose title contains the term
/help - This message

Admin only:
/refresh - Force a refresh cycle right now
/setalerts - Announce scheduled finds in this chat`

const (
	AllDealsTitle  = "Woot Deals"
	CategoryTitle  = "%s Deals"
	SearchTitle    = "Deals matching '%s'"
	RefreshedTitle = "Woot Deals (Refreshed)"
)

const (
	CategoryMissingArgument = "❌ Usage: /category <code>&lt;feed&gt;</code>\nExample: /category Electronics"
	CategoryUnknownFeed     = "❌ Unknown feed '%s'. Configured feeds: %s"
	SearchMissingArgument   = "❌ Usage: /search <code>&lt;term&gt;</code>\nExample: /search headphones"
	SearchNoMatches         = "🔍 No deals matching '%s' found that meet the strict criteria."

	RefreshStarted = "🔄 Refreshing all feeds, this takes a minute..."
	RefreshFailed  = "❌ Refresh failed: %s"

	SetAlertsSuccess = "✅ Scheduled deal announcements will be posted to this chat."
	SetAlertsFailed  = "❌ Could not save the alerts chat: %s"

	MissingAPIKeyMessage = "⚠️ The feed API key is not configured. Set WOOT_API_KEY and restart."
)
