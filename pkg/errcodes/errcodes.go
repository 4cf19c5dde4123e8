package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// Deal pipeline.
	MissingAPIKey    failure.ErrorCode = "MissingAPIKey"    // Refresh requested without a feed credential
	FeedUnavailable  failure.ErrorCode = "FeedUnavailable"  // Feed answered with a non-retryable status
	FeedRateLimited  failure.ErrorCode = "FeedRateLimited"  // 429 budget exhausted for one feed
	PersistenceError failure.ErrorCode = "PersistenceError" // Low-price or settings file write failed
	RefreshFailed    failure.ErrorCode = "RefreshFailed"    // Cycle aborted, previous result retained
	InvalidPage      failure.ErrorCode = "InvalidPage"
	InvalidFeedName  failure.ErrorCode = "InvalidFeedName"
	InvalidChatID    failure.ErrorCode = "InvalidChatID"
)
