package constants

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUserRole is the session and gin context key holding the authenticated user's role.
	ContextKeyUserRole = "user_role"
	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"
	// ContextKeyTicket is the gin context key holding the ticket loaded from the route.
	ContextKeyTicket = "ticket"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "helpdesk_session"

	// HeaderRequestID carries the request ID in and out of the API.
	HeaderRequestID = "X-Request-Id"

	// NotificationChannelPrefix is the redis channel prefix for published notifications.
	NotificationChannelPrefix = "helpdesk:notifications:"

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// AvgResponseTimeUnavailable is reported when no ticket has received a response yet.
	AvgResponseTimeUnavailable = "N/A"

	// UncategorizedLabel groups tickets without a resolvable category in stats.
	UncategorizedLabel = "Uncategorized"
)
