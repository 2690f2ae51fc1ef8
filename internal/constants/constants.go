package constants

const (
	// SessionCookieName is the cookie the session store writes.
	SessionCookieName = "grant_session"

	// ContextKeyUserID is the session and gin-context key for the
	// authenticated user's ID.
	ContextKeyUserID = "user_id"

	// ContextKeySession is the gin-context key for the per-request
	// identity snapshot loaded by middleware.LoadSessionContext.
	ContextKeySession = "session_context"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
