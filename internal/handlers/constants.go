package handlers

const (
	SessionCookieName = "session_id"

	MsgNotAuthenticated = "not authenticated"
	MsgInvalidRequest   = "invalid request"
	MsgInternalError    = "internal server error"
	MsgLevelNotFound    = "level not found"
	MsgTooManyRequests  = "too many requests"
	MsgInvalidCSRF      = "invalid csrf token"
)
