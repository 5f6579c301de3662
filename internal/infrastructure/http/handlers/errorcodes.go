package handlers

// Error codes returned in JSON { "error": "...", "code": "..." } by plain HTTP routes.
// RPC procedures use the same vocabulary inside the JSON-RPC error data.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_SUPPORTED"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternal         = "INTERNAL_SERVER_ERROR"
)
