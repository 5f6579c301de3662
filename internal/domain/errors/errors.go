package errors

import "errors"

// Sentinel errors for the RPC layer to map to typed errors.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrTodoNotFound = errors.New("todo not found")
)
