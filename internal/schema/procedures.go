package schema

// JSON-RPC method names of the RPC surface.
const (
	MethodHealth      = "health.Check"
	MethodTodosList   = "todos.List"
	MethodTodosGet    = "todos.Get"
	MethodTodosCreate = "todos.Create"
	MethodTodosUpdate = "todos.Update"
	MethodTodosDelete = "todos.Delete"
)

// Typed error codes carried in the JSON-RPC error data.
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// JSON-RPC error codes for the typed errors outside the reserved range.
const (
	RPCCodeUnauthorized = -32001
	RPCCodeNotFound     = -32004
)

// ErrorData is the data member of a JSON-RPC error returned by the server.
type ErrorData struct {
	Code   string  `json:"code"`
	Status int     `json:"status"`
	Issues []Issue `json:"issues,omitempty"`
	Detail string  `json:"detail,omitempty"`
}
