// Package schema holds the input/output contracts shared by the RPC server and client.
package schema

import "time"

// Limits for todo text and list paging.
const (
	MaxTextLength    = 500
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// CreateInput is the input of todos.create.
type CreateInput struct {
	Text string `json:"text" validate:"min=1,max=500"`
}

// UpdateInput is the input of todos.update. Nil fields are left unchanged.
type UpdateInput struct {
	ID        string  `json:"id" validate:"uuid"`
	Text      *string `json:"text,omitempty" validate:"omitempty,min=1,max=500"`
	Completed *bool   `json:"completed,omitempty"`
}

// GetInput is the input of todos.get.
type GetInput struct {
	ID string `json:"id" validate:"uuid"`
}

// DeleteInput is the input of todos.delete.
type DeleteInput struct {
	ID string `json:"id" validate:"uuid"`
}

// ListInput is the input of todos.list. Limit and Offset default when nil.
type ListInput struct {
	Completed *bool `json:"completed,omitempty"`
	Limit     *int  `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset    *int  `json:"offset,omitempty" validate:"omitempty,min=0"`
}

// ListQuery is a validated ListInput with defaults applied.
type ListQuery struct {
	Completed *bool
	Limit     int
	Offset    int
}

// Todo is the wire shape of a todo.
type Todo struct {
	ID        string    `json:"id" validate:"uuid"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"userId" validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// TodoList is the output of todos.list.
type TodoList []Todo

// DeleteResult is the output of todos.delete.
type DeleteResult struct {
	Success bool `json:"success"`
}

// HealthArgs is the (empty) input of health.
type HealthArgs struct{}

// HealthStatus is the output of health.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
