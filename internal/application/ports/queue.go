package ports

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/domain"
)

// Todo change events.
const (
	EventTodoCreated = "todo.created"
	EventTodoUpdated = "todo.updated"
	EventTodoDeleted = "todo.deleted"
)

// TaskEnqueuer enqueues async tasks (todo change events).
type TaskEnqueuer interface {
	EnqueueTodoEvent(ctx context.Context, event string, todo *domain.Todo) error
}
