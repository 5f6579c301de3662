package todo

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	domerrors "github.com/amirhosseinghanipour/todorpc/internal/domain/errors"
)

type UpdateTodoInput struct {
	Owner domain.OwnerID
	ID    domain.TodoID
	Patch domain.TodoPatch
}

type UpdateTodo struct {
	todos  ports.TodoRepository
	events ports.TaskEnqueuer
}

func NewUpdateTodo(todos ports.TodoRepository, events ports.TaskEnqueuer) *UpdateTodo {
	return &UpdateTodo{todos: todos, events: events}
}

// Execute applies the patch to an owned todo. An empty patch returns the todo unchanged
// without a write.
func (uc *UpdateTodo) Execute(ctx context.Context, input UpdateTodoInput) (*domain.Todo, error) {
	existing, err := findOwned(ctx, uc.todos, input.Owner, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Patch.IsEmpty() {
		return existing, nil
	}
	t, err := uc.todos.UpdatePartial(ctx, input.ID, input.Patch)
	if err != nil {
		return nil, err
	}
	if t == nil {
		// Deleted between the ownership check and the write.
		return nil, domerrors.ErrTodoNotFound
	}
	notify(ctx, uc.events, ports.EventTodoUpdated, t)
	return t, nil
}
