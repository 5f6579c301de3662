package todo

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
)

type DeleteTodoInput struct {
	Owner domain.OwnerID
	ID    domain.TodoID
}

type DeleteTodo struct {
	todos  ports.TodoRepository
	events ports.TaskEnqueuer
}

func NewDeleteTodo(todos ports.TodoRepository, events ports.TaskEnqueuer) *DeleteTodo {
	return &DeleteTodo{todos: todos, events: events}
}

func (uc *DeleteTodo) Execute(ctx context.Context, input DeleteTodoInput) error {
	existing, err := findOwned(ctx, uc.todos, input.Owner, input.ID)
	if err != nil {
		return err
	}
	if err := uc.todos.Remove(ctx, input.ID); err != nil {
		return err
	}
	notify(ctx, uc.events, ports.EventTodoDeleted, existing)
	return nil
}
