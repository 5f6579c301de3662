package todo

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	domerrors "github.com/amirhosseinghanipour/todorpc/internal/domain/errors"
)

type CreateTodoInput struct {
	Owner domain.OwnerID
	Text  string
}

type CreateTodo struct {
	todos  ports.TodoRepository
	events ports.TaskEnqueuer
}

func NewCreateTodo(todos ports.TodoRepository, events ports.TaskEnqueuer) *CreateTodo {
	return &CreateTodo{todos: todos, events: events}
}

func (uc *CreateTodo) Execute(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	if input.Owner == "" {
		return nil, domerrors.ErrUnauthorized
	}
	t, err := uc.todos.Insert(ctx, input.Owner, input.Text)
	if err != nil {
		return nil, err
	}
	notify(ctx, uc.events, ports.EventTodoCreated, t)
	return t, nil
}

// notify enqueues a change event. Enqueue failures never fail the mutation; enqueuers log them.
func notify(ctx context.Context, events ports.TaskEnqueuer, event string, t *domain.Todo) {
	if events == nil {
		return
	}
	_ = events.EnqueueTodoEvent(ctx, event, t)
}
