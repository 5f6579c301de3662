package todo

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	domerrors "github.com/amirhosseinghanipour/todorpc/internal/domain/errors"
)

type ListTodosInput struct {
	Owner     domain.OwnerID
	Completed *bool
	Limit     int
	Offset    int
}

type ListTodos struct {
	todos ports.TodoRepository
}

func NewListTodos(todos ports.TodoRepository) *ListTodos {
	return &ListTodos{todos: todos}
}

// Execute returns the owner's todos, newest first.
func (uc *ListTodos) Execute(ctx context.Context, input ListTodosInput) ([]*domain.Todo, error) {
	if input.Owner == "" {
		return nil, domerrors.ErrUnauthorized
	}
	return uc.todos.FindMany(ctx, input.Owner, domain.TodoFilter{Completed: input.Completed}, input.Limit, input.Offset)
}
