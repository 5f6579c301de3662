package todo

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	domerrors "github.com/amirhosseinghanipour/todorpc/internal/domain/errors"
)

type GetTodoInput struct {
	Owner domain.OwnerID
	ID    domain.TodoID
}

type GetTodo struct {
	todos ports.TodoRepository
}

func NewGetTodo(todos ports.TodoRepository) *GetTodo {
	return &GetTodo{todos: todos}
}

func (uc *GetTodo) Execute(ctx context.Context, input GetTodoInput) (*domain.Todo, error) {
	return findOwned(ctx, uc.todos, input.Owner, input.ID)
}

// findOwned looks a todo up by (id, owner). A missing row and a row owned by someone
// else both yield ErrTodoNotFound.
func findOwned(ctx context.Context, todos ports.TodoRepository, owner domain.OwnerID, id domain.TodoID) (*domain.Todo, error) {
	if owner == "" {
		return nil, domerrors.ErrUnauthorized
	}
	t, err := todos.FindOne(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domerrors.ErrTodoNotFound
	}
	return t, nil
}
