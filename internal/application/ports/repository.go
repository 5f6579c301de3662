package ports

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/domain"
)

// TodoRepository defines persistence for todos (owner-scoped).
// Lookups return (nil, nil) when no row matches.
type TodoRepository interface {
	FindMany(ctx context.Context, owner domain.OwnerID, filter domain.TodoFilter, limit, offset int) ([]*domain.Todo, error)
	FindOne(ctx context.Context, id domain.TodoID, owner domain.OwnerID) (*domain.Todo, error)
	Insert(ctx context.Context, owner domain.OwnerID, text string) (*domain.Todo, error)
	// UpdatePartial and Remove are not owner-scoped; callers verify ownership with FindOne first.
	UpdatePartial(ctx context.Context, id domain.TodoID, patch domain.TodoPatch) (*domain.Todo, error)
	Remove(ctx context.Context, id domain.TodoID) error
}
