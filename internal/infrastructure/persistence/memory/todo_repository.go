package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
)

// TodoRepository is an in-memory TodoRepository suitable for development and tests.
// Data is lost on restart.
type TodoRepository struct {
	mu    sync.RWMutex
	todos map[uuid.UUID]domain.Todo
	now   func() time.Time
}

// Option configures TodoRepository.
type Option func(*TodoRepository)

// WithClock sets the time source (default time.Now).
func WithClock(now func() time.Time) Option {
	return func(r *TodoRepository) {
		r.now = now
	}
}

func NewTodoRepository(opts ...Option) *TodoRepository {
	r := &TodoRepository{
		todos: make(map[uuid.UUID]domain.Todo),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TodoRepository) FindMany(ctx context.Context, owner domain.OwnerID, filter domain.TodoFilter, limit, offset int) ([]*domain.Todo, error) {
	r.mu.RLock()
	matched := make([]domain.Todo, 0)
	for _, t := range r.todos {
		if t.UserID != owner {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		matched = append(matched, t)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	if offset >= len(matched) {
		return []*domain.Todo{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*domain.Todo, 0, len(matched))
	for i := range matched {
		t := matched[i]
		out = append(out, &t)
	}
	return out, nil
}

func (r *TodoRepository) FindOne(ctx context.Context, id domain.TodoID, owner domain.OwnerID) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.todos[id.UUID]
	if !ok || t.UserID != owner {
		return nil, nil
	}
	return &t, nil
}

func (r *TodoRepository) Insert(ctx context.Context, owner domain.OwnerID, text string) (*domain.Todo, error) {
	now := r.now().UTC()
	t := domain.Todo{
		ID:        domain.NewTodoID(uuid.New()),
		Text:      text,
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Lock()
	r.todos[t.ID.UUID] = t
	r.mu.Unlock()
	return &t, nil
}

func (r *TodoRepository) UpdatePartial(ctx context.Context, id domain.TodoID, patch domain.TodoPatch) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id.UUID]
	if !ok {
		return nil, nil
	}
	t = patch.Apply(t, r.now().UTC())
	r.todos[id.UUID] = t
	return &t, nil
}

func (r *TodoRepository) Remove(ctx context.Context, id domain.TodoID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id.UUID)
	return nil
}

// Ping always succeeds; it lets the store back the readiness check.
func (r *TodoRepository) Ping(ctx context.Context) error {
	return nil
}

var _ ports.TodoRepository = (*TodoRepository)(nil)
