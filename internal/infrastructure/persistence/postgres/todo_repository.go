package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/persistence/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepository struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	now            func() time.Time
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool, acquireTimeout: AcquireTimeout, now: time.Now}
}

// withQueries runs fn on a pooled connection. Waiting for a free connection is bounded by
// acquireTimeout; the statements themselves run under ctx.
func (r *TodoRepository) withQueries(ctx context.Context, fn func(*db.Queries) error) error {
	actx, cancel := context.WithTimeout(ctx, r.acquireTimeout)
	conn, err := r.pool.Acquire(actx)
	cancel()
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()
	return fn(db.New(conn))
}

func (r *TodoRepository) FindMany(ctx context.Context, owner domain.OwnerID, filter domain.TodoFilter, limit, offset int) ([]*domain.Todo, error) {
	var rows []db.Todo
	err := r.withQueries(ctx, func(q *db.Queries) error {
		var e error
		rows, e = q.ListTodosByUser(ctx, listParams(owner, filter, limit, offset))
		return e
	})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Todo, 0, len(rows))
	for _, t := range rows {
		out = append(out, dbTodoToDomain(t))
	}
	return out, nil
}

// listParams maps paging onto bigint LIMIT/OFFSET arguments.
func listParams(owner domain.OwnerID, filter domain.TodoFilter, limit, offset int) db.ListTodosByUserParams {
	return db.ListTodosByUserParams{
		UserID:    owner.String(),
		Completed: boolParam(filter.Completed),
		Limit:     int64(limit),
		Offset:    int64(offset),
	}
}

func (r *TodoRepository) FindOne(ctx context.Context, id domain.TodoID, owner domain.OwnerID) (*domain.Todo, error) {
	var t db.Todo
	err := r.withQueries(ctx, func(q *db.Queries) error {
		var e error
		t, e = q.GetTodoForUser(ctx, db.GetTodoForUserParams{ID: id.UUID, UserID: owner.String()})
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbTodoToDomain(t), nil
}

func (r *TodoRepository) Insert(ctx context.Context, owner domain.OwnerID, text string) (*domain.Todo, error) {
	var t db.Todo
	err := r.withQueries(ctx, func(q *db.Queries) error {
		var e error
		t, e = q.CreateTodo(ctx, db.CreateTodoParams{
			ID:        uuid.New(),
			Text:      text,
			UserID:    owner.String(),
			CreatedAt: r.timestamp(),
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	return dbTodoToDomain(t), nil
}

func (r *TodoRepository) UpdatePartial(ctx context.Context, id domain.TodoID, patch domain.TodoPatch) (*domain.Todo, error) {
	params := db.UpdateTodoParams{
		ID:        id.UUID,
		Completed: boolParam(patch.Completed),
		UpdatedAt: r.timestamp(),
	}
	if patch.Text != nil {
		params.Text = pgtype.Text{String: *patch.Text, Valid: true}
	}
	var t db.Todo
	err := r.withQueries(ctx, func(q *db.Queries) error {
		var e error
		t, e = q.UpdateTodo(ctx, params)
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbTodoToDomain(t), nil
}

func (r *TodoRepository) Remove(ctx context.Context, id domain.TodoID) error {
	return r.withQueries(ctx, func(q *db.Queries) error {
		return q.DeleteTodo(ctx, id.UUID)
	})
}

// timestamp is truncated to the microsecond precision of timestamptz so values read back
// compare equal to the ones written.
func (r *TodoRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func boolParam(b *bool) pgtype.Bool {
	if b == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *b, Valid: true}
}

func dbTodoToDomain(t db.Todo) *domain.Todo {
	return &domain.Todo{
		ID:        domain.NewTodoID(t.ID),
		Text:      t.Text,
		Completed: t.Completed,
		UserID:    domain.OwnerID(t.UserID),
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

// Ensure TodoRepository implements ports.TodoRepository.
var _ ports.TodoRepository = (*TodoRepository)(nil)
