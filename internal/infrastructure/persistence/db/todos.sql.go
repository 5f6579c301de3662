package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const todoColumns = `id, text, completed, user_id, created_at, updated_at`

const listTodosByUser = `SELECT ` + todoColumns + ` FROM todos
WHERE user_id = $1 AND ($2::boolean IS NULL OR completed = $2)
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4`

type ListTodosByUserParams struct {
	UserID    string
	Completed pgtype.Bool
	Limit     int64
	Offset    int64
}

func (q *Queries) ListTodosByUser(ctx context.Context, arg ListTodosByUserParams) ([]Todo, error) {
	rows, err := q.db.Query(ctx, listTodosByUser, arg.UserID, arg.Completed, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Todo{}
	for rows.Next() {
		var i Todo
		if err := rows.Scan(&i.ID, &i.Text, &i.Completed, &i.UserID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTodoForUser = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

type GetTodoForUserParams struct {
	ID     uuid.UUID
	UserID string
}

func (q *Queries) GetTodoForUser(ctx context.Context, arg GetTodoForUserParams) (Todo, error) {
	row := q.db.QueryRow(ctx, getTodoForUser, arg.ID, arg.UserID)
	var i Todo
	err := row.Scan(&i.ID, &i.Text, &i.Completed, &i.UserID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createTodo = `INSERT INTO todos (id, text, completed, user_id, created_at, updated_at)
VALUES ($1, $2, false, $3, $4, $4)
RETURNING ` + todoColumns

type CreateTodoParams struct {
	ID        uuid.UUID
	Text      string
	UserID    string
	CreatedAt time.Time
}

func (q *Queries) CreateTodo(ctx context.Context, arg CreateTodoParams) (Todo, error) {
	row := q.db.QueryRow(ctx, createTodo, arg.ID, arg.Text, arg.UserID, arg.CreatedAt)
	var i Todo
	err := row.Scan(&i.ID, &i.Text, &i.Completed, &i.UserID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateTodo = `UPDATE todos
SET text = COALESCE($2, text), completed = COALESCE($3, completed), updated_at = GREATEST($4, updated_at + interval '1 microsecond')
WHERE id = $1
RETURNING ` + todoColumns

type UpdateTodoParams struct {
	ID        uuid.UUID
	Text      pgtype.Text
	Completed pgtype.Bool
	UpdatedAt time.Time
}

func (q *Queries) UpdateTodo(ctx context.Context, arg UpdateTodoParams) (Todo, error) {
	row := q.db.QueryRow(ctx, updateTodo, arg.ID, arg.Text, arg.Completed, arg.UpdatedAt)
	var i Todo
	err := row.Scan(&i.ID, &i.Text, &i.Completed, &i.UserID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const deleteTodo = `DELETE FROM todos WHERE id = $1`

func (q *Queries) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteTodo, id)
	return err
}
