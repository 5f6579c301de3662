package client

import (
	"context"
	"fmt"

	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// TodosClient calls the todos.* procedures.
type TodosClient struct {
	c *Client
}

func (t *TodosClient) List(ctx context.Context, in schema.ListInput) ([]schema.Todo, error) {
	var out schema.TodoList
	if err := t.c.call(ctx, schema.MethodTodosList, &in, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := t.c.validate.Todo(out[i]); err != nil {
			return nil, fmt.Errorf("invalid todo in response: %w", err)
		}
	}
	return out, nil
}

func (t *TodosClient) Get(ctx context.Context, id string) (*schema.Todo, error) {
	return t.one(ctx, schema.MethodTodosGet, &schema.GetInput{ID: id})
}

func (t *TodosClient) Create(ctx context.Context, in schema.CreateInput) (*schema.Todo, error) {
	return t.one(ctx, schema.MethodTodosCreate, &in)
}

func (t *TodosClient) Update(ctx context.Context, in schema.UpdateInput) (*schema.Todo, error) {
	return t.one(ctx, schema.MethodTodosUpdate, &in)
}

func (t *TodosClient) Delete(ctx context.Context, id string) (*schema.DeleteResult, error) {
	var out schema.DeleteResult
	if err := t.c.call(ctx, schema.MethodTodosDelete, &schema.DeleteInput{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TodosClient) one(ctx context.Context, method string, args interface{}) (*schema.Todo, error) {
	var out schema.Todo
	if err := t.c.call(ctx, method, args, &out); err != nil {
		return nil, err
	}
	if err := t.c.validate.Todo(out); err != nil {
		return nil, fmt.Errorf("invalid todo in response: %w", err)
	}
	return &out, nil
}
