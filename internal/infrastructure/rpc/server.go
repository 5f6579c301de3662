// Package rpc serves the todo procedures as JSON-RPC 2.0 over HTTP.
package rpc

import (
	"net/http"
	"time"

	gorillarpc "github.com/gorilla/rpc/v2"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/application/todo"
	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// Service names as they appear before the dot in method names.
const (
	ServiceTodos  = "todos"
	ServiceHealth = "health"
)

type ServerConfig struct {
	Todos  ports.TodoRepository
	Events ports.TaskEnqueuer
	Log    zerolog.Logger
	// ExposeErrorDetail attaches the underlying error text to internal errors.
	// Leave false in production.
	ExposeErrorDetail bool
	// Now is the clock for health timestamps (default time.Now).
	Now func() time.Time
}

// NewServer registers the todos and health services on a JSON-RPC 2.0 server.
// The caller mounts it at /rpc behind the identity middleware.
func NewServer(cfg ServerConfig) (http.Handler, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	errs := errorMapper{log: cfg.Log, exposeDetail: cfg.ExposeErrorDetail}

	s := gorillarpc.NewServer()
	s.RegisterCodec(newCodec(), "application/json")

	todos := &TodosService{
		validate: schema.NewValidator(),
		list:     todo.NewListTodos(cfg.Todos),
		get:      todo.NewGetTodo(cfg.Todos),
		create:   todo.NewCreateTodo(cfg.Todos, cfg.Events),
		update:   todo.NewUpdateTodo(cfg.Todos, cfg.Events),
		delete:   todo.NewDeleteTodo(cfg.Todos, cfg.Events),
		errs:     errs,
	}
	if err := s.RegisterService(todos, ServiceTodos); err != nil {
		return nil, err
	}
	if err := s.RegisterService(&HealthService{now: now, errs: errs}, ServiceHealth); err != nil {
		return nil, err
	}
	return s, nil
}
