package rpc

import (
	"net/http"

	"github.com/amirhosseinghanipour/todorpc/internal/application/todo"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	domerrors "github.com/amirhosseinghanipour/todorpc/internal/domain/errors"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// TodosService exposes the todo procedures under the "todos" service name.
// Every procedure validates its input, then requires an identified caller, then runs.
type TodosService struct {
	validate *schema.Validator
	list     *todo.ListTodos
	get      *todo.GetTodo
	create   *todo.CreateTodo
	update   *todo.UpdateTodo
	delete   *todo.DeleteTodo
	errs     errorMapper
}

func (s *TodosService) List(r *http.Request, args *schema.ListInput, reply *schema.TodoList) error {
	return s.errs.finish(r, schema.MethodTodosList, s.doList(r, args, reply))
}

func (s *TodosService) doList(r *http.Request, args *schema.ListInput, reply *schema.TodoList) error {
	q, err := s.validate.List(*args)
	if err != nil {
		return err
	}
	owner, err := requireOwner(r)
	if err != nil {
		return err
	}
	todos, err := s.list.Execute(r.Context(), todo.ListTodosInput{
		Owner:     owner,
		Completed: q.Completed,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return err
	}
	out := make(schema.TodoList, 0, len(todos))
	for _, t := range todos {
		out = append(out, toWire(t))
	}
	*reply = out
	return nil
}

func (s *TodosService) Get(r *http.Request, args *schema.GetInput, reply *schema.Todo) error {
	return s.errs.finish(r, schema.MethodTodosGet, s.doGet(r, args, reply))
}

func (s *TodosService) doGet(r *http.Request, args *schema.GetInput, reply *schema.Todo) error {
	in, err := s.validate.Get(*args)
	if err != nil {
		return err
	}
	owner, err := requireOwner(r)
	if err != nil {
		return err
	}
	id, err := domain.ParseTodoID(in.ID)
	if err != nil {
		return err
	}
	t, err := s.get.Execute(r.Context(), todo.GetTodoInput{Owner: owner, ID: id})
	if err != nil {
		return err
	}
	*reply = toWire(t)
	return nil
}

func (s *TodosService) Create(r *http.Request, args *schema.CreateInput, reply *schema.Todo) error {
	return s.errs.finish(r, schema.MethodTodosCreate, s.doCreate(r, args, reply))
}

func (s *TodosService) doCreate(r *http.Request, args *schema.CreateInput, reply *schema.Todo) error {
	in, err := s.validate.Create(*args)
	if err != nil {
		return err
	}
	owner, err := requireOwner(r)
	if err != nil {
		return err
	}
	t, err := s.create.Execute(r.Context(), todo.CreateTodoInput{Owner: owner, Text: in.Text})
	if err != nil {
		return err
	}
	*reply = toWire(t)
	return nil
}

func (s *TodosService) Update(r *http.Request, args *schema.UpdateInput, reply *schema.Todo) error {
	return s.errs.finish(r, schema.MethodTodosUpdate, s.doUpdate(r, args, reply))
}

func (s *TodosService) doUpdate(r *http.Request, args *schema.UpdateInput, reply *schema.Todo) error {
	in, err := s.validate.Update(*args)
	if err != nil {
		return err
	}
	owner, err := requireOwner(r)
	if err != nil {
		return err
	}
	id, err := domain.ParseTodoID(in.ID)
	if err != nil {
		return err
	}
	t, err := s.update.Execute(r.Context(), todo.UpdateTodoInput{
		Owner: owner,
		ID:    id,
		Patch: domain.TodoPatch{Text: in.Text, Completed: in.Completed},
	})
	if err != nil {
		return err
	}
	*reply = toWire(t)
	return nil
}

func (s *TodosService) Delete(r *http.Request, args *schema.DeleteInput, reply *schema.DeleteResult) error {
	return s.errs.finish(r, schema.MethodTodosDelete, s.doDelete(r, args, reply))
}

func (s *TodosService) doDelete(r *http.Request, args *schema.DeleteInput, reply *schema.DeleteResult) error {
	in, err := s.validate.Delete(*args)
	if err != nil {
		return err
	}
	owner, err := requireOwner(r)
	if err != nil {
		return err
	}
	id, err := domain.ParseTodoID(in.ID)
	if err != nil {
		return err
	}
	if err := s.delete.Execute(r.Context(), todo.DeleteTodoInput{Owner: owner, ID: id}); err != nil {
		return err
	}
	*reply = schema.DeleteResult{Success: true}
	return nil
}

func requireOwner(r *http.Request) (domain.OwnerID, error) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		return "", domerrors.ErrUnauthorized
	}
	return domain.OwnerID(uid), nil
}

func toWire(t *domain.Todo) schema.Todo {
	return schema.Todo{
		ID:        t.ID.String(),
		Text:      t.Text,
		Completed: t.Completed,
		UserID:    t.UserID.String(),
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}
