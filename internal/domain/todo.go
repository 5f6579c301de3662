package domain

import (
	"time"

	"github.com/google/uuid"
)

// TodoID is a value object for todo identity.
type TodoID struct{ uuid.UUID }

// NewTodoID creates a new TodoID from uuid.
func NewTodoID(id uuid.UUID) TodoID { return TodoID{UUID: id} }

// ParseTodoID parses the canonical string form.
func ParseTodoID(s string) (TodoID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TodoID{}, err
	}
	return TodoID{UUID: id}, nil
}

// String returns the canonical string form.
func (t TodoID) String() string { return t.UUID.String() }

// OwnerID is the opaque identity of the user owning a todo.
type OwnerID string

// String returns the raw identity.
func (o OwnerID) String() string { return string(o) }

// Todo is a single owner-scoped todo item.
type Todo struct {
	ID        TodoID
	Text      string
	Completed bool
	UserID    OwnerID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoFilter narrows a list query. Nil fields do not filter.
type TodoFilter struct {
	Completed *bool
}

// TodoPatch holds the mutable fields of a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Text      *string
	Completed *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// Apply returns a copy of t with the patch applied and UpdatedAt set to now. UpdatedAt
// always moves forward: a clock that has not advanced yields the previous value plus one
// microsecond.
func (p TodoPatch) Apply(t Todo, now time.Time) Todo {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
	return t
}
