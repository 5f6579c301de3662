package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTodoPatchApply(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	todo := Todo{
		ID:        NewTodoID(uuid.New()),
		Text:      "buy milk",
		UserID:    "user-1",
		CreatedAt: created,
		UpdatedAt: created,
	}
	done := true
	later := created.Add(time.Minute)
	got := TodoPatch{Completed: &done}.Apply(todo, later)
	if !got.Completed {
		t.Error("Completed should be true")
	}
	if got.Text != "buy milk" || got.UserID != "user-1" || got.ID != todo.ID {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(created) {
		t.Errorf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
	if todo.Completed {
		t.Error("Apply must not mutate its argument")
	}
}

func TestTodoPatchApplyUpdatedAtAdvances(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	todo := Todo{CreatedAt: stamp, UpdatedAt: stamp}
	text := "x"
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"clock moved", stamp.Add(time.Second), stamp.Add(time.Second)},
		{"clock unchanged", stamp, stamp.Add(time.Microsecond)},
		{"clock behind", stamp.Add(-time.Hour), stamp.Add(time.Microsecond)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TodoPatch{Text: &text}.Apply(todo, tt.now)
			if !got.UpdatedAt.Equal(tt.want) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, tt.want)
			}
			if !got.CreatedAt.Equal(stamp) {
				t.Errorf("CreatedAt changed: %v", got.CreatedAt)
			}
		})
	}
}

func TestTodoPatchIsEmpty(t *testing.T) {
	if !(TodoPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	text := "x"
	if (TodoPatch{Text: &text}).IsEmpty() {
		t.Error("patch with text should not be empty")
	}
}

func TestParseTodoID(t *testing.T) {
	id := uuid.New()
	got, err := ParseTodoID(id.String())
	if err != nil {
		t.Fatalf("ParseTodoID: %v", err)
	}
	if got.UUID != id {
		t.Errorf("got %s want %s", got, id)
	}
	if _, err := ParseTodoID("not-a-uuid"); err == nil {
		t.Error("expected error for invalid id")
	}
}
