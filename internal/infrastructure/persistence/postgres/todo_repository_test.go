package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/persistence/migrations"
)

// newTestRepo connects to TEST_DATABASE_URL and applies migrations; the test is skipped
// when the variable is unset.
func newTestRepo(t *testing.T) *TodoRepository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := migrations.Up(url, zerolog.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, url, false, zerolog.Nop())
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return NewTodoRepository(pool)
}

func TestTodoRepository_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.OwnerID("pg-" + uuid.NewString())

	created, err := r.Insert(ctx, owner, "from postgres")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.Completed || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("created = %+v", created)
	}
	got, err := r.FindOne(ctx, created.ID, owner)
	if err != nil || got == nil {
		t.Fatalf("FindOne: %v %v", got, err)
	}
	if got.Text != "from postgres" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("got = %+v", got)
	}
	if other, err := r.FindOne(ctx, created.ID, "someone-else"); err != nil || other != nil {
		t.Errorf("FindOne other owner = %v, %v", other, err)
	}

	time.Sleep(2 * time.Millisecond)
	done := true
	updated, err := r.UpdatePartial(ctx, created.ID, domain.TodoPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdatePartial: %v", err)
	}
	if !updated.Completed || updated.Text != "from postgres" || !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated = %+v", updated)
	}

	if err := r.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if gone, err := r.FindOne(ctx, created.ID, owner); err != nil || gone != nil {
		t.Errorf("after Remove = %v, %v", gone, err)
	}
	if missing, err := r.UpdatePartial(ctx, created.ID, domain.TodoPatch{Completed: &done}); err != nil || missing != nil {
		t.Errorf("UpdatePartial after Remove = %v, %v", missing, err)
	}
}

func TestTodoRepository_FindManyOrderAndFilter(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.OwnerID("pg-" + uuid.NewString())
	for _, text := range []string{"first", "second", "third"} {
		if _, err := r.Insert(ctx, owner, text); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	list, err := r.FindMany(ctx, owner, domain.TodoFilter{}, 50, 0)
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if len(list) != 3 || list[0].Text != "third" || list[2].Text != "first" {
		t.Fatalf("order = %+v", list)
	}
	done := false
	open, err := r.FindMany(ctx, owner, domain.TodoFilter{Completed: &done}, 2, 1)
	if err != nil {
		t.Fatalf("FindMany filtered: %v", err)
	}
	if len(open) != 2 || open[0].Text != "second" {
		t.Errorf("filtered page = %+v", open)
	}
	for _, td := range list {
		_ = r.Remove(ctx, td.ID)
	}
}

func TestListParams(t *testing.T) {
	done := true
	tests := []struct {
		name          string
		filter        domain.TodoFilter
		limit, offset int
		wantCompleted bool
	}{
		{"defaults", domain.TodoFilter{}, 50, 0, false},
		{"filtered", domain.TodoFilter{Completed: &done}, 100, 10, true},
		{"offset past int32", domain.TodoFilter{}, 50, 2147483648, false},
		{"offset past uint32", domain.TodoFilter{}, 1, 4294967297, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := listParams("user-1", tt.filter, tt.limit, tt.offset)
			if p.UserID != "user-1" {
				t.Errorf("UserID = %q", p.UserID)
			}
			if p.Limit != int64(tt.limit) || p.Offset != int64(tt.offset) {
				t.Errorf("Limit/Offset = %d/%d, want %d/%d", p.Limit, p.Offset, tt.limit, tt.offset)
			}
			if p.Completed.Valid != tt.wantCompleted {
				t.Errorf("Completed.Valid = %v", p.Completed.Valid)
			}
		})
	}
}

func TestTodoRepository_FindManyLargeOffset(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.OwnerID("pg-" + uuid.NewString())
	td, err := r.Insert(ctx, owner, "only")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	defer r.Remove(ctx, td.ID)
	for _, offset := range []int{2147483648, 4294967297} {
		list, err := r.FindMany(ctx, owner, domain.TodoFilter{}, 50, offset)
		if err != nil {
			t.Fatalf("FindMany offset %d: %v", offset, err)
		}
		if len(list) != 0 {
			t.Errorf("offset %d returned %d todos", offset, len(list))
		}
	}
}

func TestTodoRepository_UpdateAdvancesWithFrozenClock(t *testing.T) {
	r := newTestRepo(t)
	frozen := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return frozen }
	ctx := context.Background()
	owner := domain.OwnerID("pg-" + uuid.NewString())
	created, err := r.Insert(ctx, owner, "frozen")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	defer r.Remove(ctx, created.ID)
	text := "still frozen"
	updated, err := r.UpdatePartial(ctx, created.ID, domain.TodoPatch{Text: &text})
	if err != nil || updated == nil {
		t.Fatalf("UpdatePartial: %v %v", updated, err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt %v did not advance past %v", updated.UpdatedAt, created.UpdatedAt)
	}
}
