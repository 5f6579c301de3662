package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/client"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/auth"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/todorpc/internal/infrastructure/persistence/memory"
	"github.com/amirhosseinghanipour/todorpc/internal/schema"
)

// countingRepo counts every gateway call.
type countingRepo struct {
	ports.TodoRepository
	calls int64
}

func (c *countingRepo) FindMany(ctx context.Context, owner domain.OwnerID, f domain.TodoFilter, limit, offset int) ([]*domain.Todo, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.TodoRepository.FindMany(ctx, owner, f, limit, offset)
}

func (c *countingRepo) FindOne(ctx context.Context, id domain.TodoID, owner domain.OwnerID) (*domain.Todo, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.TodoRepository.FindOne(ctx, id, owner)
}

func (c *countingRepo) Insert(ctx context.Context, owner domain.OwnerID, text string) (*domain.Todo, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.TodoRepository.Insert(ctx, owner, text)
}

func (c *countingRepo) UpdatePartial(ctx context.Context, id domain.TodoID, p domain.TodoPatch) (*domain.Todo, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.TodoRepository.UpdatePartial(ctx, id, p)
}

func (c *countingRepo) Remove(ctx context.Context, id domain.TodoID) error {
	atomic.AddInt64(&c.calls, 1)
	return c.TodoRepository.Remove(ctx, id)
}

// brokenRepo fails every call like an unreachable database.
type brokenRepo struct{ ports.TodoRepository }

var errDBDown = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

func (brokenRepo) Insert(context.Context, domain.OwnerID, string) (*domain.Todo, error) {
	return nil, errDBDown
}

func (brokenRepo) FindMany(context.Context, domain.OwnerID, domain.TodoFilter, int, int) ([]*domain.Todo, error) {
	return nil, errDBDown
}

type harness struct {
	srv   *httptest.Server
	repo  *countingRepo
	alice *client.Client
	bob   *client.Client
	anon  *client.Client
}

func stepClock() func() time.Time {
	var mu sync.Mutex
	cur := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func newHarness(t *testing.T, repo ports.TodoRepository, exposeDetail bool) *harness {
	t.Helper()
	counting := &countingRepo{TodoRepository: repo}
	h, err := NewServer(ServerConfig{
		Todos:             counting,
		Log:               zerolog.Nop(),
		ExposeErrorDetail: exposeDetail,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	resolver := auth.StaticResolver{"Bearer alice": "alice", "Bearer bob": "bob"}
	srv := httptest.NewServer(middleware.NewIdentity(resolver, zerolog.Nop()).Handler(h))
	t.Cleanup(srv.Close)
	mk := func(token string) *client.Client {
		hs := client.StaticHeaders{}
		if token != "" {
			hs["Authorization"] = "Bearer " + token
		}
		return client.New(client.Config{BaseURL: srv.URL, Headers: hs, HTTPClient: srv.Client()})
	}
	return &harness{srv: srv, repo: counting, alice: mk("alice"), bob: mk("bob"), anon: mk("")}
}

func newMemoryHarness(t *testing.T) *harness {
	return newHarness(t, memory.NewTodoRepository(memory.WithClock(stepClock())), false)
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }
func intp(i int) *int       { return &i }

func wantCode(t *testing.T, err error, code string) *client.Error {
	t.Helper()
	e, ok := client.AsError(err)
	if !ok {
		t.Fatalf("err = %v (%T), want %s", err, err, code)
	}
	if e.Code != code {
		t.Fatalf("code = %s, want %s (%v)", e.Code, code, e)
	}
	return e
}

func TestHealthNeedsNoIdentity(t *testing.T) {
	h := newMemoryHarness(t)
	st, err := h.anon.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if st.Status != "ok" {
		t.Errorf("status = %q", st.Status)
	}
	if _, err := time.Parse(time.RFC3339, st.Timestamp); err != nil {
		t.Errorf("timestamp %q: %v", st.Timestamp, err)
	}
}

func TestEveryTodoProcedureRequiresIdentity(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	id := "0b6a8f1e-6d2c-4c39-9f0e-3f2b1c9d7a10"
	calls := map[string]func() error{
		"list":   func() error { _, err := h.anon.Todos.List(ctx, schema.ListInput{}); return err },
		"get":    func() error { _, err := h.anon.Todos.Get(ctx, id); return err },
		"create": func() error { _, err := h.anon.Todos.Create(ctx, schema.CreateInput{Text: "x"}); return err },
		"update": func() error {
			_, err := h.anon.Todos.Update(ctx, schema.UpdateInput{ID: id, Completed: boolp(true)})
			return err
		},
		"delete": func() error { _, err := h.anon.Todos.Delete(ctx, id); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			e := wantCode(t, call(), schema.CodeUnauthorized)
			if e.Status != http.StatusUnauthorized || e.Message != MsgUnauthorized {
				t.Errorf("error = %+v", e)
			}
		})
	}
	if n := atomic.LoadInt64(&h.repo.calls); n != 0 {
		t.Errorf("gateway calls = %d, want 0", n)
	}
}

func TestValidationRunsBeforeIdentityAndGateway(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	long := strings.Repeat("a", schema.MaxTextLength+1)
	cases := map[string]func(c *client.Client) error{
		"empty text": func(c *client.Client) error { _, err := c.Todos.Create(ctx, schema.CreateInput{Text: ""}); return err },
		"text too long": func(c *client.Client) error {
			_, err := c.Todos.Create(ctx, schema.CreateInput{Text: long})
			return err
		},
		"get bad id":    func(c *client.Client) error { _, err := c.Todos.Get(ctx, "123"); return err },
		"delete bad id": func(c *client.Client) error { _, err := c.Todos.Delete(ctx, "not-a-uuid"); return err },
		"update bad id": func(c *client.Client) error { _, err := c.Todos.Update(ctx, schema.UpdateInput{ID: "x"}); return err },
		"update empty": func(c *client.Client) error {
			_, err := c.Todos.Update(ctx, schema.UpdateInput{ID: "0b6a8f1e-6d2c-4c39-9f0e-3f2b1c9d7a10", Text: strp("")})
			return err
		},
		"limit over 100": func(c *client.Client) error {
			_, err := c.Todos.List(ctx, schema.ListInput{Limit: intp(101)})
			return err
		},
		"limit zero": func(c *client.Client) error {
			_, err := c.Todos.List(ctx, schema.ListInput{Limit: intp(0)})
			return err
		},
		"negative offset": func(c *client.Client) error {
			_, err := c.Todos.List(ctx, schema.ListInput{Offset: intp(-1)})
			return err
		},
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			for _, c := range []*client.Client{h.alice, h.anon} {
				e := wantCode(t, call(c), schema.CodeBadRequest)
				if e.Status != http.StatusBadRequest || len(e.Issues) == 0 {
					t.Errorf("error = %+v", e)
				}
			}
		})
	}
	if n := atomic.LoadInt64(&h.repo.calls); n != 0 {
		t.Errorf("gateway calls = %d, want 0", n)
	}
}

func TestValidationMessages(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	_, err := h.alice.Todos.Create(ctx, schema.CreateInput{})
	if e := wantCode(t, err, schema.CodeBadRequest); e.Issues[0].Field != "text" || e.Issues[0].Message != "Todo text cannot be empty" {
		t.Errorf("issues = %+v", e.Issues)
	}
	_, err = h.alice.Todos.Get(ctx, "nope")
	if e := wantCode(t, err, schema.CodeBadRequest); e.Issues[0].Message != "Invalid todo ID" {
		t.Errorf("issues = %+v", e.Issues)
	}
}

func TestWrongParamTypeIsBadRequest(t *testing.T) {
	h := newMemoryHarness(t)
	body := `{"jsonrpc":"2.0","method":"todos.Create","params":{"text":123},"id":1}`
	req, _ := http.NewRequest(http.MethodPost, h.srv.URL+"/rpc", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer alice")
	resp, err := h.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Error *struct {
			Code int              `json:"code"`
			Data schema.ErrorData `json:"data"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error == nil || out.Error.Code != -32602 || out.Error.Data.Code != schema.CodeBadRequest {
		t.Errorf("response = %+v", out.Error)
	}
	if n := atomic.LoadInt64(&h.repo.calls); n != 0 {
		t.Errorf("gateway calls = %d", n)
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	created, err := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "X"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := h.alice.Todos.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "X" || got.Completed || got.UserID != "alice" {
		t.Errorf("got = %+v", got)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestGetAcceptsUppercaseID(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	created, err := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "loud"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := h.alice.Todos.Get(ctx, strings.ToUpper(created.ID))
	if err != nil {
		t.Fatalf("Get uppercase: %v", err)
	}
	if got.ID != created.ID || got.Text != "loud" {
		t.Errorf("got = %+v", got)
	}
}

func TestUpdateCompletedOnly(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	created, _ := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "write tests"})
	updated, err := h.alice.Todos.Update(ctx, schema.UpdateInput{ID: created.ID, Completed: boolp(true)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed || updated.Text != "write tests" || updated.UserID != "alice" {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt did not advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("createdAt changed")
	}
}

func TestEmptyPatchReturnsTodoUnchanged(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	created, _ := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "same"})
	got, err := h.alice.Todos.Update(ctx, schema.UpdateInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.UpdatedAt.Equal(created.UpdatedAt) || got.Text != "same" {
		t.Errorf("got = %+v", got)
	}
}

func TestDeleteThenGetNotFound(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	created, _ := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "gone soon"})
	res, err := h.alice.Todos.Delete(ctx, created.ID)
	if err != nil || !res.Success {
		t.Fatalf("Delete = %+v, %v", res, err)
	}
	_, err = h.alice.Todos.Get(ctx, created.ID)
	e := wantCode(t, err, schema.CodeNotFound)
	if e.Status != http.StatusNotFound || e.Message != MsgNotFound {
		t.Errorf("error = %+v", e)
	}
}

func TestOtherOwnerSeesNotFound(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	mine, _ := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "alice only"})

	_, err := h.bob.Todos.Get(ctx, mine.ID)
	wantCode(t, err, schema.CodeNotFound)
	_, err = h.bob.Todos.Update(ctx, schema.UpdateInput{ID: mine.ID, Text: strp("hijacked")})
	wantCode(t, err, schema.CodeNotFound)
	_, err = h.bob.Todos.Delete(ctx, mine.ID)
	wantCode(t, err, schema.CodeNotFound)

	// missing and foreign ids are indistinguishable
	_, errMissing := h.bob.Todos.Get(ctx, "0b6a8f1e-6d2c-4c39-9f0e-3f2b1c9d7a10")
	em, _ := client.AsError(errMissing)
	ef, _ := client.AsError(err)
	if em.Code != ef.Code || em.Status != ef.Status || em.Message != ef.Message {
		t.Errorf("missing %+v differs from foreign %+v", em, ef)
	}

	still, err := h.alice.Todos.Get(ctx, mine.ID)
	if err != nil || still.Text != "alice only" {
		t.Errorf("alice's todo = %+v, %v", still, err)
	}
	list, _ := h.bob.Todos.List(ctx, schema.ListInput{})
	if len(list) != 0 {
		t.Errorf("bob lists %d todos", len(list))
	}
}

func TestListNewestFirstWithPaging(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	var ids []string
	for _, text := range []string{"first", "second", "third"} {
		td, err := h.alice.Todos.Create(ctx, schema.CreateInput{Text: text})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, td.ID)
	}
	_, _ = h.alice.Todos.Update(ctx, schema.UpdateInput{ID: ids[0], Completed: boolp(true)})

	all, err := h.alice.Todos.List(ctx, schema.ListInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Text != "third" || all[1].Text != "second" || all[2].Text != "first" {
		t.Fatalf("order = %+v", all)
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("not descending at %d", i)
		}
	}

	page, _ := h.alice.Todos.List(ctx, schema.ListInput{Limit: intp(1), Offset: intp(1)})
	if len(page) != 1 || page[0].Text != "second" {
		t.Errorf("page = %+v", page)
	}
	done, _ := h.alice.Todos.List(ctx, schema.ListInput{Completed: boolp(true)})
	if len(done) != 1 || done[0].ID != ids[0] {
		t.Errorf("completed filter = %+v", done)
	}
	open, _ := h.alice.Todos.List(ctx, schema.ListInput{Completed: boolp(false)})
	if len(open) != 2 {
		t.Errorf("open filter = %d", len(open))
	}
}

func TestListOffsetBeyondInt32(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	if _, err := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "only"}); err != nil {
		t.Fatal(err)
	}
	for _, offset := range []int{2147483648, 4294967297} {
		list, err := h.alice.Todos.List(ctx, schema.ListInput{Offset: intp(offset)})
		if err != nil {
			t.Fatalf("List offset %d: %v", offset, err)
		}
		if len(list) != 0 {
			t.Errorf("offset %d returned %d todos", offset, len(list))
		}
	}
}

func TestListDefaultLimit(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()
	for i := 0; i < schema.DefaultListLimit+5; i++ {
		if _, err := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "item"}); err != nil {
			t.Fatal(err)
		}
	}
	all, err := h.alice.Todos.List(ctx, schema.ListInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != schema.DefaultListLimit {
		t.Errorf("len = %d, want %d", len(all), schema.DefaultListLimit)
	}
}

func TestInternalErrorDetail(t *testing.T) {
	ctx := context.Background()
	for _, expose := range []bool{true, false} {
		h := newHarness(t, brokenRepo{}, expose)
		_, err := h.alice.Todos.Create(ctx, schema.CreateInput{Text: "x"})
		e := wantCode(t, err, schema.CodeInternalServer)
		if e.Status != http.StatusInternalServerError || e.Message != MsgInternal {
			t.Errorf("error = %+v", e)
		}
		if expose && !strings.Contains(e.Detail, "connection refused") {
			t.Errorf("detail = %q, want underlying error", e.Detail)
		}
		if !expose && e.Detail != "" {
			t.Errorf("detail leaked: %q", e.Detail)
		}
	}
}
