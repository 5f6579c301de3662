package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const TypeTodoEvent = "todo:event"

// Delivery attempts after the first one; RPC handlers never wait on them.
const (
	MaxDeliveryRetries = 5
	DeliveryTimeout    = 30 * time.Second
)

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
	now    func() time.Time
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log, now: time.Now}, nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

// NewTodoEventTask builds the task enqueued for a todo change.
func NewTodoEventTask(event string, t *domain.Todo, at time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(EventFromTodo(event, t, at))
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTodoEvent, payload, asynq.MaxRetry(MaxDeliveryRetries), asynq.Timeout(DeliveryTimeout)), nil
}

// EventFromTodo snapshots a todo into a webhook payload.
func EventFromTodo(event string, t *domain.Todo, at time.Time) ports.TodoEvent {
	ev := ports.TodoEvent{Event: event, OccurredAt: at.UTC()}
	if t != nil {
		ev.TodoID = t.ID.String()
		ev.UserID = t.UserID.String()
		ev.Text = t.Text
		ev.Completed = t.Completed
	}
	return ev
}

func (q *TaskEnqueuer) EnqueueTodoEvent(ctx context.Context, event string, t *domain.Todo) error {
	task, err := NewTodoEventTask(event, t, q.now())
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("event", event).Msg("enqueue todo event failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
