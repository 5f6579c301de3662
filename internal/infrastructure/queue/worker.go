package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Worker runs Asynq task handlers and forwards todo events to the webhook emitter.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisConnOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	w := &Worker{srv: srv, mux: asynq.NewServeMux(), emitter: emitter, log: log}
	w.mux.HandleFunc(TypeTodoEvent, w.HandleTodoEvent)
	return w
}

// temporary is implemented by delivery errors that know whether a retry can help.
type temporary interface {
	Temporary() bool
}

// HandleTodoEvent decodes a todo event and delivers it. Undecodable payloads and
// deliveries the subscriber rejected permanently are not retried.
func (w *Worker) HandleTodoEvent(ctx context.Context, t *asynq.Task) error {
	var ev ports.TodoEvent
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		w.log.Error().Err(err).Msg("todo event payload invalid")
		return fmt.Errorf("decode todo event: %v: %w", err, asynq.SkipRetry)
	}
	if err := w.emitter.Emit(ctx, ev); err != nil {
		w.log.Warn().Err(err).Str("event", ev.Event).Str("todo_id", ev.TodoID).Msg("webhook delivery failed")
		var te temporary
		if errors.As(err, &te) && !te.Temporary() {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}
	w.log.Debug().Str("event", ev.Event).Str("todo_id", ev.TodoID).Msg("todo event delivered")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
