package ports

import (
	"context"
	"time"
)

// TodoEvent is the payload delivered to webhook endpoints.
type TodoEvent struct {
	Event      string    `json:"event"`
	TodoID     string    `json:"todo_id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text,omitempty"`
	Completed  bool      `json:"completed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WebhookEmitter sends todo events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event TodoEvent) error
}
