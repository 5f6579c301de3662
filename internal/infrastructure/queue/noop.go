package queue

import (
	"context"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/amirhosseinghanipour/todorpc/internal/domain"
)

// NoopEnqueuer is used when REDIS_URL is not set.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueTodoEvent(ctx context.Context, event string, t *domain.Todo) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
