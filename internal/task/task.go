package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskTypeEventLog appends one domain event to the event log.
const TaskTypeEventLog = "event_log"

// Task is background work run by the worker pool outside any request.
type Task interface {
	ID() uuid.UUID
	Type() string
	// Execute runs with a context bounded by the pool's task timeout.
	Execute(ctx context.Context) error
}

// TaskQueueReader is the consumer side of a queue.
type TaskQueueReader interface {
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producer side of a queue. Enqueue fails instead of
// blocking when the queue is full or closed.
type TaskQueueWriter interface {
	Enqueue(task Task) error
	Close()
}
