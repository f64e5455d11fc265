package tasks

import (
	"context"
	"sync"
	"time"

	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
)

// Task is one unit of detached background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue executes fire-and-forget work decoupled from the request/response
// lifecycle. Failures are logged and swallowed; nothing is retried and
// nothing propagates back to a caller.
type Queue struct {
	tasks    chan Task
	wg       sync.WaitGroup
	timeout  time.Duration
	stopOnce sync.Once
}

// NewQueue starts a queue with the given number of worker goroutines and
// per-task timeout.
func NewQueue(workers, buffer int, timeout time.Duration) *Queue {
	if workers <= 0 {
		workers = 2
	}
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	q := &Queue{
		tasks:   make(chan Task, buffer),
		timeout: timeout,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	return q
}

// Submit enqueues a task. When the queue is saturated the task is dropped
// with a warning rather than blocking the request path.
func (q *Queue) Submit(name string, run func(ctx context.Context) error) {
	select {
	case q.tasks <- Task{Name: name, Run: run}:
	default:
		logger.WarnWithContext(context.Background(), "Background task dropped, queue full").
			String("task", name).
			Log()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for task := range q.tasks {
		q.execute(task)
	}
}

func (q *Queue) execute(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	ctx = ctxutil.WithOperation(ctx, "tasks", task.Name)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithContext(ctx, "Background task panicked").
				Any("panic", r).
				Log()
		}
	}()

	start := time.Now()
	if err := task.Run(ctx); err != nil {
		logger.WarnWithContext(ctx, "Background task failed").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return
	}

	logger.DebugWithContext(ctx, "Background task finished").
		Duration(time.Since(start)).
		Log()
}

// Close stops accepting tasks and drains the workers.
func (q *Queue) Close() {
	q.stopOnce.Do(func() {
		close(q.tasks)
	})
	q.wg.Wait()
}
