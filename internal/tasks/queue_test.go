package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueExecutesSubmittedTasks(t *testing.T) {
	q := NewQueue(2, 16, time.Second)

	var ran int64
	for i := 0; i < 5; i++ {
		q.Submit("count", func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}

	q.Close()
	assert.Equal(t, int64(5), atomic.LoadInt64(&ran))
}

func TestQueueSwallowsFailuresAndPanics(t *testing.T) {
	q := NewQueue(1, 16, time.Second)

	var after int64
	q.Submit("fails", func(ctx context.Context) error {
		return errors.New("boom")
	})
	q.Submit("panics", func(ctx context.Context) error {
		panic("boom")
	})
	q.Submit("still runs", func(ctx context.Context) error {
		atomic.AddInt64(&after, 1)
		return nil
	})

	q.Close()
	assert.Equal(t, int64(1), atomic.LoadInt64(&after))
}

func TestQueueCloseIsIdempotent(t *testing.T) {
	q := NewQueue(1, 1, time.Second)
	q.Close()
	assert.NotPanics(t, func() { q.Close() })
}
