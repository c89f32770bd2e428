package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/messaging"
)

func TestQueue(t *testing.T) {
	queue := NewQueue[proc.Lifecycle](DefaultConfig())
	ctx := context.Background()
	payload := proc.Lifecycle{Type: proc.EventFork, PID: 2, ParentPID: 1, Quota: 3}

	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, message.Nack(nil))
}

func TestQueue_TryPublish(t *testing.T) {
	queue := NewQueue[proc.Lifecycle](Config{QueueBuffer: 2})
	for i := 0; i < 2; i++ {
		require.NoError(t, queue.TryPublish(&proc.Lifecycle{PID: i}))
	}
	err := queue.TryPublish(&proc.Lifecycle{PID: 3})
	assert.True(t, errors.Is(err, messaging.ErrQueueFull))
	assert.EqualValues(t, 1, queue.Dropped())
	assert.Equal(t, 2, queue.Size())
}

func TestQueue_Retries(t *testing.T) {
	testCases := []struct {
		description string
		maxRetries  int
		deadLetter  bool
		expectDLQ   int
	}{
		{description: "no retries, dead letter", maxRetries: 0, deadLetter: true, expectDLQ: 1},
		{description: "one retry, dead letter", maxRetries: 1, deadLetter: true, expectDLQ: 1},
		{description: "one retry, dropped", maxRetries: 1, deadLetter: false, expectDLQ: 0},
	}
	for _, tc := range testCases {
		queue := NewQueue[proc.Lifecycle](Config{MaxRetries: tc.maxRetries, RetryDelay: time.Millisecond, DeadLetter: tc.deadLetter})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		require.NoError(t, queue.Publish(ctx, &proc.Lifecycle{PID: 1}), tc.description)
		for attempt := 0; attempt <= tc.maxRetries; attempt++ {
			message, err := queue.Consume(ctx)
			require.NoError(t, err, tc.description)
			assert.Equal(t, 1, message.T().PID, tc.description)
			require.NoError(t, message.Nack(errors.New("boom")), tc.description)
		}
		cancel()
		assert.Equal(t, tc.expectDLQ, queue.DLQSize(), tc.description)
		assert.Equal(t, 0, queue.Size(), tc.description)
	}
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := NewQueue[proc.Lifecycle](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, queue.Publish(ctx, &proc.Lifecycle{}), context.Canceled)
}
