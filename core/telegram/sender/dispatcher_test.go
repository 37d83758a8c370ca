package sender

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2})

	var (
		wg    sync.WaitGroup
		count atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
			defer wg.Done()
			count.Add(1)
			return nil
		}))
	}
	wg.Wait()
	d.Close()

	assert.Equal(t, int32(10), count.Load())
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})

	var calls atomic.Int32
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}
	require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
		if calls.Add(1) < 3 {
			return dial
		}
		return nil
	}))
	d.Close()

	assert.Equal(t, int32(3), calls.Load())
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherDoesNotRetryPermanentErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})

	var calls atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", func() error {
		calls.Add(1)
		return errors.New("telegram: bad request: chat not found (400)")
	}))
	d.Close()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), d.ErrorCount())
}

func TestDispatcherQueueFullAndClosed(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, d.Enqueue(context.Background(), "block", func() error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, d.Enqueue(context.Background(), "queued", func() error { return nil }))
	assert.ErrorIs(t, d.Enqueue(context.Background(), "overflow", func() error { return nil }), ErrQueueFull)

	close(release)
	d.Close()
	d.Close()
	assert.ErrorIs(t, d.Enqueue(context.Background(), "late", func() error { return nil }), ErrQueueClosed)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "timeout", classify(context.DeadlineExceeded))
	assert.Equal(t, "network", classify(&net.OpError{Op: "dial", Err: errors.New("x")}))
	assert.Equal(t, "http_4xx", classify(&tele.Error{Code: 403, Description: "Forbidden"}))
	assert.Equal(t, "http_5xx", classify(&tele.Error{Code: 502, Description: "Bad Gateway"}))
	assert.Equal(t, "unknown", classify(errors.New("x")))
}
