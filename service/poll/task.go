package poll

import (
	"context"
	"sync"
	"sync/atomic"

	"judgewatch/verdict"

	"github.com/google/uuid"
)

// Task is a running poll. It settles exactly once.
type Task struct {
	// ID is the ID of the poll, used in logs.
	ID uuid.UUID

	// Params identifies the polled job.
	Params Params

	attempts atomic.Int64
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once

	result verdict.JobResult
	err    error
}

func (t *Task) finish(res verdict.JobResult, err error) {
	t.once.Do(func() {
		t.result = res
		t.err = err
		close(t.done)
	})
}

// Done is closed once the task has settled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the settled outcome. Before Done is closed it returns zero
// values.
func (t *Task) Result() (verdict.JobResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	default:
		return verdict.JobResult{}, nil
	}
}

// Wait blocks until the task settles or ctx is done. Giving up on ctx does not
// cancel the task.
func (t *Task) Wait(ctx context.Context) (verdict.JobResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return verdict.JobResult{}, ctx.Err()
	}
}

// Cancel stops the poll. The task settles with context.Canceled unless it
// already settled.
func (t *Task) Cancel() {
	t.cancel()
}

// Attempts returns the number of requests issued so far.
func (t *Task) Attempts() int {
	return int(t.attempts.Load())
}
