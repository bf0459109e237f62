package poll

import (
	"context"
	"errors"
	"time"

	"judgewatch/verdict"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultInterval is the delay between two attempts.
	DefaultInterval = 500 * time.Millisecond

	// DefaultMaxAttempts is the attempt ceiling, about 10 minutes at the default
	// interval.
	DefaultMaxAttempts = 1200
)

var (
	// ErrTimedOut is returned by a task which reached the attempt ceiling
	// without observing a result. It does not mean the job failed.
	ErrTimedOut = errors.New("poll: attempt ceiling reached")

	errNotReady = errors.New("poll: result not ready")
)

// Params identifies the polled job.
type Params struct {
	// ID is the job identifier returned on submission.
	ID string

	// Mode selects the kind of job, "task" for submissions and "test" for
	// custom tests. Empty means "task".
	Mode string
}

// Endpoint is a job status endpoint. It returns no result while the job is
// running and one result once it finished.
type Endpoint interface {
	Status(ctx context.Context, params Params) ([]verdict.JobResult, error)
}

// EndpointFunc adapts a function to an Endpoint.
type EndpointFunc func(ctx context.Context, params Params) ([]verdict.JobResult, error)

// Status calls f(ctx, params).
func (f EndpointFunc) Status(ctx context.Context, params Params) ([]verdict.JobResult, error) {
	return f(ctx, params)
}

// Transient reports whether an endpoint error should be retried like a "not
// ready" answer. Errors implementing Temporary() bool decide for themselves,
// anything else aborts the poll.
func Transient(err error) bool {
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Poller polls job status endpoints at a fixed interval.
// A Poller holds no per-job state and may run any number of polls at once.
type Poller struct {
	// Interval is the delay between two attempts.
	Interval time.Duration

	// MaxAttempts is the attempt ceiling.
	MaxAttempts int

	// RequestTimeout bounds a single attempt, zero means unbounded.
	RequestTimeout time.Duration
}

// New returns a Poller with the default cadence and ceiling.
func New() *Poller {
	return &Poller{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Start begins polling in the background and returns the running task.
// The task ends with the first result, ErrTimedOut, an error that is not
// transient, or the cancellation of ctx.
func (p *Poller) Start(ctx context.Context, endpoint Endpoint, params Params) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ID:     uuid.New(),
		Params: params,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	pollsStarted.Inc()
	pollsActive.Inc()
	go func() {
		defer pollsActive.Dec()
		defer cancel()
		res, err := p.run(ctx, t, endpoint)
		t.finish(res, err)
		pollOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
	}()
	return t
}

// Poll polls the endpoint and calls onResult with the first result.
// When the ceiling is reached, or the poll fails or is cancelled, onResult is
// never called and nothing is reported to the caller.
func (p *Poller) Poll(
	ctx context.Context, endpoint Endpoint, params Params, onResult func(verdict.JobResult),
) {
	t := p.Start(ctx, endpoint, params)
	go func() {
		<-t.Done()
		res, err := t.Result()
		if err != nil {
			return
		}
		onResult(res)
	}()
}

func (p *Poller) run(ctx context.Context, t *Task, endpoint Endpoint) (verdict.JobResult, error) {
	logger := log.WithField("poll", t.ID).WithField("job", t.Params.ID)
	logger.Debug("Polling started")

	var res verdict.JobResult
	attempt := func() error {
		n := t.attempts.Add(1)
		pollAttempts.Inc()
		results, err := p.fetch(ctx, endpoint, t.Params)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if Transient(err) {
				logger.WithError(err).WithField("attempt", n).Debug("Transient error")
				return err
			}
			return backoff.Permanent(err)
		}
		if len(results) == 0 {
			return errNotReady
		}
		if len(results) > 1 {
			logger.WithField("results", len(results)).Warn("More than one result, using the first")
		}
		res = results[0]
		return nil
	}

	err := backoff.Retry(attempt, p.policy(ctx))
	switch {
	case err == nil:
		logger.WithField("attempts", t.Attempts()).Debug("Result received")
		return res, nil
	case ctx.Err() != nil:
		logger.Info("Polling cancelled")
		return verdict.JobResult{}, ctx.Err()
	case errors.Is(err, errNotReady) || Transient(err):
		// The ceiling was reached while the job was still running.
		logger.WithField("attempts", t.Attempts()).Warn("Polling gave up")
		return verdict.JobResult{}, ErrTimedOut
	default:
		logger.WithError(err).Error("Polling failed")
		return verdict.JobResult{}, err
	}
}

func (p *Poller) fetch(
	ctx context.Context, endpoint Endpoint, params Params,
) ([]verdict.JobResult, error) {
	if p.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.RequestTimeout)
		defer cancel()
	}
	return endpoint.Status(ctx, params)
}

// policy waits Interval between attempts and allows MaxAttempts attempts.
func (p *Poller) policy(ctx context.Context) backoff.BackOff {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(maxAttempts-1))
	return backoff.WithContext(b, ctx)
}
