package judge

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"judgewatch/service/poll"

	log "github.com/sirupsen/logrus"
)

// Judge is a judge backend.
// It submits code and watches jobs until they finish.
type Judge struct {
	*Client

	// poller polls the status endpoint of the backend.
	poller *poll.Poller

	// active is the number of running polls.
	active atomic.Int64
}

// judges is a collection of judges.
var (
	judges           = make(map[string]*Judge)
	judgesMu         sync.RWMutex
	ErrJudgeNotFound = errors.New("judge not found")
	ErrJudgeExists   = errors.New("judge already exists")
)

// newJudge creates a new Judge.
func newJudge(client *Client, poller *poll.Poller) *Judge {
	return &Judge{
		Client: client,
		poller: poller,
	}
}

// Watch polls the job until it finishes. The active count of the judge
// includes the job until the returned task settles.
func (j *Judge) Watch(ctx context.Context, params poll.Params) *poll.Task {
	j.active.Add(1)
	task := j.poller.Start(ctx, j.Client, params)
	go func() {
		<-task.Done()
		j.active.Add(-1)
	}()
	log.WithField("job", params.ID).WithField("poll", task.ID).Debug("Watching job")
	return task
}

// Active returns the number of jobs being watched.
func (j *Judge) Active() int {
	return int(j.active.Load())
}

// GetJudge returns a judge by its id.
// If the judge does not exist, returns an error.
func GetJudge(id string) (*Judge, error) {
	judgesMu.RLock()
	defer judgesMu.RUnlock()
	j, ok := judges[id]
	if !ok {
		return nil, ErrJudgeNotFound
	}
	return j, nil
}

// GetIdleJudge returns a judge that has the least number of watched jobs.
// If there is no judge, returns an error.
func GetIdleJudge() (string, *Judge, error) {
	judgesMu.RLock()
	defer judgesMu.RUnlock()
	var (
		idleJudgeID string
		idleJudge   *Judge = nil
		idleCount   int
	)
	for id, j := range judges {
		if idleJudge == nil || j.Active() < idleCount ||
			(j.Active() == idleCount && id < idleJudgeID) {
			idleJudge = j
			idleJudgeID = id
			idleCount = j.Active()
		}
	}
	if idleJudge == nil {
		return "", nil, ErrJudgeNotFound
	}
	return idleJudgeID, idleJudge, nil
}

// DefaultTimeout bounds every request sent to a backend when no timeout is
// configured.
const DefaultTimeout = 30 * time.Second

// AddAndStart registers the backend at host under id. Requests to the backend
// give up after timeout, zero means DefaultTimeout.
func AddAndStart(id string, host string, token string, timeout time.Duration, poller *poll.Poller) error {
	judgesMu.Lock()
	defer judgesMu.Unlock()
	if _, ok := judges[id]; ok {
		return ErrJudgeExists
	}
	if poller == nil {
		poller = poll.New()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	judges[id] = newJudge(NewClient(host, token, &http.Client{Timeout: timeout}), poller)
	log.WithField("id", id).WithField("host", host).Info("Judge added")
	return nil
}

// Remove unregisters a judge. Running polls are not affected.
func Remove(id string) {
	judgesMu.Lock()
	defer judgesMu.Unlock()
	delete(judges, id)
}
