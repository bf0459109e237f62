package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"judgewatch/service/poll"
	"judgewatch/verdict"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrorBodyLimit is the number of bytes of an error response kept in ResponseError.
const ErrorBodyLimit = 512

// ResponseError is an explicit error answer of the backend.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("judge: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("judge: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Temporary reports whether the request may succeed when retried.
func (e *ResponseError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// TransportError is a failure to reach the backend at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string   { return "judge: transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error   { return e.Err }
func (e *TransportError) Temporary() bool { return true }

// Client talks to one judge backend over HTTP.
type Client struct {
	// host is the base URL of the backend.
	host string

	// token is sent as a bearer token when not empty.
	token string

	http *http.Client
}

// NewClient creates a client of the backend at host.
func NewClient(host string, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		host:  strings.TrimRight(host, "/"),
		token: token,
		http:  hc,
	}
}

type submitResp struct {
	ID string `json:"ID"`
}

// Submit sends a submission to be graded and returns the job ID.
func (c *Client) Submit(ctx context.Context, s *Submission) (string, error) {
	var resp submitResp
	if err := c.do(ctx, http.MethodPost, "/submit", url.Values{"mode": {ModeTask}}, s, &resp); err != nil {
		return "", errors.Wrap(err, "submit")
	}
	if resp.ID == "" {
		return "", errors.New("submit: backend returned no ID")
	}
	return resp.ID, nil
}

// Test sends a custom test and returns the job ID.
func (c *Client) Test(ctx context.Context, s *Submission) (string, error) {
	var resp submitResp
	if err := c.do(ctx, http.MethodPost, "/submit", url.Values{"mode": {ModeTest}}, s, &resp); err != nil {
		return "", errors.Wrap(err, "test")
	}
	if resp.ID == "" {
		return "", errors.New("test: backend returned no ID")
	}
	return resp.ID, nil
}

// Status returns the result of a job, or nothing while the job is running.
func (c *Client) Status(ctx context.Context, params poll.Params) ([]verdict.JobResult, error) {
	mode := params.Mode
	if mode == "" {
		mode = ModeTask
	}
	var results []verdict.JobResult
	q := url.Values{"id": {params.ID}, "mode": {mode}}
	if err := c.do(ctx, http.MethodGet, "/status", q, nil, &results); err != nil {
		return nil, errors.Wrapf(err, "status of job %s", params.ID)
	}
	return results, nil
}

// History returns the graded submissions of a task, oldest first.
func (c *Client) History(ctx context.Context, task string) ([]verdict.JobResult, error) {
	var results []verdict.JobResult
	if err := c.do(ctx, http.MethodGet, "/history", url.Values{"task": {task}}, nil, &results); err != nil {
		return nil, errors.Wrapf(err, "history of task %s", task)
	}
	return results, nil
}

// Task returns the metadata of a task.
func (c *Client) Task(ctx context.Context, name string) (*TaskInfo, error) {
	var info TaskInfo
	if err := c.do(ctx, http.MethodGet, "/task/"+url.PathEscape(name), nil, nil, &info); err != nil {
		return nil, errors.Wrapf(err, "task %s", name)
	}
	return &info, nil
}

func (c *Client) do(
	ctx context.Context, method, path string, query url.Values, body any, out any,
) error {
	u := c.host + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Debug("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, ErrorBodyLimit))
		return &ResponseError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "malformed response")
	}
	return nil
}
