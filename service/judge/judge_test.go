package judge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"judgewatch/service/poll"
	"judgewatch/verdict"
)

// fakeBackend serves the judge API. The status of job "1" becomes ready after
// three polls.
func fakeBackend(t *testing.T) (*httptest.Server, *atomic.Int64) {
	var polls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var s Submission
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if s.Task != "sum" {
			http.Error(w, "no such task", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"ID": r.URL.Query().Get("mode") + "-1"})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "1":
			if polls.Add(1) < 3 {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			_, _ = w.Write([]byte(`[{"Error":false,"Compilation":4,"Batches":[
				{"Result":4,"Score":40,"Time":1500000,"Memory":512},
				{"Result":5,"Score":0,"Time":900000,"Memory":2048}]}]`))
		case "broken":
			w.WriteHeader(http.StatusBadGateway)
		case "garbage":
			_, _ = w.Write([]byte(`{not json`))
		default:
			http.Error(w, "unknown job", http.StatusNotFound)
		}
	})
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"ID":"a","Compilation":3,"Extra":"syntax error"},
			{"ID":"b","Compilation":4,"Batches":[]}]`))
	})
	mux.HandleFunc("/task/sum", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Name":"sum","Title":"Sum","TimeLimit":1000,
			"MemoryLimit":262144,"NTests":2,"Batches":[{"Value":40,"Tests":[0]},{"Value":60,"Tests":[1]}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &polls
}

func TestClientSubmit(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := NewClient(srv.URL+"/", "secret", nil)

	id, err := c.Submit(context.Background(), NewSubmission("sum", "cpp", "int main(){}"))
	if err != nil {
		t.Fatal(err)
	}
	if id != "task-1" {
		t.Errorf("id should be task-1, but %v", id)
	}

	id, err = c.Test(context.Background(), NewSubmission("sum", "cpp", "").WithInput("1 2"))
	if err != nil {
		t.Fatal(err)
	}
	if id != "test-1" {
		t.Errorf("id should be test-1, but %v", id)
	}

	_, err = c.Submit(context.Background(), NewSubmission("nope", "cpp", ""))
	var re *ResponseError
	if !errors.As(err, &re) || re.StatusCode != http.StatusNotFound {
		t.Fatalf("error should be a 404 response, but %v", err)
	}
	if re.Body != "no such task" {
		t.Errorf("body should be kept, but %q", re.Body)
	}
}

func TestClientUnauthorized(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := NewClient(srv.URL, "", nil)
	_, err := c.Submit(context.Background(), NewSubmission("sum", "cpp", ""))
	if poll.Transient(err) {
		t.Errorf("401 should not be transient, but %v", err)
	}
}

func TestClientStatusErrors(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := NewClient(srv.URL, "secret", nil)

	_, err := c.Status(context.Background(), poll.Params{ID: "broken"})
	if !poll.Transient(err) {
		t.Errorf("502 should be transient, but %v", err)
	}
	_, err = c.Status(context.Background(), poll.Params{ID: "missing"})
	if err == nil || poll.Transient(err) {
		t.Errorf("404 should be permanent, but %v", err)
	}
	_, err = c.Status(context.Background(), poll.Params{ID: "garbage"})
	if err == nil || poll.Transient(err) {
		t.Errorf("malformed body should be permanent, but %v", err)
	}

	down := NewClient("http://127.0.0.1:1", "", nil)
	_, err = down.Status(context.Background(), poll.Params{ID: "1"})
	var te *TransportError
	if !errors.As(err, &te) || !poll.Transient(err) {
		t.Errorf("unreachable backend should be a transient transport error, but %v", err)
	}
}

func TestClientHistoryAndTask(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := NewClient(srv.URL, "secret", nil)

	history, err := c.History(context.Background(), "sum")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history should have 2 entries, but %d", len(history))
	}
	if history[0].ID != "a" || verdict.Classify(&history[0]) != verdict.KindCompFailed {
		t.Errorf("first entry should be a failed compilation, but %+v", history[0])
	}
	if history[1].Batches == nil {
		t.Errorf("empty batches should decode as present")
	}

	task, err := c.Task(context.Background(), "sum")
	if err != nil {
		t.Fatal(err)
	}
	if task.Title != "Sum" || task.MaxScore() != 100 {
		t.Errorf("task should be Sum worth 100, but %+v", task)
	}
	if (&TaskInfo{}).MaxScore() != 100 {
		t.Errorf("task without batches should be worth 100")
	}
}

func TestWatch(t *testing.T) {
	srv, polls := fakeBackend(t)
	if err := AddAndStart("watch", srv.URL, "secret", 0, &poll.Poller{MaxAttempts: 10}); err != nil {
		t.Fatal(err)
	}
	defer Remove("watch")
	if err := AddAndStart("watch", srv.URL, "", 0, nil); !errors.Is(err, ErrJudgeExists) {
		t.Errorf("error should be ErrJudgeExists, but %v", err)
	}

	j, err := GetJudge("watch")
	if err != nil {
		t.Fatal(err)
	}
	task := j.Watch(context.Background(), poll.Params{ID: "1"})
	res, err := task.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if polls.Load() != 3 {
		t.Errorf("status should be polled 3 times, but %d", polls.Load())
	}
	if kind := verdict.Classify(&res); kind != verdict.KindWrong {
		t.Errorf("kind should be wrong, but %v", kind)
	}
	s := verdict.Aggregate(res.Batches)
	if *s.Score != 40 || s.Time != 1500000 || s.Memory != 2048 {
		t.Errorf("summary should be 40/1.5ms/2048KB, but %+v", s)
	}
}

func TestGetIdleJudge(t *testing.T) {
	if _, err := GetJudge("missing"); !errors.Is(err, ErrJudgeNotFound) {
		t.Errorf("error should be ErrJudgeNotFound, but %v", err)
	}
	if _, _, err := GetIdleJudge(); !errors.Is(err, ErrJudgeNotFound) {
		t.Errorf("error should be ErrJudgeNotFound, but %v", err)
	}

	_ = AddAndStart("a", "http://127.0.0.1:1", "", 0, nil)
	_ = AddAndStart("b", "http://127.0.0.1:1", "", 0, nil)
	defer Remove("a")
	defer Remove("b")

	a, _ := GetJudge("a")
	a.active.Add(2)
	defer a.active.Add(-2)

	id, _, err := GetIdleJudge()
	if err != nil {
		t.Fatal(err)
	}
	if id != "b" {
		t.Errorf("idle judge should be b, but %v", id)
	}
}

func TestRequestTimeout(t *testing.T) {
	hang := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-hang:
		}
	}))
	defer srv.Close()
	defer close(hang)

	if err := AddAndStart("hung", srv.URL, "", 50*time.Millisecond, nil); err != nil {
		t.Fatal(err)
	}
	defer Remove("hung")
	j, _ := GetJudge("hung")

	start := time.Now()
	_, err := j.Submit(context.Background(), NewSubmission("sum", "cpp", ""))
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("error should be a TransportError, but %v", err)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("submit should give up after the timeout, but took %v", d)
	}

	_ = AddAndStart("unbounded", srv.URL, "", 0, nil)
	defer Remove("unbounded")
	u, _ := GetJudge("unbounded")
	if u.http.Timeout != DefaultTimeout {
		t.Errorf("timeout should default to %v, but %v", DefaultTimeout, u.http.Timeout)
	}
}
