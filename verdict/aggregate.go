package verdict

import "time"

// Summary is the submission level roll-up of batch results.
type Summary struct {
	// Score is the sum of batch scores, nil when there is nothing to score.
	Score *int `json:"score"`

	// Time is the slowest batch, 0 when unmeasured.
	Time time.Duration `json:"time"`

	// Memory is the largest batch memory in kilobytes, 0 when unmeasured.
	Memory int64 `json:"memory"`
}

// Scored reports whether the summary carries a score.
func (s Summary) Scored() bool {
	return s.Score != nil
}

// Aggregate combines batches into one score, duration and memory figure.
// Score is summed while time and memory take the worst batch, since all
// batches run under the same limits.
func Aggregate(batches []BatchResult) Summary {
	if len(batches) == 0 {
		return Summary{}
	}
	var s Summary
	score := 0
	for _, b := range batches {
		score += b.Score
		if b.Time > s.Time {
			s.Time = b.Time
		}
		if b.Memory > s.Memory {
			s.Memory = b.Memory
		}
	}
	s.Score = &score
	return s
}

// AggregateResult aggregates a whole job result. Single-run results carry
// their own time and memory and have no score.
func AggregateResult(r *JobResult) Summary {
	if r == nil || r.Error || r.Compilation != CompSuccess {
		return Summary{}
	}
	if r.Result != nil {
		return Summary{Time: r.Time, Memory: r.Memory}
	}
	return Aggregate(r.Batches)
}
