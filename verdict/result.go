package verdict

import "time"

// CompilationResult is the outcome of compiling a submission.
type CompilationResult int

const (
	// CompNothing means no result has been attributed to the compilation.
	CompNothing CompilationResult = iota

	// CompTimeout means the compilation has timed-out.
	CompTimeout

	// CompSignal means the compiler was killed or signaled.
	CompSignal

	// CompFailed means the compiler returned a non-zero exit code.
	CompFailed

	// CompSuccess means the compilation was successful.
	CompSuccess
)

// ExecutionResult is the outcome of running a program against a test or batch.
type ExecutionResult int

const (
	// ResultNothing means no verdict has been produced yet.
	ResultNothing ExecutionResult = iota

	// ResultTimeout means the program execution has timed-out.
	ResultTimeout

	// ResultSignal means the program has been signaled, usually because it
	// violated the memory limit.
	ResultSignal

	// ResultFailed means the program returned a non-zero exit code.
	ResultFailed

	// ResultCorrect means the program output was correct.
	ResultCorrect

	// ResultWrong means the program output was not correct.
	ResultWrong
)

// BatchResult is the outcome of one test batch.
type BatchResult struct {
	Result ExecutionResult `json:"Result"`
	Score  int             `json:"Score"`
	Time   time.Duration   `json:"Time"`
	Memory int64           `json:"Memory"`
	Extra  string          `json:"Extra"`
}

// JobResult is the raw verdict returned by the backend for a polled job.
//
// Batches distinguishes absent (nil) from empty. Result is nil unless the job
// ran in single-run mode. Time is in nanoseconds and Memory in kilobytes, a
// zero value of either means the figure was not measured.
type JobResult struct {
	Error       bool              `json:"Error"`
	Compilation CompilationResult `json:"Compilation"`
	Batches     []BatchResult     `json:"Batches"`
	Result      *ExecutionResult  `json:"Result,omitempty"`
	Time        time.Duration     `json:"Time"`
	Memory      int64             `json:"Memory"`
	Extra       string            `json:"Extra"`

	// Output is the program output of a custom test.
	Output string `json:"Output,omitempty"`

	// Metadata set by the backend on history listings.
	ID       string    `json:"ID,omitempty"`
	When     time.Time `json:"When,omitempty"`
	TaskName string    `json:"TaskName,omitempty"`
	LangName string    `json:"LangName,omitempty"`
}

// SingleRun reports whether the result carries a single execution outcome
// instead of per-batch outcomes.
func (r *JobResult) SingleRun() bool {
	return r.Result != nil
}
