package judge

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ModeTask grades a submission against the tests of a task.
	ModeTask = "task"

	// ModeTest runs a custom test with user provided input.
	ModeTest = "test"
)

// Submission is one attempt sent to the judge.
type Submission struct {
	// RequestID identifies the submission on the client side, it lets the
	// backend recognize a resent request.
	RequestID uuid.UUID `json:"RequestID"`

	// Task is the name of the task.
	Task string `json:"Task"`

	// Lang is the declared language of the code.
	Lang string `json:"Lang"`

	// Code is the source code.
	Code string `json:"Code"`

	// Input is the input of a custom test.
	Input string `json:"Input,omitempty"`

	// When is the creation time of the submission.
	When time.Time `json:"When"`
}

// NewSubmission creates a new submission of code for task.
func NewSubmission(task, lang, code string) *Submission {
	return &Submission{
		RequestID: uuid.New(),
		Task:      task,
		Lang:      lang,
		Code:      code,
		When:      time.Now(),
	}
}

// WithInput sets the input of a custom test.
func (s *Submission) WithInput(input string) *Submission {
	s.Input = input
	return s
}
