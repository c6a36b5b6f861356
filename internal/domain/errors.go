package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteTagsUnavailable is returned when the remote tag list cannot be
	// fetched and the workflow is configured to abort in that case.
	ErrRemoteTagsUnavailable = errors.New("remote tags unavailable")
	// ErrNoUpstream is returned when the current branch has no upstream to push to.
	ErrNoUpstream = errors.New("current branch has no upstream")
)

// Step names a workflow stage, used in error reporting.
type Step string

const (
	StepCheckStatus    Step = "check status"
	StepStage          Step = "git add"
	StepCommit         Step = "git commit"
	StepDeriveVersion  Step = "derive version"
	StepCreateTag      Step = "create tag"
	StepPushCommit     Step = "push commit"
	StepPushTag        Step = "push tag"
	StepAcquireLock    Step = "acquire lock"
	StepPublishRelease Step = "publish release"
)

// StepError reports which workflow step failed, with an optional hint on
// how to finish the job by hand.
type StepError struct {
	Step Step
	Err  error
	Hint string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError wraps err as a failure of step.
func NewStepError(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

// WithHint sets the remediation hint and returns the error.
func (e *StepError) WithHint(format string, args ...any) *StepError {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}
