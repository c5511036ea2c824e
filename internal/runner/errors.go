package runner

import "fmt"

// Stage names the part of the flow an error came from.
type Stage string

const (
	StagePrimary  Stage = "primary"
	StageFallback Stage = "fallback"
)

// StageError is returned by a recognition attempt. The orchestrator
// inspects it to decide whether to move on to the next tier.
type StageError struct {
	Stage Stage
	Op    string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Op, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, op string, err error) *StageError {
	return &StageError{Stage: stage, Op: op, Err: err}
}
