package runner

import (
	"errors"
	"fmt"

	"github.com/actkit/actkit/pkg/interact"
)

// Fatal conditions unwind Run immediately; the partial RunResult is always
// returned alongside them. Non-zero command exits are not fatal unless the
// runner is configured with HaltOnError (see Runner).

// ErrHalted is returned when the observer asked for the run to stop.
var ErrHalted = errors.New("run halted by observer")

// Interaction sentinels, re-exported so callers can match fatal run errors
// without importing interact.
var (
	ErrAborted     = interact.ErrAborted
	ErrUnavailable = interact.ErrUnavailable
)

// GuardError reports a guard expression that could not be evaluated.
// A malformed guard is a configuration defect, so it is fatal.
type GuardError struct {
	Action string
	Expr   string
	Err    error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("action %q: guard %q: %v", e.Action, e.Expr, e.Err)
}

func (e *GuardError) Unwrap() error { return e.Err }

// NonZeroExitError reports a command that ran but exited non-zero. It is
// only surfaced as an error when the runner halts on errors; otherwise the
// exit code is recorded in the action outcome and the run continues.
type NonZeroExitError struct {
	Action string
	Code   int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("action %q: command exited with code %d", e.Action, e.Code)
}

// PolicyError reports a resolved command rejected by the governance policy.
type PolicyError struct {
	Action string
	Err    error
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("action %q: %v", e.Action, e.Err)
}

func (e *PolicyError) Unwrap() error { return e.Err }
