// Package runner implements the action execution engine: it walks an
// ordered action list, applies guards, drives interactions, resolves and
// executes command templates, and reports progress through hook callbacks.
//
// The engine holds no state across runs, never logs, and leaves all
// user-visible reporting to the host via the Observer and the returned
// RunResult.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"

	"github.com/actkit/actkit/pkg/execute"
	"github.com/actkit/actkit/pkg/interact"
	"github.com/actkit/actkit/pkg/schema"
	"github.com/actkit/actkit/pkg/vars"
)

// Status classifies a single action's outcome.
type Status string

const (
	StatusDone     Status = "done"
	StatusSkipped  Status = "skipped"
	StatusDeclined Status = "declined"
	StatusFailed   Status = "failed"
	StatusAborted  Status = "aborted"
)

// RunStatus classifies the whole run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed" // every action processed
	RunDeclined  RunStatus = "declined"  // stopped by a break_if_declined confirm
	RunHalted    RunStatus = "halted"    // stopped by the observer
	RunAborted   RunStatus = "aborted"   // user abort or fatal configuration error
)

// ActionOutcome records what happened to one action.
type ActionOutcome struct {
	Name      string           `json:"name"`
	Status    Status           `json:"status"`
	Answer    *interact.Answer `json:"answer,omitempty"`
	Run       *execute.Outcome `json:"run,omitempty"`
	Err       string           `json:"error,omitempty"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at"`
}

// RunResult aggregates a run: the ordered per-action outcomes and the final
// variable bag. It is returned even when the run ends early, so no progress
// information is lost on abort.
type RunResult struct {
	Status   RunStatus         `json:"status"`
	Outcomes []ActionOutcome   `json:"outcomes"`
	Vars     map[string]string `json:"vars"`
}

// Runner executes action lists. Asker and Executor are the two host
// capabilities; both may be left nil when no action in the list needs them.
type Runner struct {
	Asker    interact.Asker
	Executor execute.Executor

	// Hooks selects which observation points fire. HooksNone with a
	// non-nil Observer means the observer is never called.
	Hooks    HookMask
	Observer Observer

	// HaltOnError makes a non-zero command exit fatal, except for actions
	// marked ignore_exit. The default mirrors best-effort shell pipelines:
	// record the exit code and keep going.
	HaltOnError bool

	// Dir is the default working directory for commands; an action's Dir
	// overrides it.
	Dir string

	// Policy, when set, vets every resolved command and redacts captured
	// output. Nil is permissive.
	Policy *execute.Policy

	// Trace, when set, receives every settled action outcome.
	Trace *TraceWriter
}

// Run executes actions strictly in order against a fresh variable bag
// seeded from initial. The partial RunResult accompanies every error.
func (r *Runner) Run(ctx context.Context, actions []schema.Action, initial map[string]string) (*RunResult, error) {
	bag := vars.FromMap(initial)
	result := &RunResult{Status: RunCompleted}

	redactions, err := execute.CompileRedactions(r.Policy)
	if err != nil {
		result.Status = RunAborted
		result.Vars = bag.Map()
		return result, err
	}

	for i := range actions {
		action := &actions[i]
		outcome, err := r.runAction(ctx, action, bag, result, redactions)
		if outcome != nil {
			result.Outcomes = append(result.Outcomes, *outcome)
			if r.Trace != nil {
				if terr := r.Trace.Write(outcome); terr != nil && err == nil {
					err = fmt.Errorf("write trace for action %q: %w", action.Name, terr)
				}
			}
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrHalted):
				result.Status = RunHalted
			default:
				result.Status = RunAborted
			}
			result.Vars = bag.Map()
			return result, err
		}
		if result.Status == RunDeclined {
			break
		}
	}

	result.Vars = bag.Map()
	return result, nil
}

// runAction drives one action through its state machine. A nil error with a
// non-nil outcome advances the run; a non-nil error is fatal.
func (r *Runner) runAction(ctx context.Context, action *schema.Action, bag *vars.Bag, result *RunResult, redactions []*execute.CompiledRedaction) (*ActionOutcome, error) {
	outcome := &ActionOutcome{Name: action.Name, StartedAt: time.Now()}

	// Guard first: a skipped action plays no interaction and runs no
	// command, but observers still see it.
	if action.When != "" {
		pass, err := evalGuard(action.When, bag)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err.Error()
			outcome.EndedAt = time.Now()
			return outcome, &GuardError{Action: action.Name, Expr: action.When, Err: err}
		}
		if !pass {
			outcome.Status = StatusSkipped
			outcome.EndedAt = time.Now()
			if sig := r.fire(Before, action, outcome); sig == Halt {
				return outcome, ErrHalted
			}
			if sig := r.fire(After, action, outcome); sig == Halt {
				return outcome, ErrHalted
			}
			return outcome, nil
		}
	}

	if sig := r.fire(Before, action, nil); sig == Halt {
		outcome.Status = StatusSkipped
		outcome.EndedAt = time.Now()
		return outcome, ErrHalted
	}

	declined := false
	if action.Interaction != nil {
		answer, err := r.ask(ctx, action, bag)
		if err != nil {
			outcome.Status = StatusAborted
			if !errors.Is(err, interact.ErrAborted) && !errors.Is(err, interact.ErrUnavailable) {
				outcome.Status = StatusFailed
			}
			outcome.Err = err.Error()
			outcome.EndedAt = time.Now()
			return outcome, err
		}
		outcome.Answer = answer
		declined = answer.Declined
		if !declined && action.Interaction.Out != "" {
			bag.Set(action.Interaction.Out, answer.Text)
		}
	}

	switch {
	case declined:
		outcome.Status = StatusDeclined
		if action.BreakIfDeclined {
			result.Status = RunDeclined
		}
	case action.Run != "":
		if err := r.execute(ctx, action, bag, outcome, redactions); err != nil {
			outcome.EndedAt = time.Now()
			// Still give the observer its After look at the failure.
			r.fire(After, action, outcome)
			return outcome, err
		}
	default:
		outcome.Status = StatusDone
	}

	outcome.EndedAt = time.Now()
	if sig := r.fire(After, action, outcome); sig == Halt {
		return outcome, ErrHalted
	}
	return outcome, nil
}

// ask plays the action's interaction through the host capability. The
// prompt and default are templates too, so earlier answers and captures can
// appear in later questions.
func (r *Runner) ask(ctx context.Context, action *schema.Action, bag *vars.Bag) (*interact.Answer, error) {
	if r.Asker == nil {
		return nil, fmt.Errorf("action %q: %w: no asker configured", action.Name, interact.ErrUnavailable)
	}
	spec := *action.Interaction
	var err error
	if spec.Prompt, err = bag.Render(spec.Prompt); err != nil {
		return nil, fmt.Errorf("action %q: resolve prompt: %w", action.Name, err)
	}
	if spec.Default, err = bag.Render(spec.Default); err != nil {
		return nil, fmt.Errorf("action %q: resolve default: %w", action.Name, err)
	}
	answer, err := r.Asker.Ask(ctx, spec)
	if err != nil {
		if errors.Is(err, interact.ErrAborted) || errors.Is(err, interact.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("action %q: ask: %w", action.Name, err)
	}
	return answer, nil
}

// execute resolves the action's command template and runs it.
func (r *Runner) execute(ctx context.Context, action *schema.Action, bag *vars.Bag, outcome *ActionOutcome, redactions []*execute.CompiledRedaction) error {
	resolved, err := bag.Render(action.Run)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err.Error()
		return fmt.Errorf("action %q: resolve command: %w", action.Name, err)
	}

	if err := r.Policy.CheckCommand(resolved); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err.Error()
		return &PolicyError{Action: action.Name, Err: err}
	}

	if r.Executor == nil {
		outcome.Status = StatusFailed
		outcome.Err = "no executor configured"
		return fmt.Errorf("action %q: no executor configured", action.Name)
	}

	dir := action.Dir
	if dir == "" {
		dir = r.Dir
	}
	run, err := r.Executor.Execute(ctx, resolved, dir)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err.Error()
		return fmt.Errorf("action %q: %w", action.Name, err)
	}
	// Scrub before anything downstream (capture, trace, observers) can see
	// the raw output.
	if len(redactions) > 0 {
		run.Stdout = execute.Redact(run.Stdout, redactions)
		run.Stderr = execute.Redact(run.Stderr, redactions)
	}
	outcome.Run = run

	if run.ExitCode != 0 {
		outcome.Status = StatusFailed
		outcome.Err = fmt.Sprintf("command exited with code %d", run.ExitCode)
		if r.HaltOnError && !action.IgnoreExit {
			return &NonZeroExitError{Action: action.Name, Code: run.ExitCode}
		}
		return nil
	}

	if action.Capture {
		bag.Set(action.Name, strings.TrimSpace(run.Stdout))
	}

	outcome.Status = StatusDone
	return nil
}

// fire invokes the observer if this hook is selected.
func (r *Runner) fire(hook Hook, action *schema.Action, outcome *ActionOutcome) Signal {
	if r.Observer == nil || !r.Hooks.Has(hook) {
		return Continue
	}
	return r.Observer(hook, action, outcome)
}

// evalGuard evaluates a guard expression against the current bag using
// expr. Undefined variables evaluate to nil, and the result is coerced with
// shell-style truthiness so both `confirm` and `city == "goo"` read
// naturally in plans.
func evalGuard(guard string, bag *vars.Bag) (bool, error) {
	env := bag.Env()
	program, err := expr.Compile(guard, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return false, fmt.Errorf("compile: %w", err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval: %w", err)
	}
	return truthy(output)
}

// truthy coerces a guard result: booleans pass through, strings follow
// shell conventions ("" and "false" are false), nil (an unset variable) is
// false. Anything else is a malformed guard.
func truthy(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return val != "" && val != "false", nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("guard returned %T, want bool or string", v)
	}
}
