package debugger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/actkit/actkit/pkg/runner"
)

// handleNext executes the next action and advances.
func (d *Debugger) handleNext(ctx context.Context) error {
	if d.stopped {
		fmt.Fprintf(d.output, "Run was declined; remaining actions will not execute.\n")
		return nil
	}
	if d.index >= len(d.plan.Actions) {
		fmt.Fprintf(d.output, "All actions completed.\n")
		return nil
	}

	action := d.plan.Actions[d.index]
	fmt.Fprintf(d.output, "Executing action %d: %s\n", d.index+1, action.Name)

	result, err := d.engine.Run(ctx, d.plan.Actions[d.index:d.index+1], d.vars)
	d.history = append(d.history, result.Outcomes...)
	d.vars = result.Vars
	if err != nil {
		return err
	}
	d.index++
	if result.Status == runner.RunDeclined {
		d.stopped = true
		fmt.Fprintf(d.output, "  ○ %s declined — run stops here\n", action.Name)
		return nil
	}

	last := result.Outcomes[len(result.Outcomes)-1]
	switch last.Status {
	case runner.StatusFailed:
		fmt.Fprintf(d.output, "  ✗ %s failed: %s\n", action.Name, last.Err)
	case runner.StatusSkipped:
		fmt.Fprintf(d.output, "  ⏭ %s skipped (guard)\n", action.Name)
	default:
		fmt.Fprintf(d.output, "  ✓ %s %s\n", action.Name, last.Status)
	}
	return nil
}

// handleContinue executes all remaining actions, stopping on failure.
func (d *Debugger) handleContinue(ctx context.Context) error {
	for !d.stopped && d.index < len(d.plan.Actions) {
		if err := d.handleNext(ctx); err != nil {
			return err
		}
		if len(d.history) > 0 && d.history[len(d.history)-1].Status == runner.StatusFailed {
			fmt.Fprintf(d.output, "Halted on failure.\n")
			return nil
		}
	}
	if !d.stopped {
		fmt.Fprintf(d.output, "All actions completed.\n")
	}
	return nil
}

// handleSkip advances past the current action without executing it.
func (d *Debugger) handleSkip() {
	if d.index >= len(d.plan.Actions) {
		fmt.Fprintf(d.output, "All actions completed.\n")
		return
	}
	name := d.plan.Actions[d.index].Name
	d.index++
	fmt.Fprintf(d.output, "  ⏭ %s skipped by debugger\n", name)
}

// handlePrint displays the variable bag.
func (d *Debugger) handlePrint(parts []string) {
	if len(parts) < 2 || parts[1] != "vars" {
		fmt.Fprintf(d.output, "Usage: print vars\n")
		return
	}
	if len(d.vars) == 0 {
		fmt.Fprintf(d.output, "No variables defined.\n")
		return
	}
	for k, v := range d.vars {
		display := v
		if len(display) > 200 {
			display = display[:200] + "..."
		}
		fmt.Fprintf(d.output, "  %s = %q\n", k, display)
	}
}

// handleVars sets a variable: vars set <name> <value>.
func (d *Debugger) handleVars(parts []string) {
	if len(parts) < 4 || parts[1] != "set" {
		fmt.Fprintf(d.output, "Usage: vars set <name> <value>\n")
		return
	}
	name := parts[2]
	value := strings.Join(parts[3:], " ")
	if d.vars == nil {
		d.vars = make(map[string]string)
	}
	d.vars[name] = value
	fmt.Fprintf(d.output, "  %s = %q\n", name, value)
}

// handleHistory shows settled action outcomes.
func (d *Debugger) handleHistory() {
	if len(d.history) == 0 {
		fmt.Fprintf(d.output, "No actions executed yet.\n")
		return
	}
	for i, o := range d.history {
		status := "✓"
		if o.Status == runner.StatusFailed || o.Status == runner.StatusAborted {
			status = "✗"
		}
		fmt.Fprintf(d.output, "  %s [%d] %s — %s\n", status, i, o.Name, o.Status)
		if o.Err != "" {
			fmt.Fprintf(d.output, "       error: %s\n", o.Err)
		}
	}
}

// handleDump outputs the full session state as JSON.
func (d *Debugger) handleDump() {
	state := struct {
		Plan    string                 `json:"plan"`
		Index   int                    `json:"index"`
		Stopped bool                   `json:"stopped"`
		Vars    map[string]string      `json:"vars"`
		History []runner.ActionOutcome `json:"history"`
	}{d.plan.Name, d.index, d.stopped, d.vars, d.history}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		fmt.Fprintf(d.output, "  Error marshaling state: %v\n", err)
		return
	}
	fmt.Fprintln(d.output, string(data))
}

// handleHelp displays available commands.
func (d *Debugger) handleHelp() {
	fmt.Fprintln(d.output, "Available commands:")
	fmt.Fprintln(d.output, "  next (n)       Execute the next action")
	fmt.Fprintln(d.output, "  continue (c)   Execute all remaining actions")
	fmt.Fprintln(d.output, "  skip (s)       Advance past the current action without running it")
	fmt.Fprintln(d.output, "  print vars     Show the current variable bag")
	fmt.Fprintln(d.output, "  vars set       Set a variable: vars set <name> <value>")
	fmt.Fprintln(d.output, "  history        Show executed action outcomes")
	fmt.Fprintln(d.output, "  dump           Output full session state as JSON")
	fmt.Fprintln(d.output, "  help (?)       Show this help")
	fmt.Fprintln(d.output, "  quit (q)       Exit debugger")
}
