// Package debugger implements the interactive REPL for stepping through an
// action plan one action at a time.
package debugger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/actkit/actkit/pkg/runner"
	"github.com/actkit/actkit/pkg/schema"
)

// Debugger steps through a plan action by action. Each step executes one
// action with the accumulated variables as seed and folds the resulting
// bag back into the session, so captures and answers flow forward exactly
// as they would in a straight run.
type Debugger struct {
	plan    *schema.Plan
	engine  *runner.Runner
	output  io.Writer
	rl      *readline.Instance
	vars    map[string]string
	index   int
	stopped bool // set after a break_if_declined decline
	history []runner.ActionOutcome
}

// New creates a debugger session for the given plan.
func New(plan *schema.Plan, engine *runner.Runner) *Debugger {
	vars := make(map[string]string, len(plan.Vars))
	for k, v := range plan.Vars {
		vars[k] = v
	}
	if engine.Policy == nil {
		engine.Policy = plan.Governance
	}
	return &Debugger{
		plan:   plan,
		engine: engine,
		output: os.Stdout,
		vars:   vars,
	}
}

// Run starts the interactive REPL loop.
func (d *Debugger) Run(ctx context.Context) error {
	commands := []string{"next", "continue", "skip", "print vars",
		"vars set", "history", "dump", "help", "quit"}

	var completer = readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children,
			readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          d.buildPrompt(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	d.rl = rl
	defer rl.Close()

	fmt.Fprintf(d.output, "actkit debugger — plan %q, %d actions\n", d.plan.Name, len(d.plan.Actions))
	fmt.Fprintf(d.output, "Type 'help' for available commands, 'next' to execute the next action.\n\n")

	for {
		rl.SetPrompt(d.buildPrompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "next", "n":
			if err := d.handleNext(ctx); err != nil {
				fmt.Fprintf(d.output, "Error: %v\n", err)
			}
		case "continue", "c":
			if err := d.handleContinue(ctx); err != nil {
				fmt.Fprintf(d.output, "Error: %v\n", err)
			}
		case "skip", "s":
			d.handleSkip()
		case "print", "p":
			d.handlePrint(parts)
		case "vars":
			d.handleVars(parts)
		case "history", "h":
			d.handleHistory()
		case "dump":
			d.handleDump()
		case "help", "?":
			d.handleHelp()
		case "quit", "q":
			fmt.Fprintf(d.output, "Exiting debugger.\n")
			return nil
		default:
			fmt.Fprintf(d.output, "Unknown command: %q. Type 'help' for available commands.\n", cmd)
		}
	}
}

// buildPrompt creates the prompt string: actkit[N/total | name]>
func (d *Debugger) buildPrompt() string {
	total := len(d.plan.Actions)
	if d.stopped {
		return "actkit[declined]> "
	}
	if d.index >= total {
		return "actkit[done]> "
	}
	name := d.plan.Actions[d.index].Name
	return fmt.Sprintf("actkit[%d/%d | %s]> ", d.index+1, total, name)
}
