package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/actkit/actkit/pkg/runner"
	"github.com/actkit/actkit/pkg/schema"
)

const timeUnit = time.Millisecond

// Reporter prints one styled line per action as it starts and settles.
// Plug its Observe method into Runner.Observer. Plain mode drops the
// styling for logs and non-TTY output.
type Reporter struct {
	Out   io.Writer
	Plain bool
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, plain bool) *Reporter {
	return &Reporter{Out: out, Plain: plain}
}

// Observe implements runner.Observer. It never halts the run.
func (r *Reporter) Observe(hook runner.Hook, action *schema.Action, outcome *runner.ActionOutcome) runner.Signal {
	switch hook {
	case runner.Before:
		if outcome != nil && outcome.Status == runner.StatusSkipped {
			// The After hook prints the skip line.
			return runner.Continue
		}
		r.printStart(action)
	case runner.After:
		if outcome != nil {
			r.printOutcome(outcome)
		}
	}
	return runner.Continue
}

func (r *Reporter) printStart(action *schema.Action) {
	if r.Plain {
		fmt.Fprintf(r.Out, "--- %s\n", action.Name)
		return
	}
	line := actionRunning.Render(GlyphRunning+" "+action.Name)
	if action.Run != "" {
		line += "  " + commandStyle.Render(action.Run)
	}
	fmt.Fprintln(r.Out, line)
}

func (r *Reporter) printOutcome(o *runner.ActionOutcome) {
	glyph, style := GlyphDone, actionDone
	switch o.Status {
	case runner.StatusFailed:
		glyph, style = GlyphFailed, actionFailed
	case runner.StatusSkipped:
		glyph, style = GlyphSkipped, actionSkipped
	case runner.StatusDeclined:
		glyph, style = GlyphDeclined, actionSkipped
	case runner.StatusAborted:
		glyph, style = GlyphAborted, actionFailed
	}

	detail := string(o.Status)
	if o.Run != nil {
		detail = fmt.Sprintf("%s (exit %d, %s)", o.Status, o.Run.ExitCode, o.EndedAt.Sub(o.StartedAt).Round(timeUnit))
	}
	if o.Err != "" {
		detail += ": " + o.Err
	}

	if r.Plain {
		fmt.Fprintf(r.Out, "%s %s: %s\n", glyph, o.Name, detail)
		return
	}
	fmt.Fprintln(r.Out, style.Render(fmt.Sprintf("%s %s", glyph, o.Name))+"  "+keyDescStyle.Render(detail))
}

// Summary prints the run's closing line: final status plus a tally of
// action outcomes.
func (r *Reporter) Summary(result *runner.RunResult) {
	counts := map[runner.Status]int{}
	for _, o := range result.Outcomes {
		counts[o.Status]++
	}
	line := fmt.Sprintf("%s — %d done, %d failed, %d skipped, %d declined",
		result.Status,
		counts[runner.StatusDone],
		counts[runner.StatusFailed],
		counts[runner.StatusSkipped],
		counts[runner.StatusDeclined],
	)
	if r.Plain {
		fmt.Fprintln(r.Out, line)
		return
	}
	fmt.Fprintln(r.Out, summaryStyle.Render(line))
}
