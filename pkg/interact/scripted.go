package interact

import (
	"context"
	"fmt"
)

// ScriptedAsker replays a queue of pre-recorded answers. Used by replay
// runs, the MCP server, and tests. Answers are consumed in order; running
// out of answers counts as an abort.
type ScriptedAsker struct {
	answers []string
	next    int
}

// NewScriptedAsker creates an asker that will answer prompts, in order,
// from the given list. For confirm prompts "y", "yes" and "true" confirm,
// anything else declines.
func NewScriptedAsker(answers ...string) *ScriptedAsker {
	return &ScriptedAsker{answers: answers}
}

// Remaining returns how many scripted answers are left unconsumed.
func (a *ScriptedAsker) Remaining() int {
	return len(a.answers) - a.next
}

// Ask pops the next scripted answer and shapes it for the spec's kind.
func (a *ScriptedAsker) Ask(ctx context.Context, spec Spec) (*Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrAborted
	}
	if a.next >= len(a.answers) {
		return nil, fmt.Errorf("%w: scripted answers exhausted at prompt %q", ErrAborted, spec.Prompt)
	}
	raw := a.answers[a.next]
	a.next++

	switch spec.Kind {
	case KindConfirm:
		switch raw {
		case "y", "yes", "true":
			return &Answer{Kind: spec.Kind, Text: "true"}, nil
		default:
			return &Answer{Kind: spec.Kind, Declined: true}, nil
		}
	case KindSelect:
		if raw == "" && spec.Default != "" {
			raw = spec.Default
		}
		if !spec.OptionAllowed(raw) {
			return nil, fmt.Errorf("scripted answer %q is not an option for prompt %q", raw, spec.Prompt)
		}
		return &Answer{Kind: spec.Kind, Text: raw}, nil
	default:
		if raw == "" {
			raw = spec.Default
		}
		return &Answer{Kind: spec.Kind, Text: raw}, nil
	}
}

// DryRunAsker answers every prompt with its default (confirms confirm,
// selects pick the default or first option) without touching the terminal.
type DryRunAsker struct{}

// Ask returns a placeholder answer derived from the spec.
func (DryRunAsker) Ask(ctx context.Context, spec Spec) (*Answer, error) {
	switch spec.Kind {
	case KindConfirm:
		return &Answer{Kind: spec.Kind, Text: "true"}, nil
	case KindSelect:
		choice := spec.Default
		if choice == "" {
			if len(spec.Options) == 0 {
				return nil, fmt.Errorf("select prompt %q has no options", spec.Prompt)
			}
			choice = spec.Options[0]
		}
		return &Answer{Kind: spec.Kind, Text: choice}, nil
	default:
		if spec.Default != "" {
			return &Answer{Kind: spec.Kind, Text: spec.Default}, nil
		}
		return &Answer{Kind: spec.Kind, Text: fmt.Sprintf("<dry-run: %s>", spec.Out)}, nil
	}
}
