// Package interact defines the interaction capability interface the host
// implements to ask the user questions, plus stdin, scripted, and dry-run
// implementations.
package interact

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies the question style of an interaction.
type Kind string

const (
	KindInput   Kind = "input"
	KindSelect  Kind = "select"
	KindConfirm Kind = "confirm"
	KindEditor  Kind = "editor"
)

// KnownKind reports whether k is one of the supported interaction kinds.
func KnownKind(k Kind) bool {
	switch k {
	case KindInput, KindSelect, KindConfirm, KindEditor:
		return true
	}
	return false
}

// Spec declares a single interaction: what to ask, how, and where the
// answer goes.
type Spec struct {
	// Kind of prompt to present.
	Kind Kind `yaml:"kind" json:"kind" jsonschema:"required,enum=input,enum=select,enum=confirm,enum=editor"`
	// Prompt text shown to the user. May contain markdown.
	Prompt string `yaml:"prompt" json:"prompt" jsonschema:"required"`
	// Out names the variable the answer is captured into. Empty means the
	// answer is shown but not persisted.
	Out string `yaml:"out,omitempty" json:"out,omitempty"`
	// Options is the candidate list for kind=select.
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	// Default is used when the user submits an empty answer (input/editor)
	// and as the pre-selected candidate (select).
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// Answer is the captured result of one interaction.
type Answer struct {
	Kind Kind `json:"kind"`
	// Text holds the answer: the typed string, the selected option, or
	// "true" for a confirmed confirm.
	Text string `json:"text,omitempty"`
	// Declined is set when a confirm was answered no. Declining is not an
	// error; the runner skips the action's command and carries on.
	Declined bool `json:"declined,omitempty"`
}

// Asker is the interaction capability the host implements. Ask blocks until
// the user answers; it is the run's first suspension point.
//
// Implementations must validate the answer against the spec (a select answer
// must be one of the options) before returning it.
type Asker interface {
	Ask(ctx context.Context, spec Spec) (*Answer, error)
}

// ErrAborted is returned when the user cancels an interaction (ctrl-c, EOF).
// It halts the whole run.
var ErrAborted = errors.New("interaction aborted by user")

// ErrUnavailable is returned when the input channel cannot be used at all.
var ErrUnavailable = errors.New("interaction channel unavailable")

// Validate checks spec-internal consistency. The schema package calls this
// during domain validation; askers may rely on it having passed.
func (s Spec) Validate() error {
	if !KnownKind(s.Kind) {
		return fmt.Errorf("unknown interaction kind %q", s.Kind)
	}
	if s.Prompt == "" {
		return errors.New("interaction prompt must not be empty")
	}
	if s.Kind == KindSelect && len(s.Options) == 0 {
		return errors.New("select interaction needs at least one option")
	}
	if s.Kind != KindSelect && len(s.Options) > 0 {
		return fmt.Errorf("options are only valid for kind=select, not %q", s.Kind)
	}
	return nil
}

// OptionAllowed reports whether answer is one of the spec's select options.
func (s Spec) OptionAllowed(answer string) bool {
	for _, opt := range s.Options {
		if opt == answer {
			return true
		}
	}
	return false
}
