// Package schema defines the Go struct types for the action plan YAML
// document and provides strict parsing plus 3-phase validation.
//
// The runner itself never reads files: it consumes an already-materialized
// []Action, so hosts may build plans from any encoding they like. This
// package is the YAML host side of that contract.
package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/actkit/actkit/pkg/execute"
	"github.com/actkit/actkit/pkg/interact"
)

// Plan is the top-level document: an ordered list of actions plus seed
// variables and an optional execution policy.
type Plan struct {
	// Name identifies the plan in output and traces.
	Name string `yaml:"name" json:"name" jsonschema:"required"`
	// Description is free-form documentation, shown by walkthrough.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Vars seed the variable bag before the first action runs.
	Vars map[string]string `yaml:"vars,omitempty" json:"vars,omitempty"`
	// Governance restricts commands and scrubs output.
	Governance *execute.Policy `yaml:"governance,omitempty" json:"governance,omitempty"`
	// Actions run strictly in order.
	Actions []Action `yaml:"actions" json:"actions" jsonschema:"required"`
}

// Action is the declarative unit of work: an optional interaction, an
// optional guarded command, or both (ask, then act on the answer). Actions
// are immutable during a run; the runner only reads them.
type Action struct {
	// Name identifies the action in hooks and outcomes. Required. Should be
	// unique within a plan for meaningful reporting.
	Name string `yaml:"name" json:"name" jsonschema:"required"`
	// Interaction, if present, is played before the command.
	Interaction *interact.Spec `yaml:"interaction,omitempty" json:"interaction,omitempty"`
	// Run is a command template; `{name}` placeholders are resolved against
	// the variable bag at execution time.
	Run string `yaml:"run,omitempty" json:"run,omitempty"`
	// Dir overrides the working directory for this action's command.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
	// When guards the action: an expr expression over the current variable
	// bag. False skips the whole action (interaction included). Empty
	// always runs.
	When string `yaml:"when,omitempty" json:"when,omitempty"`
	// IgnoreExit keeps the run going on a non-zero exit even when the
	// runner is configured to halt on errors.
	IgnoreExit bool `yaml:"ignore_exit,omitempty" json:"ignore_exit,omitempty"`
	// BreakIfDeclined ends the run (gracefully) when this action's confirm
	// is answered no.
	BreakIfDeclined bool `yaml:"break_if_declined,omitempty" json:"break_if_declined,omitempty"`
	// Capture stores the command's trimmed stdout in the variable bag under
	// the action's name, so later templates and guards can use it. Requires
	// a name that is a valid identifier.
	Capture bool `yaml:"capture,omitempty" json:"capture,omitempty"`
}

// LoadFile parses a plan from a YAML file.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a plan from an io.Reader with strict unknown-field rejection.
func Load(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}
