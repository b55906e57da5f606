package runner

import (
	"fmt"

	"github.com/actkit/actkit/pkg/schema"
)

// Hook classifies the two observation points around an action's execution.
type Hook int

const (
	// Before fires after the guard passes (or the action is skipped),
	// before the interaction and command run.
	Before Hook = iota
	// After fires once the action's outcome is settled.
	After
)

func (h Hook) String() string {
	switch h {
	case Before:
		return "before"
	case After:
		return "after"
	}
	return "unknown"
}

// HookMask selects which hooks the observer is interested in.
type HookMask uint8

const (
	HooksNone   HookMask = 0
	HooksBefore HookMask = 1 << 0
	HooksAfter  HookMask = 1 << 1
	HooksBoth            = HooksBefore | HooksAfter
)

// Has reports whether the mask includes h.
func (m HookMask) Has(h Hook) bool {
	switch h {
	case Before:
		return m&HooksBefore != 0
	case After:
		return m&HooksAfter != 0
	}
	return false
}

// ParseHookMask converts "before", "after" or "both" to a mask.
func ParseHookMask(s string) (HookMask, error) {
	switch s {
	case "before":
		return HooksBefore, nil
	case "after":
		return HooksAfter, nil
	case "both", "":
		return HooksBoth, nil
	}
	return HooksNone, fmt.Errorf("unknown hooks %q", s)
}

// Signal is the observer's verdict on whether the run should continue.
type Signal int

const (
	Continue Signal = iota
	Halt
)

// Observer is the progress callback fired at each selected hook point.
//
// On Before the outcome is nil unless the action was skipped, in which case
// both hooks see the same skip outcome. On After the outcome is final.
// Returning Halt stops the run with ErrHalted once the current hook
// returns; a nil Observer means no observation.
type Observer func(hook Hook, action *schema.Action, outcome *ActionOutcome) Signal
