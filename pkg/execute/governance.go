package execute

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy restricts which commands a plan may run and scrubs their output.
// A nil policy is permissive.
type Policy struct {
	// Allow lists permitted command names (the first word of the resolved
	// command line). Empty means everything not denied is allowed.
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty"`
	// Deny lists forbidden command names. Deny wins over Allow.
	Deny []string `yaml:"deny,omitempty" json:"deny,omitempty"`
	// Redact is applied to captured stdout/stderr before it is recorded.
	Redact []RedactionRule `yaml:"redact,omitempty" json:"redact,omitempty"`
}

// RedactionRule is a regex pattern-replacement pair for sanitizing output.
type RedactionRule struct {
	Pattern string `yaml:"pattern" json:"pattern" jsonschema:"required"`
	Replace string `yaml:"replace" json:"replace" jsonschema:"required"`
}

// CheckCommand validates the resolved command line's first word against the
// policy. Deny takes precedence over Allow.
func (p *Policy) CheckCommand(command string) error {
	if p == nil {
		return nil
	}
	name := commandName(command)

	for _, denied := range p.Deny {
		if name == denied {
			return fmt.Errorf("command %q is denied by policy", name)
		}
	}
	if len(p.Allow) > 0 {
		for _, allowed := range p.Allow {
			if name == allowed {
				return nil
			}
		}
		return fmt.Errorf("command %q is not in the policy allowlist", name)
	}
	return nil
}

// commandName extracts the first word of a command line.
func commandName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// CompiledRedaction is a pre-compiled redaction rule.
type CompiledRedaction struct {
	Pattern *regexp.Regexp
	Replace string
}

// CompileRedactions compiles the policy's redaction rules. A nil policy
// yields no rules.
func CompileRedactions(p *Policy) ([]*CompiledRedaction, error) {
	if p == nil {
		return nil, nil
	}
	var compiled []*CompiledRedaction
	for _, r := range p.Redact {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile redaction %q: %w", r.Pattern, err)
		}
		compiled = append(compiled, &CompiledRedaction{Pattern: re, Replace: r.Replace})
	}
	return compiled, nil
}

// Redact applies all compiled rules to output.
func Redact(output string, rules []*CompiledRedaction) string {
	result := output
	for _, r := range rules {
		result = r.Pattern.ReplaceAllString(result, r.Replace)
	}
	return result
}
