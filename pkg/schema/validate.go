package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "actions[0].run")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// HasErrors reports whether errs contains any error-severity entries.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == "error" {
			return true
		}
	}
	return false
}

// ValidateFile performs the full 3-phase validation pipeline on a plan file.
// Phase 1: structural (strict YAML decode)
// Phase 2: semantic (JSON Schema validation)
// Phase 3: domain (custom Go rules)
func ValidateFile(path string) (*Plan, []*ValidationError) {
	p, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{
			Phase:    "structural",
			Message:  err.Error(),
			Severity: "error",
		}}
	}
	return p, Validate(p)
}

// Validate runs the semantic and domain phases on an in-memory plan.
func Validate(p *Plan) []*ValidationError {
	var all []*ValidationError
	all = append(all, validateSemantic(p)...)
	all = append(all, validateDomain(p)...)
	return all
}

// validateSemantic checks the plan against the generated JSON Schema.
func validateSemantic(p *Plan) []*ValidationError {
	semErr := func(msg string) []*ValidationError {
		return []*ValidationError{{Phase: "semantic", Message: msg, Severity: "error"}}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return semErr(fmt.Sprintf("marshal for schema validation: %v", err))
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return semErr(fmt.Sprintf("generate schema: %v", err))
	}
	var schemaDoc interface{}
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return semErr(fmt.Sprintf("unmarshal schema: %v", err))
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("plan-v0.json", schemaDoc); err != nil {
		return semErr(fmt.Sprintf("add schema resource: %v", err))
	}
	sch, err := c.Compile("plan-v0.json")
	if err != nil {
		return semErr(fmt.Sprintf("compile schema: %v", err))
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return semErr(fmt.Sprintf("unmarshal document: %v", err))
	}

	if err := sch.Validate(doc); err != nil {
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			var errs []*ValidationError
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, &ValidationError{
					Phase:    "semantic",
					Path:     strings.Join(cause.InstanceLocation, "/"),
					Message:  fmt.Sprintf("%v", cause.ErrorKind),
					Severity: "error",
				})
			}
			return errs
		}
		return semErr(err.Error())
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// validateDomain enforces rules the schema can't express.
func validateDomain(p *Plan) []*ValidationError {
	var errs []*ValidationError
	domainErr := func(path, msg string) {
		errs = append(errs, &ValidationError{Phase: "domain", Path: path, Message: msg, Severity: "error"})
	}
	domainWarn := func(path, msg string) {
		errs = append(errs, &ValidationError{Phase: "domain", Path: path, Message: msg, Severity: "warning"})
	}

	if p.Name == "" {
		domainErr("name", "plan name must not be empty")
	}
	if len(p.Actions) == 0 {
		domainWarn("actions", "plan has no actions")
	}

	seen := make(map[string]int)
	for i, a := range p.Actions {
		path := fmt.Sprintf("actions[%d]", i)

		if a.Name == "" {
			domainErr(path+".name", "action name must not be empty")
		} else if prev, dup := seen[a.Name]; dup {
			domainWarn(path+".name", fmt.Sprintf("action name %q already used by actions[%d]; hook reports will be ambiguous", a.Name, prev))
		} else {
			seen[a.Name] = i
		}

		if a.Interaction != nil {
			if err := a.Interaction.Validate(); err != nil {
				domainErr(path+".interaction", err.Error())
			}
			if a.Interaction.Out != "" && !validIdentifier(a.Interaction.Out) {
				domainErr(path+".interaction.out", fmt.Sprintf("%q is not a valid variable name", a.Interaction.Out))
			}
		}

		if a.When != "" {
			if _, err := expr.Compile(a.When); err != nil {
				domainErr(path+".when", fmt.Sprintf("guard does not compile: %v", err))
			}
		}

		if a.BreakIfDeclined && (a.Interaction == nil || a.Interaction.Kind != "confirm") {
			domainWarn(path+".break_if_declined", "break_if_declined has no effect without a confirm interaction")
		}
		if a.Dir != "" && a.Run == "" {
			domainWarn(path+".dir", "dir has no effect without run")
		}
		if a.Capture {
			if a.Run == "" {
				domainWarn(path+".capture", "capture has no effect without run")
			} else if !validIdentifier(a.Name) {
				domainErr(path+".capture", fmt.Sprintf("capture stores output under the action name, but %q is not a valid variable name", a.Name))
			}
		}
	}

	if p.Governance != nil {
		for i, r := range p.Governance.Redact {
			if r.Pattern == "" {
				domainErr(fmt.Sprintf("governance.redact[%d].pattern", i), "redaction pattern must not be empty")
			}
		}
	}

	return errs
}

// validIdentifier reports whether s is usable as a `{name}` placeholder.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
