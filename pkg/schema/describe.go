package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Describe renders a plan as a markdown walkthrough: what will be asked,
// what will run, and under which conditions — without executing anything.
// The CLI pipes it through a terminal markdown renderer; the MCP server
// returns it verbatim.
func Describe(p *Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}

	if len(p.Vars) > 0 {
		b.WriteString("**Seed variables:**\n\n")
		for _, k := range sortedVarNames(p.Vars) {
			fmt.Fprintf(&b, "- `%s` = `%s`\n", k, p.Vars[k])
		}
		b.WriteString("\n")
	}

	for i, a := range p.Actions {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, a.Name)
		if a.When != "" {
			fmt.Fprintf(&b, "- runs only when `%s`\n", a.When)
		}
		if a.Interaction != nil {
			fmt.Fprintf(&b, "- asks (%s): %s\n", a.Interaction.Kind, a.Interaction.Prompt)
			if len(a.Interaction.Options) > 0 {
				fmt.Fprintf(&b, "  - options: %s\n", strings.Join(a.Interaction.Options, ", "))
			}
			if a.Interaction.Default != "" {
				fmt.Fprintf(&b, "  - default: `%s`\n", a.Interaction.Default)
			}
			if a.Interaction.Out != "" {
				fmt.Fprintf(&b, "  - answer stored as `{%s}`\n", a.Interaction.Out)
			}
		}
		if a.Run != "" {
			fmt.Fprintf(&b, "- runs: `%s`\n", a.Run)
			if a.Dir != "" {
				fmt.Fprintf(&b, "  - in directory `%s`\n", a.Dir)
			}
			if a.Capture {
				fmt.Fprintf(&b, "  - output stored as `{%s}`\n", a.Name)
			}
			if a.IgnoreExit {
				b.WriteString("  - non-zero exit is tolerated\n")
			}
		}
		if a.BreakIfDeclined {
			b.WriteString("- declining stops the plan\n")
		}
		b.WriteString("\n")
	}

	if p.Governance != nil {
		b.WriteString("## Governance\n\n")
		if len(p.Governance.Allow) > 0 {
			fmt.Fprintf(&b, "- allowed commands: %s\n", strings.Join(p.Governance.Allow, ", "))
		}
		if len(p.Governance.Deny) > 0 {
			fmt.Fprintf(&b, "- denied commands: %s\n", strings.Join(p.Governance.Deny, ", "))
		}
		if n := len(p.Governance.Redact); n > 0 {
			fmt.Fprintf(&b, "- %d output redaction rule(s)\n", n)
		}
	}

	return b.String()
}

func sortedVarNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
