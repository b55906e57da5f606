package vars

import "fmt"

// UnresolvedVariableError reports a placeholder whose name is not in the bag.
// Missing variables are a configuration defect, so resolution fails instead
// of substituting an empty string.
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unresolved variable %q", e.Name)
}

// MalformedTemplateError reports a brace that does not open a valid
// placeholder and is not escaped.
type MalformedTemplateError struct {
	Template string
	Offset   int
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed template at offset %d: %q", e.Offset, e.Template)
}

// Resolve substitutes `{name}` placeholders in template with values from the
// bag. The scan is single-pass: substituted values are never re-scanned, so a
// value containing braces cannot inject further placeholders. `{{` and `}}`
// escape literal braces. A placeholder name not present in the bag yields
// *UnresolvedVariableError.
func Resolve(template string, bag *Bag) (string, error) {
	var out []byte
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				out = append(out, '{')
				i++
				continue
			}
			name, end := scanName(template, i+1)
			if name == "" || end >= len(template) || template[end] != '}' {
				return "", &MalformedTemplateError{Template: template, Offset: i}
			}
			val, ok := bag.Get(name)
			if !ok {
				return "", &UnresolvedVariableError{Name: name}
			}
			out = append(out, val...)
			i = end
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				out = append(out, '}')
				i++
				continue
			}
			return "", &MalformedTemplateError{Template: template, Offset: i}
		default:
			out = append(out, c)
		}
	}
	return string(out), nil
}

// scanName consumes an identifier ([A-Za-z_][A-Za-z0-9_]*) starting at
// template[start], returning the name and the index past its last byte.
func scanName(template string, start int) (string, int) {
	i := start
	for i < len(template) && isNameByte(template[i], i == start) {
		i++
	}
	return template[start:i], i
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
