package interact

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// StdinAsker prompts on plain stdin/stdout. It is the fallback when the
// terminal can't host the TUI (piped input, dumb terminals, --plain).
type StdinAsker struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewStdinAsker creates an asker reading from r and writing prompts to w.
func NewStdinAsker(r io.Reader, w io.Writer) *StdinAsker {
	return &StdinAsker{reader: bufio.NewReader(r), out: w}
}

// NewTerminalAsker creates an asker on os.Stdin/os.Stdout.
func NewTerminalAsker() *StdinAsker {
	return NewStdinAsker(os.Stdin, os.Stdout)
}

// Ask presents the spec's prompt and reads one answer.
func (a *StdinAsker) Ask(ctx context.Context, spec Spec) (*Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrAborted
	}

	switch spec.Kind {
	case KindConfirm:
		return a.askConfirm(spec)
	case KindSelect:
		return a.askSelect(spec)
	case KindInput, KindEditor:
		return a.askInput(spec)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrUnavailable, spec.Kind)
	}
}

func (a *StdinAsker) askConfirm(spec Spec) (*Answer, error) {
	fmt.Fprintf(a.out, "%s (y/n): ", spec.Prompt)
	line, err := a.readLine()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", "true":
		return &Answer{Kind: spec.Kind, Text: "true"}, nil
	default:
		return &Answer{Kind: spec.Kind, Declined: true}, nil
	}
}

func (a *StdinAsker) askInput(spec Spec) (*Answer, error) {
	if spec.Default != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", spec.Prompt, spec.Default)
	} else {
		fmt.Fprintf(a.out, "%s: ", spec.Prompt)
	}
	line, err := a.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		line = spec.Default
	}
	return &Answer{Kind: spec.Kind, Text: line}, nil
}

func (a *StdinAsker) askSelect(spec Spec) (*Answer, error) {
	fmt.Fprintf(a.out, "%s\n", spec.Prompt)
	for i, opt := range spec.Options {
		marker := " "
		if opt == spec.Default {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s %d. %s\n", marker, i+1, opt)
	}
	for {
		fmt.Fprint(a.out, "  choose (number or value): ")
		line, err := a.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" && spec.Default != "" {
			return &Answer{Kind: spec.Kind, Text: spec.Default}, nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(spec.Options) {
			return &Answer{Kind: spec.Kind, Text: spec.Options[n-1]}, nil
		}
		if spec.OptionAllowed(line) {
			return &Answer{Kind: spec.Kind, Text: line}, nil
		}
		fmt.Fprintf(a.out, "  %q is not one of the options\n", line)
	}
}

// readLine reads one trimmed line. EOF means the user closed the input
// stream, which counts as an abort.
func (a *StdinAsker) readLine() (string, error) {
	line, err := a.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", ErrAborted
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return strings.TrimSpace(line), nil
}
