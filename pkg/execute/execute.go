// Package execute defines the command execution capability the host
// implements to run resolved command lines, plus the default shell-backed
// and dry-run implementations.
package execute

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"
)

// Outcome holds the result of a single command execution. A non-zero exit
// code is a reported condition, not an error from Execute.
type Outcome struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SpawnError reports a command that could not be launched at all.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Executor is the process execution capability. Execute blocks until the
// command terminates; it is the run's second suspension point. dir is the
// working directory ("" = inherit).
type Executor interface {
	Execute(ctx context.Context, command string, dir string) (*Outcome, error)
}

// ShellExecutor runs command lines through the platform shell: sh -c on
// POSIX, cmd.exe /C on Windows. Output is always captured into the Outcome;
// when Stream is set it is additionally copied to the given writers as the
// process runs.
type ShellExecutor struct {
	Stream bool
	Stdout io.Writer
	Stderr io.Writer
}

// Execute runs command and reports its outcome. A failure to launch the
// shell is a *SpawnError; a non-zero exit is not an error.
func (s *ShellExecutor) Execute(ctx context.Context, command string, dir string) (*Outcome, error) {
	start := time.Now()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd.exe", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if s.Stream && s.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&stdout, s.Stdout)
	}
	if s.Stream && s.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, s.Stderr)
	}

	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, &SpawnError{Command: command, Err: err}
		}
		exitCode = exitErr.ExitCode()
	}

	return &Outcome{
		Command:  command,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}, nil
}

// DryRunExecutor records commands without running them and reports success
// with placeholder output.
type DryRunExecutor struct {
	Commands []string
}

// Execute records the command and returns a zero exit code.
func (d *DryRunExecutor) Execute(ctx context.Context, command string, dir string) (*Outcome, error) {
	d.Commands = append(d.Commands, command)
	return &Outcome{
		Command:  command,
		ExitCode: 0,
		Stdout:   "<dry-run>",
	}, nil
}
