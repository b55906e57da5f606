package execute

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestShellExecutorEcho(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}
	e := &ShellExecutor{}
	out, err := e.Execute(context.Background(), "echo go for goo", "")
	if err != nil {
		t.Fatal(err)
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
	if strings.TrimSpace(out.Stdout) != "go for goo" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
}

func TestShellExecutorNonZeroExitIsNotAnError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}
	e := &ShellExecutor{}
	out, err := e.Execute(context.Background(), "exit 3", "")
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
}

func TestShellExecutorWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}
	dir := t.TempDir()
	e := &ShellExecutor{}
	out, err := e.Execute(context.Background(), "pwd", dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.Stdout) != dir {
		t.Errorf("pwd = %q, want %q", strings.TrimSpace(out.Stdout), dir)
	}
}

func TestShellExecutorSpawnFailure(t *testing.T) {
	e := &ShellExecutor{}
	// A nonexistent working directory makes the process unlaunchable.
	_, err := e.Execute(context.Background(), "echo hi", "/definitely/not/a/dir")
	var spawn *SpawnError
	if !errors.As(err, &spawn) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
}

func TestDryRunExecutor(t *testing.T) {
	d := &DryRunExecutor{}
	out, err := d.Execute(context.Background(), "rm -rf /", "")
	if err != nil {
		t.Fatal(err)
	}
	if out.ExitCode != 0 || out.Stdout != "<dry-run>" {
		t.Errorf("outcome = %+v", out)
	}
	if len(d.Commands) != 1 || d.Commands[0] != "rm -rf /" {
		t.Errorf("Commands = %v", d.Commands)
	}
}

func TestPolicyCheckCommand(t *testing.T) {
	tests := []struct {
		name    string
		policy  *Policy
		command string
		wantErr bool
	}{
		{"nil policy allows", nil, "rm -rf /", false},
		{"empty policy allows", &Policy{}, "echo hi", false},
		{"deny wins", &Policy{Allow: []string{"rm"}, Deny: []string{"rm"}}, "rm file", true},
		{"denied", &Policy{Deny: []string{"curl"}}, "curl http://x", true},
		{"allowlisted", &Policy{Allow: []string{"echo"}}, "echo hi", false},
		{"not allowlisted", &Policy{Allow: []string{"echo"}}, "ls -la", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.CheckCommand(tt.command)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckCommand(%q) error = %v, wantErr %v", tt.command, err, tt.wantErr)
			}
		})
	}
}

func TestRedaction(t *testing.T) {
	rules, err := CompileRedactions(&Policy{Redact: []RedactionRule{
		{Pattern: `token=[A-Za-z0-9]+`, Replace: "token=***"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	got := Redact("calling with token=abc123 done", rules)
	if got != "calling with token=*** done" {
		t.Errorf("Redact = %q", got)
	}
}

func TestCompileRedactionsRejectsBadPattern(t *testing.T) {
	_, err := CompileRedactions(&Policy{Redact: []RedactionRule{{Pattern: "(", Replace: ""}}})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
