package interact

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"input ok", Spec{Kind: KindInput, Prompt: "which city?"}, false},
		{"confirm ok", Spec{Kind: KindConfirm, Prompt: "ready?"}, false},
		{"select ok", Spec{Kind: KindSelect, Prompt: "pick", Options: []string{"a", "b"}}, false},
		{"editor ok", Spec{Kind: KindEditor, Prompt: "describe"}, false},
		{"unknown kind", Spec{Kind: "password", Prompt: "p"}, true},
		{"empty prompt", Spec{Kind: KindInput}, true},
		{"select without options", Spec{Kind: KindSelect, Prompt: "pick"}, true},
		{"options on input", Spec{Kind: KindInput, Prompt: "p", Options: []string{"x"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStdinAskerInput(t *testing.T) {
	var out strings.Builder
	a := NewStdinAsker(strings.NewReader("goo\n"), &out)

	ans, err := a.Ask(context.Background(), Spec{Kind: KindInput, Prompt: "input a city", Out: "city"})
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "goo" {
		t.Errorf("Text = %q, want goo", ans.Text)
	}
	if !strings.Contains(out.String(), "input a city") {
		t.Errorf("prompt not shown: %q", out.String())
	}
}

func TestStdinAskerInputDefault(t *testing.T) {
	var out strings.Builder
	a := NewStdinAsker(strings.NewReader("\n"), &out)

	ans, err := a.Ask(context.Background(), Spec{Kind: KindInput, Prompt: "which city?", Default: "dallas"})
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "dallas" {
		t.Errorf("Text = %q, want default dallas", ans.Text)
	}
}

func TestStdinAskerConfirm(t *testing.T) {
	tests := []struct {
		in           string
		wantDeclined bool
	}{
		{"y\n", false},
		{"yes\n", false},
		{"n\n", true},
		{"whatever\n", true},
	}
	for _, tt := range tests {
		var out strings.Builder
		a := NewStdinAsker(strings.NewReader(tt.in), &out)
		ans, err := a.Ask(context.Background(), Spec{Kind: KindConfirm, Prompt: "ready?"})
		if err != nil {
			t.Fatal(err)
		}
		if ans.Declined != tt.wantDeclined {
			t.Errorf("input %q: Declined = %v, want %v", tt.in, ans.Declined, tt.wantDeclined)
		}
		if !tt.wantDeclined && ans.Text != "true" {
			t.Errorf("input %q: Text = %q, want true", tt.in, ans.Text)
		}
	}
}

func TestStdinAskerSelect(t *testing.T) {
	spec := Spec{Kind: KindSelect, Prompt: "pick a transport", Options: []string{"car", "bus", "train"}}

	// By number.
	var out strings.Builder
	a := NewStdinAsker(strings.NewReader("2\n"), &out)
	ans, err := a.Ask(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "bus" {
		t.Errorf("Text = %q, want bus", ans.Text)
	}

	// By value, after one invalid try.
	a = NewStdinAsker(strings.NewReader("plane\ntrain\n"), &out)
	ans, err = a.Ask(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "train" {
		t.Errorf("Text = %q, want train", ans.Text)
	}
}

func TestStdinAskerAbortOnEOF(t *testing.T) {
	var out strings.Builder
	a := NewStdinAsker(strings.NewReader(""), &out)
	_, err := a.Ask(context.Background(), Spec{Kind: KindInput, Prompt: "city?"})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestScriptedAsker(t *testing.T) {
	a := NewScriptedAsker("y", "goo", "bus")

	ans, err := a.Ask(context.Background(), Spec{Kind: KindConfirm, Prompt: "ready?"})
	if err != nil || ans.Declined {
		t.Fatalf("confirm: ans=%+v err=%v", ans, err)
	}
	ans, err = a.Ask(context.Background(), Spec{Kind: KindInput, Prompt: "city?"})
	if err != nil || ans.Text != "goo" {
		t.Fatalf("input: ans=%+v err=%v", ans, err)
	}
	ans, err = a.Ask(context.Background(), Spec{Kind: KindSelect, Prompt: "transport?", Options: []string{"car", "bus"}})
	if err != nil || ans.Text != "bus" {
		t.Fatalf("select: ans=%+v err=%v", ans, err)
	}
	if a.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", a.Remaining())
	}

	// Exhausted queue aborts.
	if _, err := a.Ask(context.Background(), Spec{Kind: KindInput, Prompt: "more?"}); !errors.Is(err, ErrAborted) {
		t.Errorf("exhausted asker: err = %v, want ErrAborted", err)
	}
}

func TestScriptedAskerRejectsUnknownOption(t *testing.T) {
	a := NewScriptedAsker("plane")
	_, err := a.Ask(context.Background(), Spec{Kind: KindSelect, Prompt: "transport?", Options: []string{"car", "bus"}})
	if err == nil {
		t.Fatal("expected error for out-of-options answer")
	}
}

func TestDryRunAsker(t *testing.T) {
	a := DryRunAsker{}
	ans, _ := a.Ask(context.Background(), Spec{Kind: KindConfirm, Prompt: "ready?"})
	if ans.Text != "true" {
		t.Errorf("confirm Text = %q, want true", ans.Text)
	}
	ans, _ = a.Ask(context.Background(), Spec{Kind: KindSelect, Prompt: "pick", Options: []string{"car", "bus"}, Default: "bus"})
	if ans.Text != "bus" {
		t.Errorf("select Text = %q, want bus", ans.Text)
	}
	ans, _ = a.Ask(context.Background(), Spec{Kind: KindSelect, Prompt: "pick", Options: []string{"car", "bus"}})
	if ans.Text != "car" {
		t.Errorf("select Text = %q, want first option car", ans.Text)
	}
}

func TestDryRunAskerSelectWithoutOptions(t *testing.T) {
	// Reachable when the engine is driven with in-memory actions that never
	// went through schema validation.
	a := DryRunAsker{}
	_, err := a.Ask(context.Background(), Spec{Kind: KindSelect, Prompt: "pick"})
	if err == nil {
		t.Fatal("expected error for select with no options and no default")
	}
}
