package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/actkit/actkit/pkg/debugger"
	"github.com/actkit/actkit/pkg/execute"
	"github.com/actkit/actkit/pkg/interact"
	actkitmcp "github.com/actkit/actkit/pkg/mcp"
	"github.com/actkit/actkit/pkg/runner"
	"github.com/actkit/actkit/pkg/schema"
	"github.com/actkit/actkit/pkg/tui"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "actkit",
	Short: "Declarative interactive action plans",
	Long:  "actkit — run ordered action plans that mix prompts, captured answers, and templated shell commands.",
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [plan.yaml]",
	Short: "Validate a plan YAML file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	plan, errs := schema.ValidateFile(args[0])
	printValidationWarnings(errs)
	if schema.HasErrors(errs) {
		fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n", countValidationErrors(errs))
		for i, e := range errs {
			if e.Severity != "warning" {
				fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
				if e.Path != "" {
					fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
				}
			}
		}
		return fmt.Errorf("plan validation failed")
	}
	fmt.Printf("✓ %s is valid (%d actions)\n", plan.Name, len(plan.Actions))
	return nil
}

// --- run ---

var (
	runVars        []string
	runHaltOnError bool
	runDir         string
	runHooks       string
	runDryRun      bool
	runAnswers     []string
	runAnswerFile  string
	runPlain       bool
	runTrace       string
)

var runCmd = &cobra.Command{
	Use:   "run [plan.yaml]",
	Short: "Execute a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	plan, err := loadValidPlan(args[0])
	if err != nil {
		return err
	}

	vars, err := seedVars(plan, runVars)
	if err != nil {
		return err
	}

	hooks, err := runner.ParseHookMask(runHooks)
	if err != nil {
		return err
	}

	answers := runAnswers
	if runAnswerFile != "" {
		fromFile, err := loadAnswersFile(runAnswerFile)
		if err != nil {
			return err
		}
		answers = append(fromFile, answers...)
	}

	var asker interact.Asker
	var executor execute.Executor
	switch {
	case runDryRun:
		asker = interact.DryRunAsker{}
		executor = &execute.DryRunExecutor{}
	case len(answers) > 0:
		asker = interact.NewScriptedAsker(answers...)
		executor = &execute.ShellExecutor{Stream: true, Stdout: os.Stdout, Stderr: os.Stderr}
	case runPlain:
		asker = interact.NewTerminalAsker()
		executor = &execute.ShellExecutor{Stream: true, Stdout: os.Stdout, Stderr: os.Stderr}
	default:
		asker = tui.NewAsker()
		executor = &execute.ShellExecutor{Stream: true, Stdout: os.Stdout, Stderr: os.Stderr}
	}

	reporter := tui.NewReporter(os.Stdout, runPlain || runDryRun)
	eng := &runner.Runner{
		Asker:       asker,
		Executor:    executor,
		Hooks:       hooks,
		Observer:    reporter.Observe,
		HaltOnError: runHaltOnError,
		Dir:         runDir,
		Policy:      plan.Governance,
	}

	if runTrace != "" {
		tw, err := runner.NewTraceWriter(runTrace)
		if err != nil {
			return err
		}
		defer tw.Close()
		eng.Trace = tw
	}

	result, runErr := eng.Run(context.Background(), plan.Actions, vars)
	reporter.Summary(result)

	if runErr != nil {
		if errors.Is(runErr, interact.ErrAborted) {
			return fmt.Errorf("run aborted")
		}
		return runErr
	}
	return nil
}

// --- walkthrough ---

var walkthroughPlain bool

var walkthroughCmd = &cobra.Command{
	Use:   "walkthrough [plan.yaml]",
	Short: "Describe a plan without executing it",
	Long: `Analyze a plan and print a step-by-step walkthrough: what will be
asked, what will run, and under which conditions.

The walkthrough comes from static analysis of the plan YAML — no
execution occurs. Use 'actkit run --dry-run' if you need execution output.`,
	Args: cobra.ExactArgs(1),
	RunE: runWalkthrough,
}

func runWalkthrough(cmd *cobra.Command, args []string) error {
	plan, err := loadValidPlan(args[0])
	if err != nil {
		return err
	}
	doc := schema.Describe(plan)
	if walkthroughPlain {
		fmt.Print(doc)
		return nil
	}
	fmt.Println(tui.RenderMarkdown(doc))
	return nil
}

// --- debug ---

var (
	debugVars   []string
	debugDryRun bool
)

var debugCmd = &cobra.Command{
	Use:   "debug [plan.yaml]",
	Short: "Step through a plan in an interactive REPL",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
	plan, err := loadValidPlan(args[0])
	if err != nil {
		return err
	}
	vars, err := seedVars(plan, debugVars)
	if err != nil {
		return err
	}
	plan.Vars = vars

	var executor execute.Executor = &execute.ShellExecutor{Stream: true, Stdout: os.Stdout, Stderr: os.Stderr}
	var asker interact.Asker = interact.NewTerminalAsker()
	if debugDryRun {
		executor = &execute.DryRunExecutor{}
		asker = interact.DryRunAsker{}
	}

	d := debugger.New(plan, &runner.Runner{Asker: asker, Executor: executor})
	return d.Run(context.Background())
}

// --- schema export ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	var out json.RawMessage = data
	formatted, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(string(formatted))
	return nil
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve actkit tools to AI agents over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ServeStdio(actkitmcp.NewServer(version))
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("actkit %s (build: %s)\n", version, commit)
	},
}

// --- helpers ---

// loadValidPlan validates the file and surfaces warnings, returning the plan
// only when no error-severity findings remain.
func loadValidPlan(path string) (*schema.Plan, error) {
	plan, errs := schema.ValidateFile(path)
	printValidationWarnings(errs)
	if schema.HasErrors(errs) {
		for _, e := range errs {
			if e.Severity != "warning" {
				fmt.Fprintf(os.Stderr, "  [%s] %s\n", e.Phase, e.Message)
			}
		}
		return nil, fmt.Errorf("plan validation failed")
	}
	return plan, nil
}

// loadAnswersFile reads a YAML list of scripted answers, one per prompt.
func loadAnswersFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers file: %w", err)
	}
	var answers []string
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse answers file %s: %w", path, err)
	}
	return answers, nil
}

// seedVars merges --var flags over the plan's own vars.
func seedVars(plan *schema.Plan, flags []string) (map[string]string, error) {
	vars := make(map[string]string, len(plan.Vars)+len(flags))
	for k, v := range plan.Vars {
		vars[k] = v
	}
	for _, v := range flags {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --var %q: expected key=value", v)
		}
		vars[parts[0]] = parts[1]
	}
	return vars, nil
}

func printValidationWarnings(errs []*schema.ValidationError) {
	for _, e := range errs {
		if e.Severity == "warning" {
			fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(os.Stderr, "    at: %s\n", e.Path)
			}
		}
	}
}

func countValidationErrors(errs []*schema.ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity != "warning" {
			n++
		}
	}
	return n
}

func init() {
	runCmd.Flags().StringArrayVar(&runVars, "var", nil, "Set a variable (key=value), repeatable")
	runCmd.Flags().BoolVar(&runHaltOnError, "halt-on-error", false, "Stop the run when a command exits non-zero")
	runCmd.Flags().StringVar(&runDir, "dir", "", "Default working directory for commands")
	runCmd.Flags().StringVar(&runHooks, "hooks", "both", "Which progress hooks to report: before, after, or both")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Answer prompts with defaults and record commands without running them")
	runCmd.Flags().StringArrayVar(&runAnswers, "answers", nil, "Scripted answer consumed by the next prompt, repeatable")
	runCmd.Flags().StringVar(&runAnswerFile, "answers-file", "", "YAML file with a list of scripted answers")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Plain line-based prompts and output (no TUI)")
	runCmd.Flags().StringVar(&runTrace, "trace", "", "Append a JSONL trace of action outcomes to this file")

	walkthroughCmd.Flags().BoolVar(&walkthroughPlain, "plain", false, "Raw markdown instead of styled output")

	debugCmd.Flags().StringArrayVar(&debugVars, "var", nil, "Set a variable (key=value), repeatable")
	debugCmd.Flags().BoolVar(&debugDryRun, "dry-run", false, "Record commands without running them")

	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(walkthroughCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
