package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/actkit/actkit/pkg/execute"
	"github.com/actkit/actkit/pkg/interact"
	"github.com/actkit/actkit/pkg/runner"
	"github.com/actkit/actkit/pkg/schema"
)

// HandleValidate implements the actkit/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	plan, errs := schema.ValidateFile(path)
	if schema.HasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(fmt.Sprintf("✓ %s is valid (%d actions)", plan.Name, len(plan.Actions))), nil
}

// HandleSchema implements the actkit/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleWalkthrough implements the actkit/walkthrough MCP tool.
func HandleWalkthrough(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	plan, errs := schema.ValidateFile(path)
	if schema.HasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(schema.Describe(plan)), nil
}

// HandleRun implements the actkit/run MCP tool. There is no terminal on the
// other side of an MCP session, so prompts are answered from the scripted
// 'answers' list, falling back to defaults when the list is empty.
func HandleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	mode, _ := args["mode"].(string)
	if mode == "" {
		mode = "dry-run" // safe default for AI agents
	}

	plan, errs := schema.ValidateFile(path)
	if schema.HasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}

	// Seed vars: plan vars first, request vars win.
	vars := make(map[string]string, len(plan.Vars))
	for k, v := range plan.Vars {
		vars[k] = v
	}
	if rawVars, ok := args["vars"].(map[string]any); ok {
		for k, v := range rawVars {
			vars[k] = fmt.Sprint(v)
		}
	}

	var asker interact.Asker = interact.DryRunAsker{}
	if rawAnswers, ok := args["answers"].([]any); ok && len(rawAnswers) > 0 {
		answers := make([]string, 0, len(rawAnswers))
		for _, a := range rawAnswers {
			answers = append(answers, fmt.Sprint(a))
		}
		asker = interact.NewScriptedAsker(answers...)
	}

	var executor execute.Executor = &execute.DryRunExecutor{}
	if mode == "real" {
		executor = &execute.ShellExecutor{}
	}

	eng := &runner.Runner{
		Asker:    asker,
		Executor: executor,
		Policy:   plan.Governance,
	}
	result, runErr := eng.Run(ctx, plan.Actions, vars)

	response := map[string]any{
		"status":   string(result.Status),
		"mode":     mode,
		"outcomes": result.Outcomes,
		"vars":     result.Vars,
	}
	if runErr != nil {
		response["error"] = runErr.Error()
	}

	data, _ := json.MarshalIndent(response, "", "  ")

	isErr := runErr != nil
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: isErr,
	}, nil
}

func formatErrors(errs []*schema.ValidationError) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity == "error" {
			msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message))
		}
	}
	return strings.Join(msgs, "; ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
