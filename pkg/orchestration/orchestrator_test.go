package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/curlgen/pkg/config"
	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/planner"
	"github.com/alantheprice/curlgen/pkg/toolchain"
	"github.com/alantheprice/curlgen/pkg/utils"
)

// scriptedCompleter replays queued responses and records every user prompt.
type scriptedCompleter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, user)
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	response := ""
	if idx < len(s.responses) {
		response = s.responses[idx]
	} else if len(s.responses) > 0 {
		response = s.responses[len(s.responses)-1]
	}
	return response, err
}

// scriptedRunner replays queued compile/run results.
type scriptedRunner struct {
	compileResults []toolchain.Result
	runResults     []toolchain.Result
	compileCalls   int
	runCalls       int
}

func (r *scriptedRunner) Compile(ctx context.Context, dir string, system toolchain.BuildSystem, files []string) (toolchain.Result, error) {
	idx := r.compileCalls
	r.compileCalls++
	if idx >= len(r.compileResults) {
		idx = len(r.compileResults) - 1
	}
	return r.compileResults[idx], nil
}

func (r *scriptedRunner) Run(ctx context.Context, dir string, system toolchain.BuildSystem, mainClass string) (toolchain.Result, error) {
	idx := r.runCalls
	r.runCalls++
	if idx >= len(r.runResults) {
		idx = len(r.runResults) - 1
	}
	return r.runResults[idx], nil
}

const planText = "# API: `https://api.example.com/users`\n# Operation: `createUser`\n# HTTP Method: `POST`"

const runnableResponse = "// Filename: Example.java\npackage com.example;\n\npublic class Example {\n    public static void main(String[] args) {\n        System.out.println(\"created\");\n    }\n}"

func newTestOrchestrator(t *testing.T, maxAttempts int, plannerC, codegenC, validationC llm.Completer, runner toolchain.Runner) (*Orchestrator, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorkspaceDir = t.TempDir()
	cfg.MaxAttempts = maxAttempts
	require.NoError(t, cfg.Validate())

	completers := map[string]llm.Completer{
		cfg.PlanningModel:   plannerC,
		cfg.CodegenModel:    codegenC,
		cfg.ValidationModel: validationC,
	}
	registry := llm.NewRegistryWithFactory(map[llm.Role]string{
		llm.RolePlanning:   cfg.PlanningModel,
		llm.RoleCodegen:    cfg.CodegenModel,
		llm.RoleValidation: cfg.ValidationModel,
	}, func(model string) llm.Completer {
		return completers[model]
	})

	return New(cfg, registry, runner, utils.GetLogger(true)), cfg
}

func TestSuccessOnFirstAttempt(t *testing.T) {
	codegen := &scriptedCompleter{responses: []string{runnableResponse}}
	runner := &scriptedRunner{
		compileResults: []toolchain.Result{{Ok: true}},
		runResults:     []toolchain.Result{{Output: "created", Ok: true}},
	}
	o, _ := newTestOrchestrator(t, 3,
		&scriptedCompleter{responses: []string{planText}},
		codegen,
		&scriptedCompleter{responses: []string{"analysis"}},
		runner)

	result, err := o.GenerateFromCurl(context.Background(), `curl -X POST "https://api.example.com/users"`)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, codegen.calls, "success must short-circuit further generation")
	assert.Equal(t, 1, runner.compileCalls)
	assert.Len(t, result.Session.Attempts, 1)
	assert.Equal(t, planText, result.Session.Plan)
}

func TestLoopExhaustsBoundAndReturnsStructuredFailure(t *testing.T) {
	codegen := &scriptedCompleter{responses: []string{runnableResponse}}
	runner := &scriptedRunner{
		compileResults: []toolchain.Result{{Output: "error: ';' expected", Ok: false}},
	}
	o, _ := newTestOrchestrator(t, 3,
		&scriptedCompleter{responses: []string{planText}},
		codegen,
		nil, // no analysis model
		runner)

	result, err := o.GenerateFromCurl(context.Background(), "curl example.com")
	require.NoError(t, err, "attempts exhausted is a structured failure, never an error")

	assert.False(t, result.Success)
	assert.Equal(t, 3, codegen.calls)
	assert.Equal(t, 3, runner.compileCalls)
	assert.Len(t, result.Session.Attempts, 3)
	assert.Contains(t, result.Feedback, "';' expected")
}

func TestSingleAttemptDisablesRetries(t *testing.T) {
	codegen := &scriptedCompleter{responses: []string{runnableResponse}}
	runner := &scriptedRunner{
		compileResults: []toolchain.Result{{Output: "boom", Ok: false}},
	}
	o, _ := newTestOrchestrator(t, 1,
		&scriptedCompleter{responses: []string{planText}},
		codegen, nil, runner)

	result, err := o.GenerateFromCurl(context.Background(), "curl example.com")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, codegen.calls, "exactly one cycle for maxAttempts=1")
	require.Len(t, codegen.prompts, 1)
	assert.NotContains(t, codegen.prompts[0], "fix the following issues", "first attempt carries no feedback")
}

func TestFeedbackPropagatesVerbatimToNextAttempt(t *testing.T) {
	diagnostic := "Example.java:4: error: cannot find symbol WebClient"
	codegen := &scriptedCompleter{responses: []string{runnableResponse, runnableResponse}}
	runner := &scriptedRunner{
		compileResults: []toolchain.Result{
			{Output: diagnostic, Ok: false},
			{Ok: true},
		},
		runResults: []toolchain.Result{{Ok: true}},
	}
	o, _ := newTestOrchestrator(t, 3,
		&scriptedCompleter{responses: []string{planText}},
		codegen, nil, runner)

	result, err := o.GenerateFromCurl(context.Background(), "curl example.com")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.Session.Attempts, 2, "success on attempt 2 stops the loop")
	require.Len(t, codegen.prompts, 2)
	assert.Contains(t, codegen.prompts[1], diagnostic, "attempt 2 prompt must carry attempt 1's diagnostic verbatim")
	assert.Contains(t, codegen.prompts[1], planText, "plan is reused unchanged on regeneration")
}

func TestPlanningFailureAbortsBeforeLoop(t *testing.T) {
	runner := &scriptedRunner{compileResults: []toolchain.Result{{Ok: true}}}
	o, _ := newTestOrchestrator(t, 3,
		&scriptedCompleter{errs: []error{errors.New("backend down")}},
		&scriptedCompleter{responses: []string{runnableResponse}},
		nil, runner)

	_, err := o.GenerateFromCurl(context.Background(), "curl example.com")

	assert.True(t, errors.Is(err, planner.ErrPlanningFailed))
	assert.Equal(t, 0, runner.compileCalls, "no validation happens without a plan")
}

func TestGenerationFailureConsumesOneAttempt(t *testing.T) {
	codegen := &scriptedCompleter{
		responses: []string{"", runnableResponse},
		errs:      []error{errors.New("model crashed"), nil},
	}
	runner := &scriptedRunner{
		compileResults: []toolchain.Result{{Ok: true}},
		runResults:     []toolchain.Result{{Ok: true}},
	}
	o, _ := newTestOrchestrator(t, 3,
		&scriptedCompleter{responses: []string{planText}},
		codegen, nil, runner)

	result, err := o.GenerateFromCurl(context.Background(), "curl example.com")
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Session.Attempts, 2)
	assert.Equal(t, 0, result.Session.Attempts[0].Artifacts.Len(), "failed completion yields an empty set")
	assert.False(t, result.Session.Attempts[0].Outcome.Compiled, "empty set fails validation deterministically")
	assert.Equal(t, 1, runner.compileCalls, "empty set never reaches the toolchain")
}

func TestEndToEndCreateUserScenario(t *testing.T) {
	codegen := &scriptedCompleter{responses: []string{runnableResponse}}
	runner := &scriptedRunner{
		compileResults: []toolchain.Result{{Ok: true}},
		runResults:     []toolchain.Result{{Output: "created", Ok: true}},
	}
	o, cfg := newTestOrchestrator(t, 3,
		&scriptedCompleter{responses: []string{planText}},
		codegen, nil, runner)

	result, err := o.GenerateFromCurl(context.Background(), `curl -X POST "https://api.example.com/users" -d '{"name":"John"}'`)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Session.Plan, "createUser")

	// The artifact's package declaration drove the workspace layout.
	sessionDir := filepath.Join(cfg.WorkspaceDir, result.Session.ID)
	_, statErr := os.Stat(filepath.Join(sessionDir, "com", "example", "Example.java"))
	assert.NoError(t, statErr)

	resultsDir, err := o.SaveResults(result)
	require.NoError(t, err)

	data, readErr := os.ReadFile(filepath.Join(resultsDir, "generation_summary.json"))
	require.NoError(t, readErr)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, float64(1), summary["file_count"])
	files, ok := summary["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 1)
	assert.Equal(t, "Example.java", files[0])

	statusData, readErr := os.ReadFile(filepath.Join(resultsDir, "generation_status.json"))
	require.NoError(t, readErr)
	var status map[string]any
	require.NoError(t, json.Unmarshal(statusData, &status))
	assert.Equal(t, true, status["success"])
}
