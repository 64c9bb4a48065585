package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alantheprice/curlgen/pkg/artifacts"
	"github.com/alantheprice/curlgen/pkg/changetracker"
	"github.com/alantheprice/curlgen/pkg/config"
	"github.com/alantheprice/curlgen/pkg/generator"
	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/planner"
	"github.com/alantheprice/curlgen/pkg/toolchain"
	"github.com/alantheprice/curlgen/pkg/utils"
	"github.com/alantheprice/curlgen/pkg/validator"
	"github.com/alantheprice/curlgen/pkg/workspace"
)

// Result is the terminal outcome of a generation session. Content-quality
// failures (attempts exhausted) are ordinary Results with Success=false;
// only infrastructure problems surface as errors.
type Result struct {
	Success   bool
	Artifacts *artifacts.Set
	Feedback  string
	Session   *Session
}

// Orchestrator drives the plan → generate → validate → regenerate loop. One
// workspace subdirectory per session; attempts within a session are strictly
// sequential because each regeneration needs the previous diagnostic and
// each validation reuses the same workspace.
type Orchestrator struct {
	planner   *planner.Planner
	generator *generator.Generator
	validator *validator.Validator
	cfg       *config.Config
	logger    *utils.Logger
}

// New wires an orchestrator from the model registry and toolchain runner.
func New(cfg *config.Config, registry *llm.Registry, runner toolchain.Runner, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		planner:   planner.New(registry.For(llm.RolePlanning)),
		generator: generator.New(registry.For(llm.RoleCodegen)),
		validator: validator.New(runner, registry.For(llm.RoleValidation), logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateFromCurl runs one full session for a cURL command.
//
// The plan is produced once and reused verbatim on every attempt; only the
// accompanying feedback changes. The loop performs at most cfg.MaxAttempts
// generate/validate cycles, stopping early on the first success.
func (o *Orchestrator) GenerateFromCurl(ctx context.Context, curlCommand string) (*Result, error) {
	session := NewSession(curlCommand)
	workspaceDir := o.sessionWorkspace(session.ID)

	o.logger.LogProcessStep("Step 1: Planning - parsing the cURL command...")
	plan, err := o.planner.Plan(ctx, curlCommand)
	if err != nil {
		return nil, err
	}
	session.Plan = plan
	o.logger.Logf("operation plan:\n%s", plan)

	var previousSet *artifacts.Set
	var feedback string

	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		o.logger.LogProcessStep(fmt.Sprintf("Attempt %d/%d: generating code...", attempt, o.cfg.MaxAttempts))

		set := o.generate(ctx, plan, feedback, attempt)
		if attempt > 1 {
			changetracker.LogArtifactChanges(o.logger, attempt, previousSet, set)
		}

		o.logger.LogProcessStep(fmt.Sprintf("Attempt %d/%d: validating %d file(s)...", attempt, o.cfg.MaxAttempts, set.Len()))
		outcome, err := o.validator.Validate(ctx, set, workspaceDir)
		if err != nil {
			// Environment problem, not a content problem. Abort the session.
			return nil, err
		}
		session.Record(attempt, set, outcome)

		if outcome.Success() {
			o.logger.LogProcessStep("Validation successful!")
			session.Success = true
			return &Result{Success: true, Artifacts: set, Feedback: outcome.Diagnostic, Session: session}, nil
		}

		o.logger.Logf("validation failed on attempt %d:\n%s", attempt, outcome.Diagnostic)
		if attempt == o.cfg.MaxAttempts {
			return &Result{Success: false, Artifacts: set, Feedback: outcome.Diagnostic, Session: session}, nil
		}

		feedback = outcome.Diagnostic
		previousSet = set
	}

	// Unreachable: the loop always returns on the final attempt.
	return nil, fmt.Errorf("attempt loop exited without a terminal result")
}

// generate produces the attempt's artifact set. A completion failure is a
// hard failure of this attempt only: it yields an empty set, which validation
// then classifies as failed, consuming one bounded attempt.
func (o *Orchestrator) generate(ctx context.Context, plan, feedback string, attempt int) *artifacts.Set {
	var set *artifacts.Set
	var err error
	if attempt == 1 {
		set, err = o.generator.Generate(ctx, plan)
	} else {
		set, err = o.generator.GenerateWithFeedback(ctx, plan, feedback)
	}
	if err != nil {
		o.logger.LogError(err)
		return artifacts.NewSet()
	}
	return set
}

// SaveResults persists a session's final artifacts and records under
// <workspace>/<session>/results. Artifacts land under their package-derived
// directories; alongside them go a generation summary, the final validation
// feedback, and the overall status record.
func (o *Orchestrator) SaveResults(result *Result) (string, error) {
	resultsDir := filepath.Join(o.sessionWorkspace(result.Session.ID), "results")
	store, err := workspace.NewStore(resultsDir)
	if err != nil {
		return "", err
	}

	for _, artifact := range result.Artifacts.All() {
		dir := workspace.JavaPackagePath(artifact.Content)
		if err := store.WriteFile(filepath.Join(dir, artifact.Name), artifact.Content); err != nil {
			return "", err
		}
	}

	summary := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"file_count":   result.Artifacts.Len(),
		"files":        result.Artifacts.Names(),
	}
	if err := writeJSON(store, "generation_summary.json", summary); err != nil {
		return "", err
	}

	if err := store.WriteFile("validation_feedback.txt", result.Feedback); err != nil {
		return "", err
	}

	status := map[string]any{
		"success":    result.Success,
		"file_count": result.Artifacts.Len(),
		"files":      result.Artifacts.Names(),
	}
	if err := writeJSON(store, "generation_status.json", status); err != nil {
		return "", err
	}

	if contents, err := store.List(); err != nil {
		o.logger.LogError(err)
	} else {
		o.logger.Logf("results directory contains %d file(s): %v", len(contents), contents)
	}

	return resultsDir, nil
}

func (o *Orchestrator) sessionWorkspace(sessionID string) string {
	return filepath.Join(o.cfg.WorkspaceDir, sessionID)
}

func writeJSON(store *workspace.Store, name string, payload map[string]any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return store.WriteFile(name, string(data))
}
