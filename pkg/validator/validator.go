package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alantheprice/curlgen/pkg/artifacts"
	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/prompts"
	"github.com/alantheprice/curlgen/pkg/toolchain"
	"github.com/alantheprice/curlgen/pkg/utils"
	"github.com/alantheprice/curlgen/pkg/workspace"
)

// mainMethodRegex detects a runnable entrypoint inside an artifact.
var mainMethodRegex = regexp.MustCompile(`public\s+static\s+void\s+main\s*\(`)

// resultsFilename is the per-validation record written into the workspace.
const resultsFilename = "validation_results.json"

// Outcome is the immutable result of one validation call.
type Outcome struct {
	Compiled       bool
	Ran            bool
	Diagnostic     string
	Timestamp      time.Time
	EndTime        time.Time
	FilesValidated []string
	BuildSystem    toolchain.BuildSystem
}

// Success reports whether the attempt both compiled and ran.
func (o *Outcome) Success() bool {
	return o.Compiled && o.Ran
}

// validationRecord is the JSON shape persisted alongside the workspace.
type validationRecord struct {
	Timestamp          string   `json:"timestamp"`
	EndTime            string   `json:"end_time"`
	CompilationSuccess bool     `json:"compilation_success"`
	RunSuccess         bool     `json:"run_success"`
	FilesValidated     []string `json:"files_validated"`
	DiagnosticText     string   `json:"diagnostic_text"`
	BuildSystem        string   `json:"build_system"`
	DirectoryContents  []string `json:"directory_contents"`
}

// Validator persists candidate artifacts into a workspace, drives the
// toolchain over them and classifies the result. The workspace directory is
// owned exclusively by the validator for the duration of a Validate call.
type Validator struct {
	runner   toolchain.Runner
	analyzer llm.Completer // optional; explains toolchain errors for feedback
	logger   *utils.Logger
}

// New returns a validator. analyzer may be nil, in which case diagnostics are
// the raw toolchain output without model analysis.
func New(runner toolchain.Runner, analyzer llm.Completer, logger *utils.Logger) *Validator {
	return &Validator{runner: runner, analyzer: analyzer, logger: logger}
}

// Validate writes the artifact set into workspaceDir, compiles it, runs it if
// compilation succeeded, and returns the classified outcome. Infrastructure
// failures (workspace IO, missing toolchain) return an error and abort the
// session; content failures are normal Outcomes with Success()==false.
func (v *Validator) Validate(ctx context.Context, set *artifacts.Set, workspaceDir string) (*Outcome, error) {
	start := time.Now()

	store, err := workspace.NewStore(workspaceDir)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Timestamp:      start,
		FilesValidated: set.Names(),
		BuildSystem:    selectBuildSystem(set),
	}

	if set.Len() == 0 {
		// An empty generation fails deterministically without touching the
		// toolchain, consuming one attempt like any other content failure.
		outcome.Diagnostic = "no artifacts were produced by the generation step; nothing to compile"
		outcome.EndTime = time.Now()
		v.persistRecord(store, outcome)
		return outcome, nil
	}

	javaFiles, err := v.persistArtifacts(store, set)
	if err != nil {
		return nil, err
	}

	v.logger.LogProcessStep(fmt.Sprintf("Compiling %d file(s) with %s...", len(javaFiles), outcome.BuildSystem))
	compileRes, err := v.runner.Compile(ctx, store.Root(), outcome.BuildSystem, javaFiles)
	if err != nil {
		return nil, err
	}

	outcome.Compiled = compileRes.Ok
	diagnostic := strings.Builder{}
	diagnostic.WriteString(compileRes.Output)

	if !outcome.Compiled {
		v.appendAnalysis(ctx, &diagnostic, "compilation", compileRes.Output)
		outcome.Diagnostic = diagnostic.String()
		outcome.EndTime = time.Now()
		v.persistRecord(store, outcome)
		return outcome, nil
	}

	mainClass := findMainClass(set)
	if mainClass == "" {
		// No entrypoint to execute. Fall back to the narrative classifier in
		// case the toolchain output itself carries run evidence; absent that,
		// the run stage conservatively counts as failed.
		_, outcome.Ran = toolchain.ClassifyNarrative(compileRes.Output)
		if !outcome.Ran {
			diagnostic.WriteString("\nno class with a main method was found; the run step could not be performed")
		}
	} else {
		v.logger.LogProcessStep(fmt.Sprintf("Running %s...", mainClass))
		runRes, runErr := v.runner.Run(ctx, store.Root(), outcome.BuildSystem, mainClass)
		if runErr != nil {
			return nil, runErr
		}
		outcome.Ran = runRes.Ok
		if runRes.Output != "" {
			diagnostic.WriteString("\n")
			diagnostic.WriteString(runRes.Output)
		}
		if !outcome.Ran {
			v.appendAnalysis(ctx, &diagnostic, "runtime", runRes.Output)
		}
	}

	outcome.Diagnostic = diagnostic.String()
	outcome.EndTime = time.Now()
	v.persistRecord(store, outcome)
	return outcome, nil
}

// persistArtifacts writes every artifact under its package-derived directory
// and returns the relative paths of the .java sources for compilation.
func (v *Validator) persistArtifacts(store *workspace.Store, set *artifacts.Set) ([]string, error) {
	var javaFiles []string
	for _, artifact := range set.All() {
		dir := workspace.JavaPackagePath(artifact.Content)
		relPath := filepath.Join(dir, artifact.Name)
		if err := store.WriteFile(relPath, artifact.Content); err != nil {
			return nil, err
		}
		if strings.HasSuffix(strings.ToLower(artifact.Name), ".java") {
			javaFiles = append(javaFiles, relPath)
		}
	}
	return javaFiles, nil
}

// appendAnalysis asks the validation model to explain a failed stage and
// appends its analysis to the diagnostic. The raw toolchain output always
// stays in front; a failed analysis never masks it.
func (v *Validator) appendAnalysis(ctx context.Context, diagnostic *strings.Builder, errorType, errorOutput string) {
	if v.analyzer == nil || strings.TrimSpace(errorOutput) == "" {
		return
	}
	analysis, err := v.analyzer.Complete(ctx, prompts.ValidationSystemPrompt, prompts.BuildValidationUserPrompt(errorType, errorOutput))
	if err != nil {
		v.logger.Logf("error analysis skipped: %v", err)
		return
	}
	diagnostic.WriteString("\n\n--- Error analysis ---\n")
	diagnostic.WriteString(analysis)
}

// persistRecord writes validation_results.json into the workspace. Failures
// are logged, not returned: the outcome itself is already decided. The record
// includes a listing of the workspace after the toolchain ran, with build
// outputs filtered out.
func (v *Validator) persistRecord(store *workspace.Store, outcome *Outcome) {
	contents, err := store.List()
	if err != nil {
		v.logger.LogError(err)
	} else {
		v.logger.Logf("workspace %s contains %d file(s) after validation", store.Root(), len(contents))
	}

	record := validationRecord{
		Timestamp:          outcome.Timestamp.Format(time.RFC3339),
		EndTime:            outcome.EndTime.Format(time.RFC3339),
		CompilationSuccess: outcome.Compiled,
		RunSuccess:         outcome.Ran,
		FilesValidated:     outcome.FilesValidated,
		DiagnosticText:     outcome.Diagnostic,
		BuildSystem:        string(outcome.BuildSystem),
		DirectoryContents:  contents,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		v.logger.LogError(err)
		return
	}
	if err := store.WriteFile(resultsFilename, string(data)); err != nil {
		v.logger.LogError(err)
	}
}

// selectBuildSystem picks Maven when the set carries a pom.xml, plain javac
// otherwise.
func selectBuildSystem(set *artifacts.Set) toolchain.BuildSystem {
	for _, name := range set.Names() {
		if strings.EqualFold(name, "pom.xml") {
			return toolchain.BuildSystemMaven
		}
	}
	return toolchain.BuildSystemJavac
}

// findMainClass returns the fully qualified name of the first artifact
// declaring a main method, or "" when none does.
func findMainClass(set *artifacts.Set) string {
	for _, artifact := range set.All() {
		if !strings.HasSuffix(strings.ToLower(artifact.Name), ".java") {
			continue
		}
		if !mainMethodRegex.MatchString(artifact.Content) {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(artifact.Name), filepath.Ext(artifact.Name))
		if pkg := workspace.JavaPackagePath(artifact.Content); pkg != "" {
			return strings.ReplaceAll(pkg, string(filepath.Separator), ".") + "." + base
		}
		return base
	}
	return ""
}
