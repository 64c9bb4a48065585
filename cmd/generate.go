package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alantheprice/curlgen/pkg/config"
	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/orchestration"
	"github.com/alantheprice/curlgen/pkg/toolchain"
	"github.com/alantheprice/curlgen/pkg/utils"
)

var (
	generateWorkspace       string
	generateAttempts        int
	generatePlanningModel   string
	generateCodegenModel    string
	generateValidationModel string
	generateQuiet           bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateWorkspace, "workspace", "w", "", "Workspace directory for generated sources (default from config)")
	generateCmd.Flags().IntVarP(&generateAttempts, "attempts", "a", 0, "Maximum generate/validate attempts (default from config)")
	generateCmd.Flags().StringVar(&generatePlanningModel, "planning-model", "", "Override the planning model")
	generateCmd.Flags().StringVar(&generateCodegenModel, "codegen-model", "", "Override the code generation model")
	generateCmd.Flags().StringVar(&generateValidationModel, "validation-model", "", "Override the error analysis model")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress progress output")
}

var generateCmd = &cobra.Command{
	Use:   "generate [curl command]",
	Short: "Generate and validate Java code for a cURL command",
	Long: `Runs the full pipeline for a single cURL command:

1. The planning model parses the command into an operation plan.
2. The code generation model produces Java sources from the plan.
3. The sources are written into a session workspace, compiled, and run.
4. Compilation or runtime errors feed back into regeneration.

The loop stops on the first fully validated attempt or when the attempt
budget is exhausted. Either way, the last attempt's sources and a result
summary are written under <workspace>/<session-id>/results/.

Examples:
  curlgen generate 'curl -X POST "https://api.example.com/users" -H "Content-Type: application/json" -d "{\"name\":\"John\"}"'

  # Retry up to five times in a custom workspace
  curlgen generate -a 5 -w ./out 'curl https://api.example.com/users/42'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args[0])
	},
}

func runGenerate(ctx context.Context, curlCommand string) error {
	if strings.TrimSpace(curlCommand) == "" {
		return fmt.Errorf("cURL command must not be empty")
	}

	cfg, err := loadConfigWithOverrides()
	if err != nil {
		return err
	}

	logger := utils.GetLogger(generateQuiet)
	registry := llm.NewRegistry(map[llm.Role]string{
		llm.RolePlanning:   cfg.PlanningModel,
		llm.RoleCodegen:    cfg.CodegenModel,
		llm.RoleValidation: cfg.ValidationModel,
	}, cfg.Temperature, cfg.LLMTimeoutDuration())
	runner := toolchain.NewExecRunner(cfg.ToolchainTimeoutDuration())

	orchestrator := orchestration.New(cfg, registry, runner, logger)
	result, err := orchestrator.GenerateFromCurl(ctx, curlCommand)
	if err != nil {
		return err
	}

	resultsDir, saveErr := orchestrator.SaveResults(result)
	if saveErr != nil {
		logger.Logf("Failed to save results: %v", saveErr)
	} else {
		logger.LogProcessStep(fmt.Sprintf("Results saved to %s", resultsDir))
	}

	if !result.Success {
		last := result.Session.LastAttempt()
		return fmt.Errorf("code failed validation after %d attempts (%d file(s) in the final set); last diagnostic:\n%s",
			len(result.Session.Attempts), last.Artifacts.Len(), result.Feedback)
	}

	logger.LogProcessStep(fmt.Sprintf("Generated %d file(s) compiled and ran successfully.", result.Artifacts.Len()))
	return nil
}

// loadConfigWithOverrides loads the persisted config and applies any CLI
// flag overrides before validating.
func loadConfigWithOverrides() (*config.Config, error) {
	cfg, err := config.LoadOrInit()
	if err != nil {
		return nil, err
	}
	if generateWorkspace != "" {
		cfg.WorkspaceDir = generateWorkspace
	}
	if generateAttempts > 0 {
		cfg.MaxAttempts = generateAttempts
	}
	if generatePlanningModel != "" {
		cfg.PlanningModel = generatePlanningModel
	}
	if generateCodegenModel != "" {
		cfg.CodegenModel = generateCodegenModel
	}
	if generateValidationModel != "" {
		cfg.ValidationModel = generateValidationModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
