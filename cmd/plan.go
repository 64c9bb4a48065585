package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/curlgen/pkg/config"
	"github.com/alantheprice/curlgen/pkg/llm"
	"github.com/alantheprice/curlgen/pkg/planner"
)

var planModel string

func init() {
	planCmd.Flags().StringVarP(&planModel, "model", "m", "", "Model name for planning")
}

var planCmd = &cobra.Command{
	Use:   "plan [curl command]",
	Short: "Print the operation plan for a cURL command",
	Long: `Runs only the planning stage and prints the resulting operation plan
without generating or validating any code. Useful for checking what the
planning model extracts from a cURL command before spending time on the
full loop.

Example:
  curlgen plan 'curl -X DELETE "https://api.example.com/users/42" -H "Authorization: Bearer TOKEN"'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrInit()
		if err != nil {
			return err
		}
		if planModel != "" {
			cfg.PlanningModel = planModel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		completer := llm.NewOllamaCompleter(cfg.PlanningModel, cfg.Temperature, cfg.LLMTimeoutDuration())
		plan, err := planner.New(completer).Plan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(plan)
		return nil
	},
}
