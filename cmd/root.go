package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "curlgen",
	Short: "Generate runnable Java clients from cURL commands",
	Long: `Curlgen turns a raw cURL command into compiling, runnable Java code.
A planning model extracts the REST operation details, a code generation
model produces the Java sources, and the local toolchain (javac or Maven)
compiles and runs them. Compilation and runtime errors feed back into
regeneration until the code passes or the attempt budget is exhausted.

Available commands:
  generate - Run the full plan/generate/validate loop
  plan     - Print the operation plan for a cURL command and stop

For a one-shot run, try: curlgen generate 'curl -X POST "https://api.example.com/users" -d ...'`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(planCmd)
}
