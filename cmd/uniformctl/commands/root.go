package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "uniformctl",
	Short: "Compile, probe and generate uniform designs from the command line",
	Long: `uniformctl drives the same generation pipeline as the API server.

Use "prompt" to inspect the compiled prompt without calling a backend, "models" to
check which candidate models resolve, and "generate" to produce an image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(newPromptCmd(), newModelsCmd(), newGenerateCmd())
}
