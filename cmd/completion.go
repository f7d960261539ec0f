package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion bash",
	Short: "Generate shell completion code for the specified shell (bash)",
	Long: `To load completions:

Bash:

  $ source <(hypcheck completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ hypcheck completion bash > /etc/bash_completion.d/hypcheck
  # macOS:
  $ hypcheck completion bash > $(brew --prefix)/etc/bash_completion.d/hypcheck`,
	ValidArgs:     []string{"bash"},
	Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:          cmdRunCompletion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// cmdRunCompletion writes the completion script for the requested shell to stdout.
func cmdRunCompletion(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "bash":
		return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported shell '%s'", args[0])
	}
}
