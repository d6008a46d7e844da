package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate a shell completion script for figurine.

  bash:        source <(figurine completion bash)
  zsh:         figurine completion zsh > "${fpath[1]}/_figurine"
  fish:        figurine completion fish | source
  powershell:  figurine completion powershell | Out-String | Invoke-Expression
`

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	shells := []string{"bash", "zsh", "fish", "powershell"}
	return &cobra.Command{
		Use:                   "completion [" + strings.Join(shells, "|") + "]",
		Short:                 "Generate shell completion scripts",
		Long:                  completionHelp,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return cmd.Root().GenBashCompletion(out)
		},
	}
}
