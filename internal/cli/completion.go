package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions.
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fiddler.

To load completions:

Bash:
  $ source <(fiddler completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fiddler completion bash > /etc/bash_completion.d/fiddler
  # macOS:
  $ fiddler completion bash > $(brew --prefix)/etc/bash_completion.d/fiddler

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fiddler completion zsh > "${fpath[1]}/_fiddler"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ fiddler completion fish | source

  # To load completions for each session, execute once:
  $ fiddler completion fish > ~/.config/fish/completions/fiddler.fish

PowerShell:
  PS> fiddler completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> fiddler completion powershell > fiddler.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
