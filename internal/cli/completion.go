package cli

import (
	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/profile"
)

// newCompletionCmd creates the completion command.
func (cli *CLI) newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for your shell.

Besides commands and options, the script completes the connection names of
your configuration after --connection, the formats after --output and the
answers accepted by post --default-confirm.

Bash:
  $ source <(bugz completion bash)
  # or install it for every session:
  $ bugz completion bash > /etc/bash_completion.d/bugz

Zsh:
  $ bugz completion zsh > "${fpath[1]}/_bugz"
  # compinit has to be enabled in ~/.zshrc.

Fish:
  $ bugz completion fish > ~/.config/fish/completions/bugz.fish

PowerShell:
  PS> bugz completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(cli.out, true)
			case "zsh":
				return root.GenZshCompletion(cli.out)
			case "fish":
				return root.GenFishCompletion(cli.out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(cli.out)
			}
		},
	}
	return cmd
}

// registerCompletions adds value completion to the global flags.
func (cli *CLI) registerCompletions() {
	_ = cli.rootCmd.RegisterFlagCompletionFunc("connection", cli.completeConnections)
	_ = cli.rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
}

// completeConnections lists the connections of the configuration that
// --config-file, if already typed, selects. Configuration is not loaded
// for completion requests, so it is read here.
func (cli *CLI) completeConnections(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	chain, _, err := cli.ConfigPaths(cli.flags.configFile).LoadAll()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, c := range profile.Connections(chain) {
		names = append(names, c.Name+"\t"+c.Base)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
