package cli

import (
	"github.com/spf13/cobra"
)

// platformCompletions are the targets the bundled tools know how to link
// for. Any os/machine[/bits] is accepted by --platform.
var platformCompletions = []string{
	"linux/x86_64\t64-bit Linux (aelf64)",
	"linux/i386\t32-bit Linux (aelf32)",
	"darwin/x86_64\t64-bit macOS (amac64)",
	"darwin/i386\t32-bit macOS (amac32)",
	"windows/x86_64\t64-bit Windows (libacof64)",
	"windows/i386\t32-bit Windows (libacof32)",
}

// newCompletionCommand creates the "completion" command. Besides command
// names the generated scripts complete tool names for --tool, library
// names for probe and --check, and known targets for --platform.
func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for sitetools and write it to stdout.

Bash:
  $ source <(sitetools completion bash)

Zsh:
  $ sitetools completion zsh > "${fpath[1]}/_sitetools"

Fish:
  $ sitetools completion fish > ~/.config/fish/completions/sitetools.fish

PowerShell:
  PS> sitetools completion powershell | Out-String | Invoke-Expression

Once loaded, "sitetools configure --tool <TAB>" lists cilk, brook and agner,
"sitetools probe <TAB>" lists the Agner libraries and
"sitetools plan --platform <TAB>" lists the targets with a known asmlib.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}

	return cmd
}

// registerFlagCompletions registers value completion for the persistent
// flags with a fixed set of values.
func registerFlagCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"output": {
			"table\tHuman-readable table (default)",
			"json\tJSON output for scripting",
			"yaml\tYAML output",
		},
		"log-level":  {"debug", "info", "warn", "error"},
		"log-format": {"text", "json"},
		"platform":   platformCompletions,
	}
	for name, values := range fixed {
		_ = cmd.RegisterFlagCompletionFunc(name, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		})
	}
}
