package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// registerAliases adds a top-level command for every configured alias.
// An alias expands to its target words followed by the arguments it was
// given, so with
//
//	aliases:
//	  vec: probe vectorclass asmlib
//	  win32: plan --platform windows/i386
//
// "sitetools win32 main.cilk" runs "sitetools plan --platform windows/i386
// main.cilk". Aliases that would hide a built-in command, or whose target
// starts with an alias, are skipped with a warning on warn.
func registerAliases(root *cobra.Command, aliases map[string]string, warn io.Writer) {
	builtin := lo.Map(root.Commands(), func(c *cobra.Command, _ int) string { return c.Name() })

	names := lo.Keys(aliases)
	sort.Strings(names)

	for _, name := range names {
		target := strings.Fields(aliases[name])
		switch {
		case len(target) == 0:
			_, _ = fmt.Fprintf(warn, "Warning: alias %q has an empty target, skipping\n", name)
			continue
		case lo.Contains(builtin, name):
			_, _ = fmt.Fprintf(warn, "Warning: alias %q would hide the %s command, skipping\n", name, name)
			continue
		case lo.HasKey(aliases, target[0]):
			_, _ = fmt.Fprintf(warn, "Warning: alias %q expands to alias %q, skipping\n", name, target[0])
			continue
		}

		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Alias for: %s", strings.Join(target, " ")),
			// Flags belong to the target command.
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				root.SetArgs(append(append([]string{}, target...), args...))
				return root.Execute()
			},
		})
	}
}
