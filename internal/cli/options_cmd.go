package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/variables"
)

// newOptionsCommand creates the "options" command printing the build
// variables with their defaults and current values.
func newOptionsCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "options [key=value...]",
		Short: "Show build variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.targetPlatform()
			if err != nil {
				return err
			}
			values, _ := variables.ParseArgs(args)
			_, err = fmt.Fprint(cmd.OutOrStdout(), g.variables(p, values).HelpText())
			return err
		},
	}
}
