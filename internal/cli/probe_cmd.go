package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/agner"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// newProbeCommand creates the "probe" command, which configures the agner
// libraries and checks that each named library compiles, links and runs.
func newProbeCommand(g *globals) *cobra.Command {
	decls := declaredVariables()

	cmd := &cobra.Command{
		Use:       "probe <library>...",
		Short:     "Check that Agner Fog's libraries work with the configured compiler",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: agner.Libraries(),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := g.formatter()
			if err != nil {
				return err
			}

			e, _, err := g.buildEnv(cmd, variableValuesFromFlags(cmd, decls), []string{"agner"})
			if err != nil {
				return err
			}

			results, err := g.probeAll(cmd, e, args)
			if err != nil {
				return err
			}

			rows := lo.Map(results, func(r result.Result, i int) map[string]any {
				return map[string]any{
					"library": args[i],
					"found":   r.IsSuccess(),
					"status":  string(r.Status),
				}
			})
			if err := f.FormatList(cmd.OutOrStdout(), []string{"library", "found", "status"}, rows); err != nil {
				return err
			}

			missing := lo.Filter(rows, func(row map[string]any, _ int) bool { return row["found"] == false })
			if len(missing) > 0 {
				return fmt.Errorf("%d of %d libraries not usable", len(missing), len(rows))
			}
			return nil
		},
	}

	addVariableFlags(cmd, decls)
	return cmd
}
