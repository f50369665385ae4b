package cli

import (
	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// newHostCommand creates the "host" command showing the target platform.
func newHostCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Show the target platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := g.formatter()
			if err != nil {
				return err
			}
			p, err := g.targetPlatform()
			if err != nil {
				return err
			}
			return f.Format(cmd.OutOrStdout(), result.Success(p.String(), map[string]any{
				"os":      p.OS,
				"machine": p.Machine,
				"bits":    p.Bits,
				"simd":    p.SIMD,
			}))
		},
	}
}
