package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/result"
	"github.com/whiskeyjimb/sitetools/internal/tools/brook"
)

// newLocateCommand creates the "locate" command, which resolves a command
// the way the brook tool resolves brcc: install root first, then the
// search path, for each executable suffix.
func newLocateCommand(g *globals) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "locate <command>",
		Short: "Locate an executable under an install root or on PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := g.formatter()
			if err != nil {
				return err
			}
			p, err := g.targetPlatform()
			if err != nil {
				return err
			}

			path, err := brook.LocateCommand(g.baseEnv(p), args[0], root)
			if err != nil {
				var nf *brook.NotFoundError
				if errors.As(err, &nf) {
					_ = f.Format(cmd.OutOrStdout(), result.Fatal("not_found", err))
				}
				return err
			}

			return f.Format(cmd.OutOrStdout(), result.Success("found", map[string]any{
				"command": args[0],
				"path":    path,
			}))
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Install root searched before PATH")
	return cmd
}
