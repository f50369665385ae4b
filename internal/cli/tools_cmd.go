package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/tool"
)

// newToolsCommand creates the "tools" command listing registered tools and
// whether each can be used on the target platform.
func newToolsCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available build tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.targetPlatform()
			if err != nil {
				return err
			}
			f, err := g.formatter()
			if err != nil {
				return err
			}

			e := g.variables(p, nil).Update(g.baseEnv(p))
			rows := lo.Map(g.registry(cmd.ErrOrStderr()).List(), func(t tool.Tool, _ int) map[string]any {
				return map[string]any{
					"name":        t.Name(),
					"description": t.Description(),
					"available":   t.Exists(e),
				}
			})
			return f.FormatList(cmd.OutOrStdout(), []string{"name", "available", "description"}, rows)
		},
	}
}
