package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/ctxlog"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/output"
	"github.com/whiskeyjimb/sitetools/internal/runtime"
	"golang.org/x/sync/errgroup"
)

// newPlanCommand creates the "plan" command.
//
// Usage:
//
//	sitetools plan --tool cilk src/solver.cilk
//	sitetools plan --tool brook --builder BrCC kernels/sum.br --exec -j 4
func newPlanCommand(g *globals) *cobra.Command {
	var (
		toolFlags []string
		builder   string
		execute   bool
		jobs      int
	)
	decls := declaredVariables()

	cmd := &cobra.Command{
		Use:   "plan <source>...",
		Short: "Print (or run) the commands tools would generate for sources",
		Long: `Plan applies the selected tools and expands the build commands for the
given sources. Without --builder each source is compiled to an object
file using the action registered for its suffix (e.g. .cilk). With
--builder the named builder (e.g. BrCC) is used instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, sources := splitPlanArgs(args)
			if len(sources) == 0 {
				return fmt.Errorf("no sources given")
			}
			values = mergeValues(values, variableValuesFromFlags(cmd, decls))

			f, err := g.formatter()
			if err != nil {
				return err
			}

			e, _, err := g.buildEnv(cmd, values, g.toolNames(toolFlags))
			if err != nil {
				return err
			}

			var steps []env.Step
			if builder == "" {
				steps, err = e.PlanObjects(sources...)
			} else {
				steps, err = e.Plan(builder, sources...)
			}
			if err != nil {
				return err
			}

			if err := output.FormatSteps(f, cmd.OutOrStdout(), steps); err != nil {
				return err
			}
			if !execute {
				return nil
			}
			return runSteps(cmd.Context(), steps, jobs, g.verbose)
		},
	}

	addToolFlag(cmd, &toolFlags, g)
	cmd.Flags().StringVarP(&builder, "builder", "b", "", "Builder to plan with (default: object builder)")
	cmd.Flags().BoolVar(&execute, "exec", false, "Run the planned commands")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Number of commands to run in parallel with --exec")
	addVariableFlags(cmd, decls)

	return cmd
}

// splitPlanArgs separates key=value assignments from source paths.
func splitPlanArgs(args []string) (map[string]string, []string) {
	values := make(map[string]string)
	var sources []string
	for _, a := range args {
		key, val, ok := strings.Cut(a, "=")
		if ok && key != "" && !strings.ContainsAny(key, `/\.`) {
			values[key] = val
			continue
		}
		sources = append(sources, a)
	}
	return values, sources
}

// runSteps runs steps with at most jobs in flight. The first failure
// cancels the remaining steps.
func runSteps(ctx context.Context, steps []env.Step, jobs int, verbose bool) error {
	logger := ctxlog.FromContext(ctx)
	runner := runtime.NewRunner(runtime.WithLogger(logger), runtime.WithVerbose(verbose))

	if jobs < 1 {
		jobs = 1
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for _, s := range steps {
		eg.Go(func() error {
			if _, err := runner.Run(ctx, s.Args); err != nil {
				return fmt.Errorf("building %s: %w", strings.Join(s.Targets, " "), err)
			}
			logger.Info("built", "targets", s.Targets)
			return nil
		})
	}
	return eg.Wait()
}
