package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/agner"
	"github.com/whiskeyjimb/sitetools/internal/configure"
	"github.com/whiskeyjimb/sitetools/internal/ctxlog"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/host"
	"github.com/whiskeyjimb/sitetools/internal/result"
	"github.com/whiskeyjimb/sitetools/internal/tool"
	"github.com/whiskeyjimb/sitetools/internal/variables"
)

// newConfigureCommand creates the "configure" command.
//
// Usage:
//
//	sitetools configure veclibdir=/opt/vectorclass --tool cilk --tool agner
//	sitetools configure --asmlibdir ../asmlib --check asmlib
func newConfigureCommand(g *globals) *cobra.Command {
	var (
		toolFlags []string
		checks    []string
	)
	decls := declaredVariables()

	cmd := &cobra.Command{
		Use:   "configure [key=value...]",
		Short: "Build an environment from tools and variables and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, rest := variables.ParseArgs(args)
			if len(rest) > 0 {
				return fmt.Errorf("unexpected arguments: %s (want key=value)", strings.Join(rest, " "))
			}
			values = mergeValues(values, variableValuesFromFlags(cmd, decls))

			f, err := g.formatter()
			if err != nil {
				return err
			}

			e, reports, err := g.buildEnv(cmd, values, g.toolNames(toolFlags))
			if err != nil {
				return err
			}

			if len(checks) > 0 {
				results, err := g.probeAll(cmd, e, checks)
				if err != nil {
					return err
				}
				for _, res := range results {
					if res.IsFailure() {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", res.Message)
					}
				}
			}

			data := e.Dump()
			data["_tools"] = reportSummary(reports)
			return f.Format(cmd.OutOrStdout(), result.Success("configured", data))
		},
	}

	addToolFlag(cmd, &toolFlags, g)
	cmd.Flags().StringSliceVar(&checks, "check", nil, "Probe a library after configuring: "+strings.Join(agner.Libraries(), ", "))
	_ = cmd.RegisterFlagCompletionFunc("check", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return agner.Libraries(), cobra.ShellCompDirectiveNoFileComp
	})
	addVariableFlags(cmd, decls)

	return cmd
}

// probeAll runs the library probes against e in one configure context.
// Probe lines go to stderr so that stdout carries only formatted output.
// In strict mode the first failed probe is returned as an error.
func (g *globals) probeAll(cmd *cobra.Command, e *env.Environment, libs []string) ([]result.Result, error) {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	opts := []configure.Option{
		configure.WithOutput(cmd.ErrOrStderr()),
		configure.WithLogger(logger),
	}
	var cache *configure.Cache
	if g.cfg.ProbeCache {
		cache = configure.LoadCache(configure.DefaultCachePath())
		opts = append(opts, configure.WithCache(cache))
	}

	c, err := configure.New(e, opts...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	results := make([]result.Result, 0, len(libs))
	for _, lib := range libs {
		res := agner.Probe(ctx, c, lib)
		results = append(results, res)
		if g.strict && res.IsFailure() {
			return results, fmt.Errorf("probe %s: %w", lib, res.Escalate().Err())
		}
	}

	if cache != nil {
		if err := cache.Save(configure.DefaultCachePath()); err != nil {
			logger.Debug("saving probe cache", "error", err)
		}
	}
	return results, nil
}

// declaredVariables returns the build variable declarations used for flag
// help, with defaults for this host.
func declaredVariables() []variables.Variable {
	vars := variables.New(nil)
	agner.RegisterOptions(vars, host.Detect())
	return vars.Declared()
}

// reportSummary maps each applied tool to its status.
func reportSummary(reports []tool.Report) map[string]any {
	out := make(map[string]any, len(reports))
	for _, r := range reports {
		out[r.Tool] = string(r.Result.Status)
	}
	return out
}
