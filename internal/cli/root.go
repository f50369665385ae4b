// Package cli implements the command-line interface for sitetools.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/whiskeyjimb/sitetools/internal/agner"
	"github.com/whiskeyjimb/sitetools/internal/config"
	"github.com/whiskeyjimb/sitetools/internal/ctxlog"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/host"
	"github.com/whiskeyjimb/sitetools/internal/meta"
	"github.com/whiskeyjimb/sitetools/internal/output"
	"github.com/whiskeyjimb/sitetools/internal/tool"
	"github.com/whiskeyjimb/sitetools/internal/tools/brook"
	"github.com/whiskeyjimb/sitetools/internal/tools/cilk"
	"github.com/whiskeyjimb/sitetools/internal/variables"
)

// globals holds the persistent flag values shared by every command.
type globals struct {
	cfg *config.Config

	output     string
	verbose    bool
	quiet      bool
	logLevel   string
	logFormat  string
	platform   string
	strict     bool
	configPath string
}

// NewRootCommand creates the top-level CLI command.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	g := &globals{cfg: cfg}

	root := &cobra.Command{
		Use:   meta.AppName,
		Short: "Configure compilers and libraries for native builds",
		Long: `sitetools configures build environments for native code: it locates
compilers such as Cilk++ and Brook+, wires Agner Fog's vectorclass and
asmlib libraries into include and link paths, probes that those libraries
actually work, and prints or runs the resulting build commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flags with defaults from config
	pf := root.PersistentFlags()
	pf.StringVar(&g.output, "output", cfg.Output, "Output format: table, json, yaml")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging (debug level)")
	pf.BoolVar(&g.quiet, "quiet", cfg.Quiet, "Suppress output; exit code indicates result")
	pf.StringVar(&g.logLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", cfg.LogFormat, "Log format: text, json")
	pf.StringVar(&g.platform, "platform", cfg.Platform, "Target platform as os/machine[/bits] (default: this host)")
	pf.BoolVar(&g.strict, "strict", cfg.Strict, "Treat tool and probe failures as errors")
	pf.StringVar(&g.configPath, "config", config.DefaultConfigPath(), "Config file path")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// When quiet mode is enabled, override output format
		if g.quiet {
			g.output = "quiet"
		}
		if g.verbose {
			g.logLevel = "debug"
		}

		logger := newLogger(g.logLevel, g.logFormat, cmd.ErrOrStderr())
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	}

	// Static commands
	root.AddCommand(newCompletionCommand())
	root.AddCommand(newVersionCommand())

	// Build commands
	root.AddCommand(newToolsCommand(g))
	root.AddCommand(newConfigureCommand(g))
	root.AddCommand(newProbeCommand(g))
	root.AddCommand(newLocateCommand(g))
	root.AddCommand(newPlanCommand(g))
	root.AddCommand(newOptionsCommand(g))
	root.AddCommand(newHostCommand(g))

	// Register flag completions
	registerFlagCompletions(root)

	// Register aliases from config
	if len(cfg.Aliases) > 0 {
		registerAliases(root, cfg.Aliases, root.ErrOrStderr())
	}

	return root
}

func (g *globals) formatter() (output.Formatter, error) {
	return output.NewFormatter(g.output)
}

// targetPlatform returns the --platform override or the detected host.
func (g *globals) targetPlatform() (host.Platform, error) {
	if g.platform == "" {
		return host.Detect(), nil
	}
	return host.ParsePlatform(g.platform)
}

// variables declares every build variable and primes it with config and
// command-line values.
func (g *globals) variables(p host.Platform, values map[string]string) *variables.Variables {
	vars := variables.New(g.cfg.Variables)
	agner.RegisterOptions(vars, p)
	for k, v := range values {
		vars.Set(k, v)
	}
	return vars
}

// registry returns the tools known to the CLI.
func (g *globals) registry(warn io.Writer) *tool.Registry {
	return tool.NewRegistry(
		cilk.New(),
		brook.New(),
		agner.NewTool(agner.Options{RequireAsmDir: g.cfg.RequireAsmDir, Warn: warn}),
	)
}

// baseEnv returns a fresh environment for p with configured values applied.
func (g *globals) baseEnv(p host.Platform) *env.Environment {
	e := env.New(p)
	if g.cfg.BrookRoot != "" {
		e.Set(brook.RootVar, g.cfg.BrookRoot)
	}
	return e
}

// buildEnv runs the common configure pipeline: host environment, build
// variables, then the named tools in order. Tool failures are returned as
// errors in strict mode.
func (g *globals) buildEnv(cmd *cobra.Command, varArgs map[string]string, toolNames []string) (*env.Environment, []tool.Report, error) {
	logger := ctxlog.FromContext(cmd.Context())
	warn := cmd.ErrOrStderr()

	p, err := g.targetPlatform()
	if err != nil {
		return nil, nil, err
	}

	vars := g.variables(p, varArgs)
	for _, k := range vars.UnknownKeys() {
		_, _ = fmt.Fprintf(warn, "Warning: unknown variable %q\n", k)
	}

	e := vars.Update(g.baseEnv(p))
	logger.Debug("applying tools", "platform", p.String(), "tools", toolNames)

	e, reports, err := g.registry(warn).Apply(e, toolNames...)
	if err != nil {
		return nil, reports, err
	}

	for _, r := range reports {
		if !r.Result.IsFailure() {
			logger.Debug("tool applied", "tool", r.Tool, "message", r.Result.Message)
			continue
		}
		if g.strict {
			return nil, reports, fmt.Errorf("tool %s: %w", r.Tool, r.Result.Escalate().Err())
		}
		// Tools print their own warnings.
		logger.Debug("tool reported a failure", "tool", r.Tool, "reason", r.Result.Message)
	}
	return e, reports, nil
}

// toolNames returns the --tool values, or the configured default list.
func (g *globals) toolNames(flagValues []string) []string {
	if len(flagValues) > 0 {
		return flagValues
	}
	return g.cfg.Tools
}
