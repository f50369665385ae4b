// Package configure runs configuration probes: tiny programs compiled and
// executed against the current environment to find out whether a compiler,
// header or library actually works on this host.
package configure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/runtime"
)

// Context carries the environment probes are built with, a scratch
// directory and the reporting writer. A Context is not safe for concurrent
// use.
type Context struct {
	env    *env.Environment
	runner *runtime.Runner
	logger *slog.Logger
	out    io.Writer
	cache  *Cache

	dir    string
	ownDir bool
	n      int
}

// Option configures a Context.
type Option func(*Context)

// WithDir uses dir as the scratch directory instead of a fresh temp dir.
// The directory is not removed by Close.
func WithDir(dir string) Option {
	return func(c *Context) { c.dir = dir }
}

// WithOutput sets where "Checking for ..." lines are written.
// Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Context) { c.out = w }
}

// WithCache enables probe result caching.
func WithCache(cache *Cache) Option {
	return func(c *Context) { c.cache = cache }
}

// WithLogger sets the logger for probe details.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRunner sets the runner used for compiling and executing probes.
func WithRunner(r *runtime.Runner) Option {
	return func(c *Context) { c.runner = r }
}

// New creates a configure context for e.
func New(e *env.Environment, opts ...Option) (*Context, error) {
	c := &Context{
		env:    e,
		logger: slog.Default(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = runtime.NewRunner(runtime.WithLogger(c.logger))
	}

	if c.dir == "" {
		dir, err := os.MkdirTemp("", "sitetools-conf-")
		if err != nil {
			return nil, fmt.Errorf("creating probe directory: %w", err)
		}
		c.dir = dir
		c.ownDir = true
	} else if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating probe directory: %w", err)
	}

	return c, nil
}

// Env returns the environment probes are built with.
func (c *Context) Env() *env.Environment {
	return c.env
}

// Close removes the scratch directory if the context created it.
func (c *Context) Close() error {
	if !c.ownDir {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// Message starts a check line, e.g. "Checking for foo... ".
func (c *Context) Message(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Result completes a check line with "yes" or "no".
func (c *Context) Result(ok bool) {
	if ok {
		_, _ = color.New(color.FgGreen).Fprintln(c.out, "yes")
		return
	}
	_, _ = color.New(color.FgRed).Fprintln(c.out, "no")
}

// TryRun compiles and links source (a file with extension ext) using the
// CONFTESTCOM template, then runs the program. It reports whether both
// steps succeeded, with their combined output.
func (c *Context) TryRun(ctx context.Context, source, ext string) (bool, string) {
	c.n++
	base := fmt.Sprintf("conftest_%d", c.n)
	srcPath := filepath.Join(c.dir, base+ext)
	progPath := filepath.Join(c.dir, base+c.env.String("PROGSUFFIX"))

	args := c.env.SubstArgs("$CONFTESTCOM", env.Overrides{
		"SOURCES": {srcPath}, "SOURCE": {srcPath},
		"TARGETS": {progPath}, "TARGET": {progPath},
	})
	if len(args) == 0 {
		return false, "CONFTESTCOM expands to an empty command"
	}

	compiler, _ := c.env.WhereIs(args[0])
	if compiler == "" {
		c.logger.Debug("probe compiler not found", "compiler", args[0])
		return false, fmt.Sprintf("compiler %q not found", args[0])
	}
	args[0] = compiler

	// Cache keys use stable file names so they survive a new scratch dir.
	keyArgs := c.env.SubstArgs("$CONFTESTCOM", env.Overrides{
		"SOURCES": {"conftest" + ext}, "SOURCE": {"conftest" + ext},
		"TARGETS": {"conftest"}, "TARGET": {"conftest"},
	})
	key := Key(append([]string{compiler}, keyArgs[1:]...), source)
	if c.cache != nil {
		if entry, ok := c.cache.Lookup(key, compiler); ok {
			c.logger.Debug("probe cache hit", "key", key[:12], "ok", entry.OK)
			return entry.OK, entry.Output
		}
	}

	ok, output := c.compileAndRun(ctx, srcPath, progPath, source, args)
	if c.cache != nil {
		c.cache.Store(key, compiler, ok, output)
	}
	return ok, output
}

func (c *Context) compileAndRun(ctx context.Context, srcPath, progPath, source string, args []string) (bool, string) {
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		return false, fmt.Sprintf("writing %s: %v", srcPath, err)
	}

	var sb strings.Builder
	built, err := c.runner.Run(ctx, args)
	sb.WriteString(built.Combined)
	if err != nil {
		c.logger.Debug("probe failed to build", "source", srcPath, "error", err)
		return false, sb.String()
	}

	ran, err := c.runner.Run(ctx, []string{progPath})
	sb.WriteString(ran.Combined)
	if err != nil {
		c.logger.Debug("probe program failed", "program", progPath, "error", err)
		return false, sb.String()
	}
	return true, sb.String()
}
