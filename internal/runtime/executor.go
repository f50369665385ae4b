// Package runtime runs the external tools that generated commands name:
// compilers, code generators and probe programs.
package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes commands and captures their output.
type Runner struct {
	verbose bool
	logger  *slog.Logger
	dir     string
	env     []string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithVerbose logs every command line and its output at info level instead
// of debug.
func WithVerbose(verbose bool) RunnerOption {
	return func(r *Runner) {
		r.verbose = verbose
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDir sets the working directory for commands.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited process environment.
func WithEnv(kv ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, kv...)
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Output is the captured result of a command.
type Output struct {
	Args     []string      `json:"args"`
	Combined string        `json:"output"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Args[0], e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Run executes args[0] with the remaining arguments. A non-zero exit is
// returned as *ExitError along with the captured Output.
func (r *Runner) Run(ctx context.Context, args []string) (Output, error) {
	if len(args) == 0 {
		return Output{}, errors.New("empty command")
	}

	level := slog.LevelDebug
	if r.verbose {
		level = slog.LevelInfo
	}
	r.logger.Log(ctx, level, "running command", "args", args, "dir", r.dir)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	err := cmd.Run()
	out := Output{
		Args:     append([]string(nil), args...),
		Combined: buf.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			r.logger.Log(ctx, level, "command failed", "args", args, "exit_code", out.ExitCode, "output", out.Combined)
			return out, &ExitError{Args: out.Args, ExitCode: out.ExitCode, Output: out.Combined}
		}
		out.ExitCode = -1
		return out, fmt.Errorf("running %s: %w", args[0], err)
	}

	r.logger.Log(ctx, level, "command finished", "args", args, "duration", out.Duration)
	return out, nil
}
