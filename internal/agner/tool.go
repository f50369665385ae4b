package agner

import (
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// Tool exposes ConfigureEnvironment as a build tool. Directory variables
// missing from the environment take their defaults.
type Tool struct {
	Options Options
}

// NewTool returns the agner tool.
func NewTool(opts Options) *Tool { return &Tool{Options: opts} }

// Name returns "agner".
func (*Tool) Name() string { return "agner" }

// Description is the one-line summary shown by "sitetools tools".
func (*Tool) Description() string { return "Agner Fog's vectorclass and asmlib libraries" }

// Exists reports whether either library directory is present.
func (*Tool) Exists(e *env.Environment) bool {
	e = withDefaults(e)
	return exists(e.String(VecLibDir)) || exists(e.String(AsmLibDir))
}

// Generate fills in the default library directories for any that are unset,
// then runs ConfigureEnvironment.
func (t *Tool) Generate(e *env.Environment) (*env.Environment, result.Result) {
	return ConfigureEnvironment(withDefaults(e), t.Options)
}

func withDefaults(e *env.Environment) *env.Environment {
	if e.Has(VecLibDir) && e.Has(AsmLibDir) {
		return e
	}
	out := e.Clone()
	vec, asm := DefaultDirs(e.Platform)
	if !out.Has(VecLibDir) {
		out.Set(VecLibDir, vec)
	}
	if !out.Has(AsmLibDir) {
		out.Set(AsmLibDir, asm)
	}
	return out
}
