package agner

import (
	"context"
	_ "embed"
	"sort"

	"github.com/samber/lo"
	"github.com/whiskeyjimb/sitetools/internal/configure"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// Library names accepted by Check.
const (
	VectorClass = "vectorclass"
	AsmLib      = "asmlib"
)

var (
	//go:embed probes/vectorclass.cpp
	vectorclassProbe string

	//go:embed probes/asmlib.cpp
	asmlibProbe string
)

var probes = map[string]string{
	VectorClass: vectorclassProbe,
	AsmLib:      asmlibProbe,
}

// Libraries returns the names Check knows how to probe, sorted.
func Libraries() []string {
	names := lo.Keys(probes)
	sort.Strings(names)
	return names
}

// Check compiles and runs a small program against library which and
// reports whether it worked. Unknown names are a negative answer without
// compiling anything.
func Check(ctx context.Context, c *configure.Context, which string) bool {
	return Probe(ctx, c, which).IsSuccess()
}

// Probe is Check with the probe output kept in the result. A library that
// does not work is a failure, never a fatal error.
func Probe(ctx context.Context, c *configure.Context, which string) result.Result {
	c.Message("Checking for Agner Fog's %s library ", which)

	source, ok := probes[which]
	if !ok {
		c.Result(false)
		return result.Failuref("unknown library %q", which)
	}

	passed, output := c.TryRun(ctx, source, ".cpp")
	c.Result(passed)

	data := map[string]any{"library": which, "output": output}
	if !passed {
		return result.Failure(which+" probe failed", data)
	}
	return result.Success(which+" is usable", data)
}
