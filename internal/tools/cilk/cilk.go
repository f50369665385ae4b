// Package cilk adds the Cilk++ compiler to an environment: a static object
// action for .cilk sources and the CILKPP command variables.
package cilk

import (
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// Suffix is the source suffix handled by the object action.
const Suffix = ".cilk"

// Compilers are the executable names tried by Exists, in order.
var Compilers = []string{"cilkpp", "cilk++"}

const (
	unixCommand    = "$CILKPP $CILKFLAGS $CXXFLAGS $CCFLAGS $_CCCOMCOM $SOURCE -c -o $TARGET"
	windowsCommand = "$CILKPP $CILKFLAGS $CXXFLAGS $CCFLAGS $_CCCOMCOM $SOURCE /c /Fo$TARGET"
)

// Tool is the cilk build tool.
type Tool struct{}

// New returns the cilk tool.
func New() *Tool { return &Tool{} }

// Name returns "cilk".
func (*Tool) Name() string { return "cilk" }

// Description is the one-line summary shown by "sitetools tools".
func (*Tool) Description() string { return "Cilk++ compiler (.cilk -> object)" }

// Exists reports whether one of Compilers is on the search path.
func (*Tool) Exists(e *env.Environment) bool {
	_, ok := e.Detect(Compilers...)
	return ok
}

// Generate registers the .cilk object action. The compiler is not looked
// up here; a missing compiler only shows when the command runs.
func (*Tool) Generate(e *env.Environment) (*env.Environment, result.Result) {
	out := e.Clone()

	obj := out.ObjectBuilder()
	obj.AddAction(Suffix, "$CILKPPCOM")
	obj.AddEmitter(Suffix, env.StaticObjectEmitter)

	out.SetList("CILKFLAGS")
	if out.Platform.IsWindows() {
		out.Set("CILKPP", "cilkpp")
		out.Set("CILKPPCOM", windowsCommand)
	} else {
		out.Set("CILKPP", "cilk++")
		out.Set("CILKPPCOM", unixCommand)
	}

	return out, result.Success("cilk configured", map[string]any{
		"CILKPP": out.String("CILKPP"),
	})
}
