// Package brook adds the Brook+ stream compiler (brcc) to an environment.
// brcc translates .br kernels into C++ sources.
package brook

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// RootVar names both the environment variable and the process variable
// holding the SDK install root.
const RootVar = "BROOKROOT"

// BuilderName is the name the .br builder is registered under.
const BuilderName = "BrCC"

// ErrNoRoot is returned when no install root is configured.
var ErrNoRoot = errors.New("BROOKROOT is not set")

// Tool is the brook build tool.
type Tool struct {
	// Getenv reads process variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// New returns the brook tool reading the process environment.
func New() *Tool { return &Tool{Getenv: os.Getenv} }

// Name returns "brook".
func (*Tool) Name() string { return "brook" }

// Description is the one-line summary shown by "sitetools tools".
func (*Tool) Description() string { return "Brook+ stream compiler (.br -> .cpp)" }

// Root returns the install root: a non-empty BROOKROOT in e, otherwise the
// process variable.
func (t *Tool) Root(e *env.Environment) string {
	if r := e.String(RootVar); r != "" {
		return r
	}
	getenv := t.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return getenv(RootVar)
}

// Exists reports whether an install root is configured.
func (t *Tool) Exists(e *env.Environment) bool {
	return t.Root(e) != ""
}

// Generate sets the SDK paths, locates brcc and registers the BrCC builder.
// A missing root or compiler is a fatal result.
func (t *Tool) Generate(e *env.Environment) (*env.Environment, result.Result) {
	root := t.Root(e)
	if root == "" {
		return nil, result.Fatal("config", ErrNoRoot)
	}

	bin := filepath.Join(root, "sdk", "bin")
	brcc, err := LocateCommand(e, "brcc", bin)
	if err != nil {
		return nil, result.Fatal("not_found", err)
	}

	out := e.Clone()
	out.Replace(map[string]string{
		RootVar:         root,
		"BINPATH":       bin,
		"BRCC":          brcc,
		"BRCCFLAGS":     "",
		"BROOK_CPPPATH": filepath.Join(root, "sdk", "include"),
		"BROOK_LIBPATH": filepath.Join(root, "sdk", "lib"),
	})
	out.AddBuilder(env.Builder{
		Name:         BuilderName,
		Action:       `"$BRCC" $BRCCFLAGS $SOURCES`,
		SrcSuffix:    ".br",
		Suffix:       ".cpp",
		SingleSource: true,
	})

	return out, result.Success("brook configured", map[string]any{
		"BRCC": brcc,
	})
}
