// Package agner wires Agner Fog's vectorclass and asmlib libraries into a
// build environment: option declarations, include and library paths, the
// platform-specific asmlib link name, and probes that check the libraries
// actually work.
package agner

import (
	"fmt"
	"io"
	"os"

	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/host"
	"github.com/whiskeyjimb/sitetools/internal/result"
	"github.com/whiskeyjimb/sitetools/internal/variables"
)

// Variable names declared by RegisterOptions.
const (
	VecLibDir = "veclibdir"
	AsmLibDir = "asmlibdir"
)

// DefaultDirs returns the default vectorclass and asmlib directories,
// siblings of the working directory.
func DefaultDirs(p host.Platform) (vec, asm string) {
	if p.IsWindows() {
		return `..\vectorclass`, `..\asmlib`
	}
	return "../vectorclass", "../asmlib"
}

// RegisterOptions declares veclibdir and asmlibdir on vars.
func RegisterOptions(vars *variables.Variables, p host.Platform) {
	vec, asm := DefaultDirs(p)
	vars.AddVariables(
		variables.Variable{Key: VecLibDir, Help: "Path to Agner Fog's vector library", Default: vec},
		variables.Variable{Key: AsmLibDir, Help: "Path to Agner Fog's assembler library", Default: asm},
	)
}

// LinkName returns the asmlib library to link on p.
func LinkName(p host.Platform) (string, bool) {
	type key struct {
		os   string
		bits int
	}
	names := map[key]string{
		{host.Darwin, 64}:  "amac64",
		{host.Darwin, 32}:  "amac32",
		{host.Windows, 64}: "libacof64",
		{host.Windows, 32}: "libacof32",
		{host.Linux, 64}:   "aelf64",
		{host.Linux, 32}:   "aelf32",
	}
	name, ok := names[key{p.OS, p.Bits}]
	return name, ok
}

// Options tune ConfigureEnvironment.
type Options struct {
	// RequireAsmDir only adds the link name when asmlibdir exists.
	RequireAsmDir bool

	// Warn receives warnings. Defaults to os.Stderr.
	Warn io.Writer
}

// ConfigureEnvironment returns a copy of e with the library directories
// named by the veclibdir and asmlibdir variables added when they exist,
// and the asmlib link name appended to LIBS. An unsupported platform is
// reported as a failure with a warning; it never aborts configuration.
func ConfigureEnvironment(e *env.Environment, opts Options) (*env.Environment, result.Result) {
	warn := opts.Warn
	if warn == nil {
		warn = os.Stderr
	}

	out := e.Clone()
	asmDir := out.String(AsmLibDir)
	vecDir := out.String(VecLibDir)
	data := map[string]any{}

	asmFound := exists(asmDir)
	if asmFound {
		out.Append("CPPPATH", asmDir)
		out.Append("LIBPATH", asmDir)
		data[AsmLibDir] = asmDir
	}
	if exists(vecDir) {
		out.Append("CPPPATH", vecDir)
		data[VecLibDir] = vecDir
	}

	if opts.RequireAsmDir && !asmFound {
		return out, result.Success("asmlib directory not found, not linking asmlib", data)
	}

	name, ok := LinkName(out.Platform)
	if !ok {
		msg := fmt.Sprintf("FIXME: pick a library to link me with on %s %dbit %s",
			out.Platform.OS, out.Platform.Bits, out.Platform.Machine)
		_, _ = fmt.Fprintf(warn, "Warning: %s\n", msg)
		return out, result.Failure(msg, data)
	}
	out.Append("LIBS", name)
	data["lib"] = name

	return out, result.Success("linking "+name, data)
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
