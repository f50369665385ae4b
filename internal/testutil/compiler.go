// Package testutil provides fakes shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// FakeCompiler describes a shell script standing in for a C++ compiler.
type FakeCompiler struct {
	// Path is the script location, usable as CXX.
	Path string

	dir string
}

// NewFakeCompiler writes a compiler script into a temp dir. The script
// logs its arguments, exits with compileExit, and otherwise writes a
// program to the -o target that exits with runExit. Tests are skipped on
// Windows.
func NewFakeCompiler(t *testing.T, compileExit, runExit int) *FakeCompiler {
	t.Helper()
	return newFakeCompiler(t, "", compileExit, runExit)
}

// NewFakeCompilerNeeding is NewFakeCompiler, except that compiling fails
// with "<header>: no such file" while header does not exist, the way a
// real compiler fails on a missing include.
func NewFakeCompilerNeeding(t *testing.T, header string) *FakeCompiler {
	t.Helper()
	return newFakeCompiler(t, header, 0, 0)
}

func newFakeCompiler(t *testing.T, header string, compileExit, runExit int) *FakeCompiler {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler needs a POSIX shell")
	}

	dir := t.TempDir()
	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
if [ -n %q ] && [ ! -f %q ]; then
  echo "$(basename %q): no such file" >&2
  exit 1
fi
if [ %d -ne 0 ]; then
  echo "fake compile error" >&2
  exit %d
fi
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
  esac
  shift
done
printf '#!/bin/sh\necho probe ran\nexit %d\n' > "$out"
chmod +x "$out"
`, filepath.Join(dir, "calls.log"), header, header, header, compileExit, compileExit, runExit)

	path := filepath.Join(dir, "fakecc")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake compiler: %v", err)
	}
	return &FakeCompiler{Path: path, dir: dir}
}

// Calls returns the argument lines of every invocation so far.
func (f *FakeCompiler) Calls() []string {
	data, err := os.ReadFile(filepath.Join(f.dir, "calls.log"))
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// CallCount returns the number of invocations so far.
func (f *FakeCompiler) CallCount() int {
	return len(f.Calls())
}

// String implements fmt.Stringer for test failure messages.
func (f *FakeCompiler) String() string {
	return f.Path + " (" + strconv.Itoa(f.CallCount()) + " calls)"
}
