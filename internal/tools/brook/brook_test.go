package brook

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/host"
)

var linux64 = host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not meaningful on windows")
	}
}

func writeFile(t *testing.T, path string, mode os.FileMode) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

// newSDK lays out <root>/sdk/bin/brcc and returns root.
func newSDK(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sdk", "bin", "brcc"), 0o755)
	return root
}

func noEnv(string) string { return "" }

func TestLocate_InstallRoot(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	want := writeFile(t, filepath.Join(root, "brcc"), 0o755)

	e := env.New(linux64)
	e.ExecPath = nil
	got, err := LocateCommand(e, "brcc", root)
	if err != nil {
		t.Fatalf("LocateCommand: %v", err)
	}
	if got != want || !filepath.IsAbs(got) {
		t.Errorf("got %q, want absolute %q", got, want)
	}
}

func TestLocate_RelativeRootIsAbsolute(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "brcc"), 0o755)
	writeFile(t, filepath.Join(dir, "tools", "brcc"), 0o755)
	t.Chdir(dir)

	e := env.New(linux64)
	e.ExecPath = nil
	got, err := LocateCommand(e, "brcc", ".")
	if err != nil {
		t.Fatalf("LocateCommand: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "brcc" {
		t.Errorf("expected an absolute path to brcc, got %q", got)
	}

	e.ExecPath = []string{"tools"}
	got, err = LocateCommand(e, "brcc", filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("LocateCommand: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(filepath.Dir(got)) != "tools" {
		t.Errorf("expected an absolute search-path match, got %q", got)
	}
}

func TestLocate_ExeSuffix(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	want := writeFile(t, filepath.Join(root, "brcc.exe"), 0o755)

	e := env.New(linux64)
	e.ExecPath = nil
	got, err := LocateCommand(e, "brcc", root)
	if err != nil || got != want || !filepath.IsAbs(got) {
		t.Errorf("got %q (%v), want absolute %q", got, err, want)
	}
}

func TestLocate_SearchPathFallback(t *testing.T) {
	skipOnWindows(t)
	root := t.TempDir()
	// Present but not executable: must be skipped.
	writeFile(t, filepath.Join(root, "brcc"), 0o644)

	pathDir := t.TempDir()
	want := writeFile(t, filepath.Join(pathDir, "brcc"), 0o755)

	e := env.New(linux64)
	e.ExecPath = []string{pathDir}
	got, err := LocateCommand(e, "brcc", root)
	if err != nil || got != want {
		t.Errorf("got %q (%v), want %q", got, err, want)
	}
}

func TestLocate_NotFound(t *testing.T) {
	root := t.TempDir()
	pathDir := t.TempDir()

	e := env.New(linux64)
	e.ExecPath = []string{pathDir}
	_, err := LocateCommand(e, "brcc", root)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	want := []string{
		filepath.Join(root, "brcc"),
		filepath.Join(pathDir, "brcc"),
		filepath.Join(root, "brcc.exe"),
		filepath.Join(pathDir, "brcc.exe"),
	}
	if diff := cmp.Diff(want, nf.Tried); diff != "" {
		t.Errorf("tried mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(err.Error(), "Brook+ compiler 'brcc' not found. Tried: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
	for _, p := range want {
		if !strings.Contains(err.Error(), p) {
			t.Errorf("message does not name %s", p)
		}
	}
}

func TestLocate_StrategyOrder(t *testing.T) {
	var calls []string
	record := func(name string) Strategy {
		return Strategy{Name: name, Resolve: func(file string) (string, []string) {
			calls = append(calls, name+":"+file)
			return "", nil
		}}
	}
	_, _ = Locate("x", Suffixes, record("a"), record("b"))
	want := []string{"a:x", "b:x", "a:x.exe", "b:x.exe"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_FromProcessEnv(t *testing.T) {
	skipOnWindows(t)
	root := newSDK(t)
	t.Setenv(RootVar, root)

	base := env.New(linux64)
	base.ExecPath = nil
	out, res := New().Generate(base)
	if !res.IsSuccess() {
		t.Fatalf("expected success, got %+v", res)
	}

	want := map[string]string{
		"BROOKROOT":     root,
		"BINPATH":       filepath.Join(root, "sdk", "bin"),
		"BRCC":          filepath.Join(root, "sdk", "bin", "brcc"),
		"BRCCFLAGS":     "",
		"BROOK_CPPPATH": filepath.Join(root, "sdk", "include"),
		"BROOK_LIBPATH": filepath.Join(root, "sdk", "lib"),
	}
	for k, v := range want {
		if got := out.String(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if base.Has("BRCC") {
		t.Error("input environment was modified")
	}
}

func TestGenerate_EnvironmentRootWins(t *testing.T) {
	skipOnWindows(t)
	root := newSDK(t)

	base := env.New(linux64)
	base.Set(RootVar, root)
	tool := &Tool{Getenv: func(string) string { return "/elsewhere" }}
	if got := tool.Root(base); got != root {
		t.Errorf("Root = %q, want %q", got, root)
	}

	base.Set(RootVar, "")
	if got := tool.Root(base); got != "/elsewhere" {
		t.Errorf("empty BROOKROOT should fall back, got %q", got)
	}
}

func TestGenerate_Plan(t *testing.T) {
	skipOnWindows(t)
	root := newSDK(t)

	base := env.New(linux64)
	base.Set(RootVar, root)
	out, res := (&Tool{Getenv: noEnv}).Generate(base)
	if !res.IsSuccess() {
		t.Fatalf("Generate: %+v", res)
	}

	steps, err := out.Plan(BuilderName, "kernel.br", "other")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected one step per source, got %d", len(steps))
	}
	if steps[0].Targets[0] != "kernel.cpp" || steps[1].Targets[0] != "other.cpp" {
		t.Errorf("unexpected targets: %v %v", steps[0].Targets, steps[1].Targets)
	}
	brcc := filepath.Join(root, "sdk", "bin", "brcc")
	if diff := cmp.Diff([]string{brcc, "kernel.br"}, steps[0].Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Failures(t *testing.T) {
	tool := &Tool{Getenv: noEnv}
	base := env.New(linux64)

	if tool.Exists(base) {
		t.Error("expected Exists to be false without a root")
	}
	_, res := tool.Generate(base)
	if !res.IsError() || !errors.Is(res.Err(), ErrNoRoot) {
		t.Errorf("expected fatal ErrNoRoot, got %+v", res)
	}

	base.Set(RootVar, t.TempDir())
	base.ExecPath = nil
	_, res = tool.Generate(base)
	var nf *NotFoundError
	if !res.IsError() || !errors.As(res.Err(), &nf) {
		t.Errorf("expected fatal NotFoundError, got %+v", res)
	}
}
