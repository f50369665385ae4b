package agner

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/host"
	"github.com/whiskeyjimb/sitetools/internal/variables"
)

func TestLinkName(t *testing.T) {
	tests := []struct {
		platform host.Platform
		want     string
		ok       bool
	}{
		{host.Platform{OS: "darwin", Machine: "x86_64", Bits: 64}, "amac64", true},
		{host.Platform{OS: "darwin", Machine: "i386", Bits: 32}, "amac32", true},
		{host.Platform{OS: "windows", Machine: "x86_64", Bits: 64}, "libacof64", true},
		{host.Platform{OS: "windows", Machine: "i386", Bits: 32}, "libacof32", true},
		{host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}, "aelf64", true},
		{host.Platform{OS: "linux", Machine: "i386", Bits: 32}, "aelf32", true},
		{host.Platform{OS: "freebsd", Machine: "x86_64", Bits: 64}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.platform.String(), func(t *testing.T) {
			got, ok := LinkName(tt.platform)
			if got != tt.want || ok != tt.ok {
				t.Errorf("LinkName = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRegisterOptions(t *testing.T) {
	tests := []struct {
		platform host.Platform
		vec, asm string
	}{
		{host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}, "../vectorclass", "../asmlib"},
		{host.Platform{OS: "windows", Machine: "x86_64", Bits: 64}, `..\vectorclass`, `..\asmlib`},
	}
	for _, tt := range tests {
		t.Run(tt.platform.OS, func(t *testing.T) {
			vars := variables.New(nil)
			RegisterOptions(vars, tt.platform)

			want := []variables.Variable{
				{Key: "veclibdir", Help: "Path to Agner Fog's vector library", Default: tt.vec},
				{Key: "asmlibdir", Help: "Path to Agner Fog's assembler library", Default: tt.asm},
			}
			if diff := cmp.Diff(want, vars.Declared()); diff != "" {
				t.Errorf("declarations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func configured(t *testing.T, p host.Platform, vec, asm string, opts Options) (*env.Environment, *bytes.Buffer, bool, bool) {
	t.Helper()
	var warn bytes.Buffer
	opts.Warn = &warn

	e := env.New(p)
	e.Set(VecLibDir, vec)
	e.Set(AsmLibDir, asm)
	out, res := ConfigureEnvironment(e, opts)
	if res.IsError() {
		t.Fatalf("configure must never be fatal: %+v", res)
	}
	if e.Has("LIBS") && len(e.List("LIBS")) != 0 {
		t.Fatal("input environment was modified")
	}
	return out, &warn, res.IsSuccess(), res.IsFailure()
}

func TestConfigureEnvironment_BothDirs(t *testing.T) {
	vec, asm := t.TempDir(), t.TempDir()
	out, _, ok, _ := configured(t, host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}, vec, asm, Options{})
	if !ok {
		t.Fatal("expected success")
	}
	if diff := cmp.Diff([]string{asm, vec}, out.List("CPPPATH")); diff != "" {
		t.Errorf("CPPPATH mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{asm}, out.List("LIBPATH")); diff != "" {
		t.Errorf("LIBPATH mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"aelf64"}, out.List("LIBS")); diff != "" {
		t.Errorf("LIBS mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureEnvironment_VecOnlyStillLinks(t *testing.T) {
	vec := t.TempDir()
	missing := filepath.Join(t.TempDir(), "asmlib")

	tests := []struct {
		platform host.Platform
		lib      string
	}{
		{host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}, "aelf64"},
		{host.Platform{OS: "darwin", Machine: "x86_64", Bits: 64}, "amac64"},
		{host.Platform{OS: "windows", Machine: "i386", Bits: 32}, "libacof32"},
	}
	for _, tt := range tests {
		t.Run(tt.platform.OS, func(t *testing.T) {
			out, _, ok, _ := configured(t, tt.platform, vec, missing, Options{})
			if !ok {
				t.Fatal("expected success")
			}
			if diff := cmp.Diff([]string{vec}, out.List("CPPPATH")); diff != "" {
				t.Errorf("CPPPATH mismatch (-want +got):\n%s", diff)
			}
			if len(out.List("LIBPATH")) != 0 {
				t.Errorf("LIBPATH should be untouched, got %v", out.List("LIBPATH"))
			}
			if diff := cmp.Diff([]string{tt.lib}, out.List("LIBS")); diff != "" {
				t.Errorf("LIBS mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigureEnvironment_RequireAsmDir(t *testing.T) {
	vec := t.TempDir()
	missing := filepath.Join(t.TempDir(), "asmlib")

	out, _, ok, _ := configured(t, host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}, vec, missing, Options{RequireAsmDir: true})
	if !ok {
		t.Fatal("expected success")
	}
	if len(out.List("LIBS")) != 0 {
		t.Errorf("expected no link name without asmlib dir, got %v", out.List("LIBS"))
	}

	asm := t.TempDir()
	out, _, _, _ = configured(t, host.Platform{OS: "linux", Machine: "x86_64", Bits: 64}, vec, asm, Options{RequireAsmDir: true})
	if diff := cmp.Diff([]string{"aelf64"}, out.List("LIBS")); diff != "" {
		t.Errorf("LIBS mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureEnvironment_NoDirs(t *testing.T) {
	root := t.TempDir()
	out, _, ok, _ := configured(t, host.Platform{OS: "linux", Machine: "i386", Bits: 32},
		filepath.Join(root, "v"), filepath.Join(root, "a"), Options{})
	if !ok {
		t.Fatal("expected success")
	}
	if len(out.List("CPPPATH")) != 0 || len(out.List("LIBPATH")) != 0 {
		t.Error("no paths should be added")
	}
	if diff := cmp.Diff([]string{"aelf32"}, out.List("LIBS")); diff != "" {
		t.Errorf("LIBS mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureEnvironment_UnsupportedPlatform(t *testing.T) {
	asm := t.TempDir()
	p := host.Platform{OS: "freebsd", Machine: "amd64", Bits: 64}
	out, warn, ok, failed := configured(t, p, "", asm, Options{})
	if ok || !failed {
		t.Fatal("expected a non-fatal failure")
	}
	if len(out.List("LIBS")) != 0 {
		t.Errorf("no library should be added, got %v", out.List("LIBS"))
	}
	if diff := cmp.Diff([]string{asm}, out.List("LIBPATH")); diff != "" {
		t.Errorf("paths should still be added (-want +got):\n%s", diff)
	}
	want := "FIXME: pick a library to link me with on freebsd 64bit amd64"
	if !strings.Contains(warn.String(), want) {
		t.Errorf("warning %q does not contain %q", warn.String(), want)
	}
}

func TestTool_Defaults(t *testing.T) {
	e := env.New(host.Platform{OS: "linux", Machine: "x86_64", Bits: 64})
	tool := NewTool(Options{Warn: &bytes.Buffer{}})

	out, res := tool.Generate(e)
	if !res.IsSuccess() {
		t.Fatalf("expected success, got %+v", res)
	}
	if out.String(VecLibDir) != "../vectorclass" || out.String(AsmLibDir) != "../asmlib" {
		t.Errorf("defaults not applied: %q %q", out.String(VecLibDir), out.String(AsmLibDir))
	}
	if e.Has(VecLibDir) {
		t.Error("input environment was modified")
	}

	vec := t.TempDir()
	e.Set(VecLibDir, vec)
	e.Set(AsmLibDir, filepath.Join(vec, "none"))
	if !tool.Exists(e) {
		t.Error("expected Exists with an existing vectorclass dir")
	}
}
