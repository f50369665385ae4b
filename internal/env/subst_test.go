package env

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSubst(t *testing.T) {
	e := New(linux64)
	e.Set("CC", "gcc")
	e.SetList("CFLAGS", "-O2", "-Wall")
	e.Set("COM", "$CC $CFLAGS -c $SOURCE -o $TARGET")
	e.Set("LOOP", "$LOOP")
	e.Set("PRICE", "$$5")

	ov := Overrides{"SOURCE": {"a.c"}, "TARGET": {"a.o"}}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no vars", "no vars"},
		{"string var", "$CC", "gcc"},
		{"braced", "${CC}x", "gccx"},
		{"list var", "$CFLAGS", "-O2 -Wall"},
		{"recursive", "$COM", "gcc -O2 -Wall -c a.c -o a.o"},
		{"missing collapses", "a $NOPE b", "a b"},
		{"literal dollar", "$$HOME", "$HOME"},
		{"nested literal", "$PRICE", "$5"},
		{"cycle terminates", "x $LOOP y", "x y"},
		{"trailing dollar", "cost$", "cost$"},
		{"non-name", "$-x", "$-x"},
		{"unterminated brace", "${CC", "${CC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Subst(tt.in, ov); got != tt.want {
				t.Errorf("Subst(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubst_ComputedFlags(t *testing.T) {
	e := New(linux64)
	e.Append("CPPPATH", "inc", "../asmlib")
	e.Append("LIBPATH", "../asmlib")
	e.Append("LIBS", "aelf64")
	e.Append("CPPDEFINES", "NDEBUG")

	got := e.Subst("$_CCCOMCOM $_LIBDIRFLAGS $_LIBFLAGS", nil)
	want := "-DNDEBUG -Iinc -I../asmlib -L../asmlib -laelf64"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	w := New(win32)
	w.Append("LIBS", "libacof32", "kernel32.lib")
	w.Append("LIBPATH", `..\asmlib`)
	got = w.Subst("$_LIBDIRFLAGS $_LIBFLAGS", nil)
	want = `/LIBPATH:..\asmlib libacof32.lib kernel32.lib`
	if got != want {
		t.Errorf("windows: got %q, want %q", got, want)
	}
}

func TestSubstArgs_Quotes(t *testing.T) {
	e := New(linux64)
	e.Set("BRCC", "/opt/brook sdk/bin/brcc")
	e.SetList("BRCCFLAGS")

	args := e.SubstArgs(`"$BRCC" $BRCCFLAGS $SOURCES`, Overrides{"SOURCES": {"k.br"}})
	want := []string{"/opt/brook sdk/bin/brcc", "k.br"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}

	if got := e.SubstArgs(`a "" b`, nil); len(got) != 3 || got[1] != "" {
		t.Errorf("expected empty quoted argument to survive, got %q", got)
	}
}

func TestSubstArgs_KeepsSpacedValuesWhole(t *testing.T) {
	e := New(linux64)
	e.Append("CPPPATH", "/home/me/my libs/vectorclass")
	e.Append("LIBPATH", "/home/me/my libs/asmlib")
	e.Append("LIBS", "aelf64")
	e.SetList("CXXFLAGS", "-O2", "-DNAME=a b")

	ov := Overrides{
		"SOURCES": {"/tmp/a b/conftest_1.cpp"},
		"TARGET":  {"/tmp/a b/conftest_1"},
	}
	got := e.SubstArgs("$CXX -o $TARGET $CXXFLAGS $_CCCOMCOM $SOURCES $_LIBDIRFLAGS $_LIBFLAGS", ov)
	want := []string{
		"c++", "-o", "/tmp/a b/conftest_1",
		"-O2", "-DNAME=a b",
		"-I/home/me/my libs/vectorclass",
		"/tmp/a b/conftest_1.cpp",
		"-L/home/me/my libs/asmlib", "-laelf64",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}

	w := New(win32)
	got = w.SubstArgs("$CXX /c $SOURCE /Fo$TARGET", Overrides{
		"SOURCE": {`C:\My Docs\main.c`},
		"TARGET": {`C:\My Docs\main.obj`},
	})
	want = []string{"cl", "/c", `C:\My Docs\main.c`, `/FoC:\My Docs\main.obj`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("windows argv mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstArgs_NestedTemplates(t *testing.T) {
	e := New(linux64)
	e.Set("LOOP", "$LOOP")
	e.SetList("EMPTY")

	if got := e.SubstArgs("x $LOOP $EMPTY y", nil); !cmp.Equal(got, []string{"x", "y"}) {
		t.Errorf("got %q, want [x y]", got)
	}
	if got := e.SubstArgs("$$HOME ${CXX}", nil); !cmp.Equal(got, []string{"$HOME", "c++"}) {
		t.Errorf("got %q", got)
	}
}

func TestPlan_Builder(t *testing.T) {
	e := New(linux64)
	e.Set("TOOL", "gen")
	e.AddBuilder(Builder{
		Name:         "Gen",
		Action:       "$TOOL $SOURCES",
		SrcSuffix:    ".in",
		Suffix:       ".out",
		SingleSource: true,
	})

	steps, err := e.Plan("Gen", "a.in", "b")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Command != "gen a.in" || steps[0].Targets[0] != "a.out" {
		t.Errorf("unexpected first step: %+v", steps[0])
	}
	if steps[1].Sources[0] != "b.in" || steps[1].Targets[0] != "b.out" {
		t.Errorf("expected src suffix to be added: %+v", steps[1])
	}

	e.AddBuilder(Builder{Name: "All", Action: "$TOOL $SOURCES -o $TARGET", Suffix: ".a"})
	steps, err = e.Plan("All", "x.c", "y.c")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(steps) != 1 || steps[0].Command != "gen x.c y.c -o x.a" {
		t.Errorf("unexpected multi-source plan: %+v", steps)
	}
}

func TestPlan_Errors(t *testing.T) {
	e := New(linux64)
	if _, err := e.Plan("Nope", "a"); !errors.Is(err, ErrUnknownBuilder) {
		t.Errorf("expected ErrUnknownBuilder, got %v", err)
	}
	e.AddBuilder(Builder{Name: "B", Action: "x"})
	if _, err := e.Plan("B"); err == nil {
		t.Error("expected error for no sources")
	}
	if _, err := e.PlanObjects("a.zzz"); !errors.Is(err, ErrNoAction) {
		t.Errorf("expected ErrNoAction, got %v", err)
	}
}

func TestPlanObjects_StaticEmitter(t *testing.T) {
	e := New(win32)
	obj := e.ObjectBuilder()
	obj.AddAction(".c", "$CXX /c $SOURCE /Fo$TARGET")
	obj.AddEmitter(".c", StaticObjectEmitter)

	steps, err := e.PlanObjects("src/main.c")
	if err != nil {
		t.Fatalf("PlanObjects: %v", err)
	}
	if steps[0].Targets[0] != "src/main.obj" {
		t.Errorf("expected .obj target, got %v", steps[0].Targets)
	}
	if steps[0].Command != "cl /c src/main.c /Fosrc/main.obj" {
		t.Errorf("unexpected command %q", steps[0].Command)
	}
	if diff := cmp.Diff([]string{".c"}, obj.Suffixes()); diff != "" {
		t.Errorf("suffixes mismatch (-want +got):\n%s", diff)
	}
}
