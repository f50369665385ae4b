// Package env models the build environment that tools configure: a set of
// string and list variables, the target platform, the executable search
// path, and the builders registered so far.
//
// An Environment is a plain value. Tools never mutate the environment they
// are given; they Clone it, apply their changes to the copy and return it.
package env

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/whiskeyjimb/sitetools/internal/host"
)

// Environment is a build configuration.
type Environment struct {
	// Platform is the platform commands are generated for.
	Platform host.Platform

	// ExecPath is the ordered list of directories searched for tools.
	ExecPath []string

	vars     map[string]any // string or []string
	builders map[string]Builder
	object   *ObjectBuilder
}

// New returns an environment for p with the platform's default compiler
// variables set and ExecPath taken from the process PATH.
func New(p host.Platform) *Environment {
	e := &Environment{
		Platform: p,
		ExecPath: filepath.SplitList(os.Getenv("PATH")),
		vars:     make(map[string]any),
		builders: make(map[string]Builder),
	}
	e.setDefaults()
	return e
}

func (e *Environment) setDefaults() {
	for _, k := range []string{"CPPPATH", "LIBPATH", "LIBS", "CPPDEFINES", "CPPFLAGS", "CCFLAGS", "CXXFLAGS", "LINKFLAGS"} {
		e.vars[k] = []string{}
	}
	e.vars["_CCCOMCOM"] = "$CPPFLAGS $_CPPDEFFLAGS $_CPPINCFLAGS"

	if e.Platform.IsWindows() {
		e.Replace(map[string]string{
			"CXX":           "cl",
			"OBJSUFFIX":     ".obj",
			"PROGSUFFIX":    ".exe",
			"INCPREFIX":     "/I",
			"LIBDIRPREFIX":  "/LIBPATH:",
			"LIBLINKPREFIX": "",
			"LIBLINKSUFFIX": ".lib",
			"CPPDEFPREFIX":  "/D",
			"CONFTESTCOM":   "$CXX /nologo /EHsc $CXXFLAGS $CCFLAGS $_CCCOMCOM $SOURCES /Fe$TARGET /link $LINKFLAGS $_LIBDIRFLAGS $_LIBFLAGS",
		})
		return
	}

	e.Replace(map[string]string{
		"CXX":           "c++",
		"OBJSUFFIX":     ".o",
		"PROGSUFFIX":    "",
		"INCPREFIX":     "-I",
		"LIBDIRPREFIX":  "-L",
		"LIBLINKPREFIX": "-l",
		"LIBLINKSUFFIX": "",
		"CPPDEFPREFIX":  "-D",
		"CONFTESTCOM":   "$CXX -o $TARGET $CXXFLAGS $CCFLAGS $_CCCOMCOM $SOURCES $LINKFLAGS $_LIBDIRFLAGS $_LIBFLAGS",
	})
}

// Clone returns a deep copy of e.
func (e *Environment) Clone() *Environment {
	out := &Environment{
		Platform: e.Platform,
		ExecPath: append([]string(nil), e.ExecPath...),
		vars:     make(map[string]any, len(e.vars)),
		builders: make(map[string]Builder, len(e.builders)),
	}
	out.Platform.SIMD = append([]string(nil), e.Platform.SIMD...)
	for k, v := range e.vars {
		if l, ok := v.([]string); ok {
			out.vars[k] = append([]string{}, l...)
			continue
		}
		out.vars[k] = v
	}
	for k, b := range e.builders {
		out.builders[k] = b
	}
	if e.object != nil {
		out.object = e.object.clone()
	}
	return out
}

// Has reports whether key is set.
func (e *Environment) Has(key string) bool {
	_, ok := e.vars[key]
	return ok
}

// Get returns the raw value of key: a string or a copy of a []string.
func (e *Environment) Get(key string) (any, bool) {
	v, ok := e.vars[key]
	if !ok {
		return nil, false
	}
	if l, isList := v.([]string); isList {
		return append([]string{}, l...), true
	}
	return v, true
}

// String returns key as a string. Lists are joined with single spaces.
// Missing keys yield "".
func (e *Environment) String(key string) string {
	switch v := e.vars[key].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	default:
		return ""
	}
}

// List returns key as a list. A non-empty string value is a one-element
// list.
func (e *Environment) List(key string) []string {
	switch v := e.vars[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	default:
		return nil
	}
}

// Set stores a string value, replacing any previous value.
func (e *Environment) Set(key, value string) {
	e.vars[key] = value
}

// SetList stores a list value, replacing any previous value. An empty
// call stores an empty list.
func (e *Environment) SetList(key string, values ...string) {
	e.vars[key] = append([]string{}, values...)
}

// Replace sets several string values at once.
func (e *Environment) Replace(values map[string]string) {
	for k, v := range values {
		e.vars[k] = v
	}
}

// Delete removes key.
func (e *Environment) Delete(key string) {
	delete(e.vars, key)
}

// Append adds values to the end of key, converting a string value to a
// list first.
func (e *Environment) Append(key string, values ...string) {
	e.vars[key] = append(e.List(key), values...)
}

// AppendUnique is Append but skips values already present.
func (e *Environment) AppendUnique(key string, values ...string) {
	cur := e.List(key)
	for _, v := range lo.Uniq(values) {
		if !lo.Contains(cur, v) {
			cur = append(cur, v)
		}
	}
	if cur == nil {
		cur = []string{}
	}
	e.vars[key] = cur
}

// Prepend adds values to the front of key.
func (e *Environment) Prepend(key string, values ...string) {
	e.vars[key] = append(append([]string{}, values...), e.List(key)...)
}

// Keys returns the sorted variable names.
func (e *Environment) Keys() []string {
	keys := lo.Keys(e.vars)
	sort.Strings(keys)
	return keys
}

// Dump returns every variable as a map suitable for output formatting.
func (e *Environment) Dump() map[string]any {
	out := make(map[string]any, len(e.vars))
	for k := range e.vars {
		v, _ := e.Get(k)
		out[k] = v
	}
	return out
}
