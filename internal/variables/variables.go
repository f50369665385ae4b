// Package variables declares user-configurable build variables, such as
// library install directories, and applies their values to an environment.
package variables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/whiskeyjimb/sitetools/internal/env"
)

// Variable is a single declared build variable.
type Variable struct {
	Key     string `json:"key" yaml:"key"`
	Help    string `json:"help" yaml:"help"`
	Default string `json:"default" yaml:"default"`
}

// Variables is an ordered set of declarations plus the values supplied by
// the user (config file, flags or key=value arguments).
type Variables struct {
	decls  []Variable
	values map[string]string
}

// New returns an empty set primed with the given user values. values may
// be nil.
func New(values map[string]string) *Variables {
	v := &Variables{values: make(map[string]string, len(values))}
	for k, val := range values {
		v.values[k] = val
	}
	return v
}

// Add declares a variable. Redeclaring a key replaces its help and default.
func (v *Variables) Add(key, help, def string) {
	for i, d := range v.decls {
		if d.Key == key {
			v.decls[i] = Variable{Key: key, Help: help, Default: def}
			return
		}
	}
	v.decls = append(v.decls, Variable{Key: key, Help: help, Default: def})
}

// AddVariables declares several variables in order.
func (v *Variables) AddVariables(vars ...Variable) {
	for _, d := range vars {
		v.Add(d.Key, d.Help, d.Default)
	}
}

// Lookup returns the declaration for key.
func (v *Variables) Lookup(key string) (Variable, bool) {
	return lo.Find(v.decls, func(d Variable) bool { return d.Key == key })
}

// Declared returns the declarations in declaration order.
func (v *Variables) Declared() []Variable {
	return append([]Variable(nil), v.decls...)
}

// Keys returns the declared keys in declaration order.
func (v *Variables) Keys() []string {
	return lo.Map(v.decls, func(d Variable, _ int) string { return d.Key })
}

// Set records a user value for key. Unknown keys are kept and reported by
// UnknownKeys.
func (v *Variables) Set(key, value string) {
	v.values[key] = value
}

// Value returns the user value for key, or its default.
func (v *Variables) Value(key string) string {
	if val, ok := v.values[key]; ok {
		return val
	}
	if d, ok := v.Lookup(key); ok {
		return d.Default
	}
	return ""
}

// Update returns a copy of e with every declared variable set to its user
// value or default.
func (v *Variables) Update(e *env.Environment) *env.Environment {
	out := e.Clone()
	for _, d := range v.decls {
		out.Set(d.Key, v.Value(d.Key))
	}
	return out
}

// UnknownKeys returns user-supplied keys that were never declared, sorted.
func (v *Variables) UnknownKeys() []string {
	var unknown []string
	for k := range v.values {
		if _, ok := v.Lookup(k); !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// HelpText renders the declarations in the classic
//
//	key: help
//	    default: value
//	    actual: value
//
// layout.
func (v *Variables) HelpText() string {
	var sb strings.Builder
	for _, d := range v.decls {
		fmt.Fprintf(&sb, "\n%s: %s\n", d.Key, d.Help)
		fmt.Fprintf(&sb, "    default: %s\n", d.Default)
		fmt.Fprintf(&sb, "    actual: %s\n", v.Value(d.Key))
	}
	return sb.String()
}

// ParseArgs splits command-line arguments into key=value assignments and
// the remaining positional arguments.
func ParseArgs(args []string) (map[string]string, []string) {
	values := make(map[string]string)
	var rest []string
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" || strings.HasPrefix(key, "-") {
			rest = append(rest, arg)
			continue
		}
		values[key] = val
	}
	return values, rest
}
