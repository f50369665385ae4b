// Package tool defines the contract build tools implement and the registry
// the CLI uses to find and apply them.
package tool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/whiskeyjimb/sitetools/internal/env"
	"github.com/whiskeyjimb/sitetools/internal/result"
)

// ErrUnknownTool is returned when a tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool contributes variables and builders to an environment.
type Tool interface {
	// Name is the identifier used on the command line and in config.
	Name() string

	// Description is a one-line summary for listings.
	Description() string

	// Exists reports whether the tool can be used with e.
	Exists(e *env.Environment) bool

	// Generate returns a copy of e with the tool's contribution applied.
	// e is not modified.
	Generate(e *env.Environment) (*env.Environment, result.Result)
}

// Report is the outcome of applying one tool.
type Report struct {
	Tool   string        `json:"tool" yaml:"tool"`
	Result result.Result `json:"result" yaml:"result"`
}

// Registry holds tools by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry holding tools. It panics on duplicate
// names, which is a programming error.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds t. Registering a second tool with the same name fails.
func (r *Registry) Register(t Tool) error {
	if _, ok := r.tools[t.Name()]; ok {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get returns the tool registered as name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := lo.Keys(r.tools)
	sort.Strings(names)
	return names
}

// List returns the registered tools sorted by name.
func (r *Registry) List() []Tool {
	return lo.Map(r.Names(), func(n string, _ int) Tool { return r.tools[n] })
}

// Apply runs the named tools over e in order, each seeing the previous
// tool's output. It stops at the first fatal result and returns the
// environment built so far, the reports collected and the fatal error.
func (r *Registry) Apply(e *env.Environment, names ...string) (*env.Environment, []Report, error) {
	reports := make([]Report, 0, len(names))
	for _, name := range names {
		t, err := r.Get(name)
		if err != nil {
			return e, reports, err
		}

		next, res := t.Generate(e)
		reports = append(reports, Report{Tool: name, Result: res})
		if res.IsError() {
			return e, reports, fmt.Errorf("tool %s: %w", name, res.Err())
		}
		if next != nil {
			e = next
		}
	}
	return e, reports, nil
}
