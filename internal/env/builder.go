package env

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrUnknownBuilder is returned when planning with a builder name that
	// was never registered.
	ErrUnknownBuilder = errors.New("unknown builder")

	// ErrNoAction is returned when no object action handles a source suffix.
	ErrNoAction = errors.New("no action for source suffix")
)

// Emitter rewrites the target and source lists of a build step before the
// command is generated.
type Emitter func(e *Environment, targets, sources []string) ([]string, []string)

// Builder turns sources with SrcSuffix into targets with Suffix by running
// Action, a command template.
type Builder struct {
	Name         string
	Action       string
	SrcSuffix    string
	Suffix       string
	SingleSource bool
	Emitter      Emitter
}

// ObjectBuilder is the static object builder: a table of command templates
// and emitters keyed by source suffix.
type ObjectBuilder struct {
	actions  map[string]string
	emitters map[string]Emitter
}

func newObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{
		actions:  make(map[string]string),
		emitters: make(map[string]Emitter),
	}
}

func (o *ObjectBuilder) clone() *ObjectBuilder {
	out := newObjectBuilder()
	for k, v := range o.actions {
		out.actions[k] = v
	}
	for k, v := range o.emitters {
		out.emitters[k] = v
	}
	return out
}

// AddAction registers the command template used for sources ending in suffix.
func (o *ObjectBuilder) AddAction(suffix, action string) {
	o.actions[suffix] = action
}

// AddEmitter registers the emitter used for sources ending in suffix.
func (o *ObjectBuilder) AddEmitter(suffix string, em Emitter) {
	o.emitters[suffix] = em
}

// Action returns the command template registered for suffix.
func (o *ObjectBuilder) Action(suffix string) (string, bool) {
	a, ok := o.actions[suffix]
	return a, ok
}

// Suffixes returns the registered source suffixes, sorted.
func (o *ObjectBuilder) Suffixes() []string {
	s := lo.Keys(o.actions)
	sort.Strings(s)
	return s
}

// ObjectBuilder returns the static object builder, creating it on first use.
func (e *Environment) ObjectBuilder() *ObjectBuilder {
	if e.object == nil {
		e.object = newObjectBuilder()
	}
	return e.object
}

// AddBuilder registers b under b.Name, replacing any builder of that name.
func (e *Environment) AddBuilder(b Builder) {
	e.builders[b.Name] = b
}

// Builder returns the builder registered as name.
func (e *Environment) Builder(name string) (Builder, bool) {
	b, ok := e.builders[name]
	return b, ok
}

// BuilderNames returns the registered builder names, sorted.
func (e *Environment) BuilderNames() []string {
	names := lo.Keys(e.builders)
	sort.Strings(names)
	return names
}

// StaticObjectEmitter points every target at an object file named after
// its source, with the environment's OBJSUFFIX.
func StaticObjectEmitter(e *Environment, targets, sources []string) ([]string, []string) {
	suffix := e.Subst("$OBJSUFFIX", nil)
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = replaceExt(t, suffix)
	}
	return out, sources
}

// Step is one planned command invocation.
type Step struct {
	Builder string   `json:"builder" yaml:"builder"`
	Sources []string `json:"sources" yaml:"sources"`
	Targets []string `json:"targets" yaml:"targets"`
	Command string   `json:"command" yaml:"command"`
	Args    []string `json:"args" yaml:"args"`
}

// Plan expands the builder registered as name over sources. Single-source
// builders produce one step per source; others produce one step for all.
func (e *Environment) Plan(name string, sources ...string) ([]Step, error) {
	b, ok := e.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuilder, name)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("builder %s: no sources", name)
	}

	srcs := make([]string, len(sources))
	for i, s := range sources {
		if b.SrcSuffix != "" && filepath.Ext(s) == "" {
			s += b.SrcSuffix
		}
		srcs[i] = s
	}

	groups := [][]string{srcs}
	if b.SingleSource {
		groups = lo.Map(srcs, func(s string, _ int) []string { return []string{s} })
	}

	steps := make([]Step, 0, len(groups))
	for _, group := range groups {
		targets := []string{replaceExt(group[0], b.Suffix)}
		steps = append(steps, e.step(b.Name, b.Action, b.Emitter, targets, group))
	}
	return steps, nil
}

// PlanObjects plans one static object per source using the action
// registered for the source's suffix.
func (e *Environment) PlanObjects(sources ...string) ([]Step, error) {
	obj := e.ObjectBuilder()
	steps := make([]Step, 0, len(sources))
	for _, src := range sources {
		suffix := filepath.Ext(src)
		action, ok := obj.Action(suffix)
		if !ok {
			return nil, fmt.Errorf("%w %q (%s)", ErrNoAction, suffix, src)
		}
		targets := []string{replaceExt(src, e.Subst("$OBJSUFFIX", nil))}
		steps = append(steps, e.step("Object", action, obj.emitters[suffix], targets, []string{src}))
	}
	return steps, nil
}

func (e *Environment) step(builder, action string, em Emitter, targets, sources []string) Step {
	if em != nil {
		targets, sources = em(e, targets, sources)
	}
	ov := Overrides{
		"SOURCES": sources,
		"TARGETS": targets,
		"SOURCE":  sources[:1],
		"TARGET":  targets[:1],
	}
	return Step{
		Builder: builder,
		Sources: sources,
		Targets: targets,
		Command: e.Subst(action, ov),
		Args:    e.SubstArgs(action, ov),
	}
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
