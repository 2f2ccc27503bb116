package chartbuild

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// StateType defines the kind of a state node.
type StateType string

const (
	Atomic   StateType = "atomic"
	Compound StateType = "compound"
	Parallel StateType = "parallel"
	Final    StateType = "final"
	History  StateType = "history"
)

// HistoryType selects what a history state remembers.
type HistoryType string

const (
	ShallowHistory HistoryType = "shallow"
	DeepHistory    HistoryType = "deep"
)

// StateConfig is one state node. Child states are keyed by name, so a
// state's path is the dot-joined chain of keys from the machine root.
type StateConfig struct {
	Type        StateType               `json:"type,omitempty" yaml:"type,omitempty"`
	Initial     string                  `json:"initial,omitempty" yaml:"initial,omitempty"`
	History     HistoryType             `json:"history,omitempty" yaml:"history,omitempty"`
	Target      string                  `json:"target,omitempty" yaml:"target,omitempty"` // history default
	Entry       []string                `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit        []string                `json:"exit,omitempty" yaml:"exit,omitempty"`
	On          TransitionMap           `json:"on,omitempty" yaml:"on,omitempty"`
	After       DelayedTransitions      `json:"after,omitempty" yaml:"after,omitempty"`
	Always      []TransitionConfig      `json:"always,omitempty" yaml:"always,omitempty"`
	Invoke      *InvokeConfig           `json:"invoke,omitempty" yaml:"invoke,omitempty"`
	Tags        []string                `json:"tags,omitempty" yaml:"tags,omitempty"`
	Meta        map[string]any          `json:"meta,omitempty" yaml:"meta,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Output      *Output                 `json:"output,omitempty" yaml:"output,omitempty"`
	States      map[string]*StateConfig `json:"states,omitempty" yaml:"states,omitempty"`
}

// Output is the done data of a final state. A non-nil *Output holding a nil
// Value encodes as an explicit null; a nil *Output is omitted.
type Output struct {
	Value any
}

// NewOutput wraps v, keeping nil as an explicit null.
func NewOutput(v any) *Output {
	return &Output{Value: v}
}

func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *Output) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &o.Value)
}

func (o Output) MarshalYAML() (any, error) {
	return o.Value, nil
}

func (o *Output) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&o.Value)
}

// Kind returns the effective type: an untyped state with children is
// compound, otherwise atomic.
func (s *StateConfig) Kind() StateType {
	if s.Type != "" {
		return s.Type
	}
	if len(s.States) > 0 {
		return Compound
	}
	return Atomic
}

// Child returns the direct child with the given key.
func (s *StateConfig) Child(name string) (*StateConfig, bool) {
	c, ok := s.States[name]
	return c, ok && c != nil
}

// ChildNames returns the child keys in sorted order.
func (s *StateConfig) ChildNames() []string {
	return slices.Sorted(maps.Keys(s.States))
}

// Flatten returns every descendant keyed by its dot path relative to s.
func (s *StateConfig) Flatten() map[string]*StateConfig {
	m := make(map[string]*StateConfig)
	s.flattenHelper("", m)
	return m
}

func (s *StateConfig) flattenHelper(prefix string, m map[string]*StateConfig) {
	for name, child := range s.States {
		if child == nil {
			continue
		}
		path := joinPath(prefix, name)
		m[path] = child
		child.flattenHelper(path, m)
	}
}

// Validate performs recursive structural validation of the subtree. Target
// resolution needs the whole machine and lives in MachineConfig.Validate.
func (s *StateConfig) Validate() error {
	var errs []error
	s.validate("", &errs)
	return errors.Join(errs...)
}

func (s *StateConfig) validate(path string, errs *[]error) {
	label := path
	if label == "" {
		label = "(root)"
	}
	fail := func(format string, args ...any) {
		*errs = append(*errs, fmt.Errorf("state %s: "+format, append([]any{label}, args...)...))
	}

	switch s.Type {
	case "", Atomic, Compound, Parallel, Final, History:
	default:
		fail("invalid state type %q", s.Type)
		return
	}

	switch s.Kind() {
	case Atomic:
		if s.Initial != "" {
			fail("atomic state cannot have an initial state")
		}
		if len(s.States) > 0 {
			fail("atomic state cannot have child states")
		}
	case Compound:
		if len(s.States) == 0 {
			fail("compound state requires child states")
		} else if s.Initial == "" {
			fail("compound state requires an initial state")
		} else if _, ok := s.Child(s.Initial); !ok {
			fail("initial state %q not found among child states", s.Initial)
		}
	case Parallel:
		if len(s.States) == 0 {
			fail("parallel state requires regions")
		}
		if s.Initial != "" {
			fail("parallel state cannot have an initial state")
		}
	case Final:
		if len(s.States) > 0 {
			fail("final state cannot have child states")
		}
		if len(s.On) > 0 || len(s.After) > 0 || len(s.Always) > 0 || s.Invoke != nil {
			fail("final state cannot have outgoing transitions or invocations")
		}
	case History:
		if len(s.States) > 0 {
			fail("history state cannot have child states")
		}
		switch s.History {
		case "", ShallowHistory, DeepHistory:
		default:
			fail("invalid history type %q", s.History)
		}
	}

	for _, event := range s.On.Events() {
		if strings.TrimSpace(event) == "" {
			fail("empty event name in on block")
			continue
		}
		for i, t := range s.On[event] {
			if err := t.Validate(); err != nil {
				fail("event %q transition %d: %w", event, i, err)
			}
		}
	}
	for delay, t := range s.After {
		if delay == "" {
			fail("empty delay in after block")
		}
		if err := t.Validate(); err != nil {
			fail("after %q: %w", delay, err)
		}
	}
	for i, t := range s.Always {
		if err := t.Validate(); err != nil {
			fail("always transition %d: %w", i, err)
		}
	}
	if s.Invoke != nil {
		if err := s.Invoke.Validate(); err != nil {
			fail("invoke: %w", err)
		}
	}
	for i, a := range s.Entry {
		if a == "" {
			fail("empty entry action at index %d", i)
		}
	}
	for i, a := range s.Exit {
		if a == "" {
			fail("empty exit action at index %d", i)
		}
	}
	for i, tag := range s.Tags {
		if strings.TrimSpace(tag) == "" {
			fail("empty tag at index %d", i)
		}
	}

	for _, name := range s.ChildNames() {
		child := s.States[name]
		if name == "" || strings.ContainsAny(name, ".#") {
			fail("invalid child state key %q", name)
			continue
		}
		if child == nil {
			fail("child state %q is nil", name)
			continue
		}
		child.validate(joinPath(path, name), errs)
	}
}

// Clone returns a deep copy of the subtree. Meta and Output values are
// copied shallowly.
func (s *StateConfig) Clone() *StateConfig {
	if s == nil {
		return nil
	}
	out := *s
	out.Entry = slices.Clone(s.Entry)
	out.Exit = slices.Clone(s.Exit)
	out.On = s.On.clone()
	out.After = s.After.clone()
	if s.Always != nil {
		out.Always = make([]TransitionConfig, len(s.Always))
		for i, t := range s.Always {
			out.Always[i] = t.clone()
		}
	}
	out.Invoke = s.Invoke.Clone()
	out.Tags = slices.Clone(s.Tags)
	out.Meta = maps.Clone(s.Meta)
	if s.Output != nil {
		o := *s.Output
		out.Output = &o
	}
	if s.States != nil {
		out.States = make(map[string]*StateConfig, len(s.States))
		for k, v := range s.States {
			out.States[k] = v.Clone()
		}
	}
	return &out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
