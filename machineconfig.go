package chartbuild

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// MachineConfig is the top-level record handed to the runtime. The root
// state node is embedded, so a machine takes every state field (initial,
// states, on, ...).
type MachineConfig struct {
	ID          string `json:"id" yaml:"id"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Context     any    `json:"context,omitempty" yaml:"context,omitempty"`
	StateConfig `yaml:",inline"`
}

// Validate validates the entire machine configuration:
//   - non-empty ID, and a root that is neither final nor history
//   - every state validates (see StateConfig.Validate)
//   - every transition target resolves to a state
//
// All problems are reported, joined, and wrapped in ErrInvalidConfig.
func (m *MachineConfig) Validate() error {
	var errs []error
	if m.ID == "" {
		errs = append(errs, errors.New("machine ID is required"))
	}
	switch m.Kind() {
	case Final, History:
		errs = append(errs, fmt.Errorf("machine root cannot be a %s state", m.Kind()))
	}
	m.StateConfig.validate("", &errs)
	m.walk(nil, &m.StateConfig, func(path []string, s *StateConfig) {
		m.checkTargets(path, s, &errs)
	})
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidConfig, m.ID, errors.Join(errs...))
}

func (m *MachineConfig) checkTargets(path []string, s *StateConfig, errs *[]error) {
	label := strings.Join(path, ".")
	if label == "" {
		label = "(root)"
	}
	check := func(where, target string) {
		if target == "" {
			return
		}
		if _, ok := m.ResolveTarget(strings.Join(path, "."), target); !ok {
			*errs = append(*errs, fmt.Errorf("%w %q (state %s, %s)", ErrUnknownTarget, target, label, where))
		}
	}
	for _, event := range s.On.Events() {
		for i, t := range s.On[event] {
			check(fmt.Sprintf("event %q transition %d", event, i), t.Target)
		}
	}
	for _, delay := range slices.Sorted(maps.Keys(s.After)) {
		check(fmt.Sprintf("after %q", delay), s.After[delay].Target)
	}
	for i, t := range s.Always {
		check(fmt.Sprintf("always transition %d", i), t.Target)
	}
	if s.Invoke != nil {
		if s.Invoke.OnDone != nil {
			check("invoke onDone", s.Invoke.OnDone.Target)
		}
		if s.Invoke.OnError != nil {
			check("invoke onError", s.Invoke.OnError.Target)
		}
	}
	if s.Kind() == History {
		check("history default", s.Target)
	}
}

// walk visits every state depth-first in key order, root first.
func (m *MachineConfig) walk(path []string, s *StateConfig, fn func(path []string, s *StateConfig)) {
	fn(path, s)
	for _, name := range s.ChildNames() {
		child := s.States[name]
		if child == nil {
			continue
		}
		m.walk(append(slices.Clip(path), name), child, fn)
	}
}

// ResolveTarget resolves a transition target written in the source state at
// sourcePath ("" for the root) and returns the absolute dot path of the
// target state. Supported forms:
//
//	"sibling.child"  relative to the source's parent (the root for the root)
//	".child"         relative to the source itself
//	"#id.path"       absolute, where id is the machine ID
func (m *MachineConfig) ResolveTarget(sourcePath, target string) (string, bool) {
	var base []string
	if sourcePath != "" {
		base = strings.Split(sourcePath, ".")
	}
	var rel string
	switch {
	case strings.HasPrefix(target, "#"):
		id, rest, _ := strings.Cut(target[1:], ".")
		if id != m.ID {
			return "", false
		}
		base, rel = nil, rest
	case strings.HasPrefix(target, "."):
		rel = target[1:]
	default:
		if len(base) > 0 {
			base = base[:len(base)-1]
		}
		rel = target
	}
	full := slices.Clone(base)
	if rel != "" {
		full = append(full, strings.Split(rel, ".")...)
	}
	path := strings.Join(full, ".")
	if _, err := m.FindState(path); err != nil {
		return "", false
	}
	return path, true
}

// FindState resolves a state by dot path from the root
// (e.g. "parent.child.grandchild"). The empty path is the root itself.
func (m *MachineConfig) FindState(path string) (*StateConfig, error) {
	current := &m.StateConfig
	if path == "" {
		return current, nil
	}
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		child, ok := current.Child(seg)
		if !ok {
			prefix := strings.Join(segments[:i], ".")
			if prefix == "" {
				return nil, fmt.Errorf("%w: %q", ErrUnknownState, seg)
			}
			return nil, fmt.Errorf("%w: child %q not found in %q", ErrUnknownState, seg, prefix)
		}
		current = child
	}
	return current, nil
}

// Paths returns the dot path of every state in sorted order.
func (m *MachineConfig) Paths() []string {
	return slices.Sorted(maps.Keys(m.Flatten()))
}

// Clone returns a deep copy. Context is copied shallowly.
func (m *MachineConfig) Clone() *MachineConfig {
	out := *m
	out.StateConfig = *m.StateConfig.Clone()
	return &out
}

// References lists every implementation name the configuration mentions.
type References struct {
	Actions []string
	Guards  []string
	Delays  []string
	Actors  []string
}

// References collects action, guard, named-delay and actor names, each list
// sorted and free of duplicates.
func (m *MachineConfig) References() References {
	actions := map[string]struct{}{}
	guards := map[string]struct{}{}
	delays := map[string]struct{}{}
	actors := map[string]struct{}{}

	addTransition := func(t TransitionConfig) {
		for _, a := range t.Actions {
			actions[a] = struct{}{}
		}
		if t.Guard != "" {
			guards[t.Guard] = struct{}{}
		}
		if t.Delay != "" && !t.Delay.IsLiteral() {
			delays[string(t.Delay)] = struct{}{}
		}
	}
	m.walk(nil, &m.StateConfig, func(_ []string, s *StateConfig) {
		for _, a := range s.Entry {
			actions[a] = struct{}{}
		}
		for _, a := range s.Exit {
			actions[a] = struct{}{}
		}
		for _, ts := range s.On {
			for _, t := range ts {
				addTransition(t)
			}
		}
		for d, t := range s.After {
			if !d.IsLiteral() {
				delays[string(d)] = struct{}{}
			}
			addTransition(t)
		}
		for _, t := range s.Always {
			addTransition(t)
		}
		if inv := s.Invoke; inv != nil {
			if inv.Logic == nil && inv.Src != "" {
				actors[inv.Src] = struct{}{}
			}
			if inv.OnDone != nil {
				addTransition(*inv.OnDone)
			}
			if inv.OnError != nil {
				addTransition(*inv.OnError)
			}
		}
	})

	sorted := func(set map[string]struct{}) []string {
		if len(set) == 0 {
			return nil
		}
		return slices.Sorted(maps.Keys(set))
	}
	return References{
		Actions: sorted(actions),
		Guards:  sorted(guards),
		Delays:  sorted(delays),
		Actors:  sorted(actors),
	}
}
