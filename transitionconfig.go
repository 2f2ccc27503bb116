package chartbuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// TransitionConfig is a single transition record. An empty Target makes a
// targetless transition that only runs its actions.
type TransitionConfig struct {
	Target      string   `json:"target,omitempty" yaml:"target,omitempty"`
	Actions     []string `json:"actions,omitempty" yaml:"actions,omitempty"`
	Guard       string   `json:"guard,omitempty" yaml:"guard,omitempty"`
	Delay       Delay    `json:"delay,omitempty" yaml:"delay,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Reenter     bool     `json:"reenter,omitempty" yaml:"reenter,omitempty"`
}

// Validate checks the target path syntax. Targets may be a sibling key, a
// dotted path, a child path starting with "." or an absolute "#id.path".
// Segments may hold any character a state key may hold.
func (t *TransitionConfig) Validate() error {
	for i, a := range t.Actions {
		if a == "" {
			return fmt.Errorf("%w: empty action name at index %d", ErrInvalidTransition, i)
		}
	}
	if t.Target == "" {
		return nil
	}
	path := t.Target
	switch {
	case strings.HasPrefix(path, "#"):
		path = path[1:]
	case strings.HasPrefix(path, "."):
		path = path[1:]
	}
	for i, seg := range strings.Split(path, ".") {
		if seg == "" {
			return fmt.Errorf("%w: target %q has an empty segment at index %d", ErrInvalidTransition, t.Target, i)
		}
	}
	return nil
}

func (t TransitionConfig) clone() TransitionConfig {
	t.Actions = slices.Clone(t.Actions)
	return t
}

// Transitions is the candidate list for one event. A single transition
// encodes as a bare object, more than one as an array.
type Transitions []TransitionConfig

func (ts Transitions) MarshalJSON() ([]byte, error) {
	if len(ts) == 1 {
		return json.Marshal(ts[0])
	}
	return json.Marshal([]TransitionConfig(ts))
}

// UnmarshalJSON accepts an object, an array of objects, or a bare target
// string. Unknown fields are rejected.
func (ts *Transitions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = nil
		return nil
	}
	switch data[0] {
	case '"':
		var target string
		if err := json.Unmarshal(data, &target); err != nil {
			return err
		}
		*ts = Transitions{{Target: target}}
	case '{':
		var t TransitionConfig
		if err := decodeStrictJSON(data, &t); err != nil {
			return err
		}
		*ts = Transitions{t}
	default:
		var list []TransitionConfig
		if err := decodeStrictJSON(data, &list); err != nil {
			return err
		}
		*ts = list
	}
	return nil
}

func decodeStrictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// transitionKeys are the yaml keys of TransitionConfig.
var transitionKeys = map[string]bool{
	"target": true, "actions": true, "guard": true,
	"delay": true, "description": true, "reenter": true,
}

func checkTransitionKeys(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !transitionKeys[key.Value] {
			return fmt.Errorf("line %d: field %s not found in transition", key.Line, key.Value)
		}
	}
	return nil
}

func (ts Transitions) MarshalYAML() (any, error) {
	if len(ts) == 1 {
		return ts[0], nil
	}
	return []TransitionConfig(ts), nil
}

// UnmarshalYAML accepts a mapping, a sequence of mappings, or a bare target
// scalar. Unknown keys are rejected.
func (ts *Transitions) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var target string
		if err := node.Decode(&target); err != nil {
			return err
		}
		*ts = Transitions{{Target: target}}
	case yaml.MappingNode:
		if err := checkTransitionKeys(node); err != nil {
			return err
		}
		var t TransitionConfig
		if err := node.Decode(&t); err != nil {
			return err
		}
		*ts = Transitions{t}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if err := checkTransitionKeys(item); err != nil {
				return err
			}
		}
		var list []TransitionConfig
		if err := node.Decode(&list); err != nil {
			return err
		}
		*ts = list
	default:
		return fmt.Errorf("%w: unsupported yaml node for transitions at line %d", ErrInvalidTransition, node.Line)
	}
	return nil
}

func (ts Transitions) clone() Transitions {
	if ts == nil {
		return nil
	}
	out := make(Transitions, len(ts))
	for i, t := range ts {
		out[i] = t.clone()
	}
	return out
}

// TransitionMap is the event-keyed "on" block of a state.
type TransitionMap map[string]Transitions

func (m TransitionMap) clone() TransitionMap {
	if m == nil {
		return nil
	}
	out := make(TransitionMap, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}

// DelayedTransitions is the "after" block of a state, keyed by delay.
type DelayedTransitions map[Delay]TransitionConfig

func (d DelayedTransitions) clone() DelayedTransitions {
	if d == nil {
		return nil
	}
	out := make(DelayedTransitions, len(d))
	for k, v := range d {
		out[k] = v.clone()
	}
	return out
}

// TransitionDefinition groups the candidate transitions for one event.
type TransitionDefinition struct {
	Event       string
	Transitions []TransitionConfig
}

// NewTransitionMap folds definitions into an "on" block. A later definition
// for the same event replaces an earlier one.
func NewTransitionMap(defs ...TransitionDefinition) TransitionMap {
	out := make(TransitionMap, len(defs))
	for _, def := range defs {
		out[def.Event] = Transitions(def.Transitions).clone()
	}
	return out
}

// Events returns the event names of the map in sorted order.
func (m TransitionMap) Events() []string {
	return slices.Sorted(maps.Keys(m))
}
