// Package builder offers functional-option shorthands for hand-writing
// small state trees, as an alternative to the fluent builders.
package builder

import (
	"github.com/comalice/chartbuild"
)

// ID is a state key.
type ID = string

// Child pairs a state key with its node, keeping declaration order.
type Child struct {
	ID    ID
	State *chartbuild.StateConfig
}

// Of names a node for Composite and Parallel.
func Of(id ID, s *chartbuild.StateConfig) Child {
	return Child{ID: id, State: s}
}

// New creates a basic leaf state
func New(opts ...Option) *chartbuild.StateConfig {
	s := &chartbuild.StateConfig{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Composite creates a compound state with children in order (first = initial)
func Composite(children []Child, opts ...Option) *chartbuild.StateConfig {
	s := New(opts...)
	s.States = make(map[string]*chartbuild.StateConfig, len(children))
	for i, ch := range children {
		s.States[ch.ID] = ch.State
		if i == 0 && s.Initial == "" {
			s.Initial = ch.ID
		}
	}
	return s
}

// Parallel creates a parallel state whose children are orthogonal regions.
func Parallel(regions []Child, opts ...Option) *chartbuild.StateConfig {
	s := New(opts...)
	s.Type = chartbuild.Parallel
	s.Initial = ""
	s.States = make(map[string]*chartbuild.StateConfig, len(regions))
	for _, r := range regions {
		s.States[r.ID] = r.State
	}
	return s
}

// Final creates a final state with optional done output.
func Final(output any, opts ...Option) *chartbuild.StateConfig {
	s := New(opts...)
	s.Type = chartbuild.Final
	if output != nil {
		s.Output = chartbuild.NewOutput(output)
	}
	return s
}

// Machine wraps a root state as a machine configuration.
func Machine(id string, root *chartbuild.StateConfig) chartbuild.MachineConfig {
	return chartbuild.MachineConfig{ID: id, StateConfig: *root}
}

// Option pattern for configuring states
type Option func(*chartbuild.StateConfig)

// OnEntry adds actions run when the state is entered.
func OnEntry(actions ...string) Option {
	return func(s *chartbuild.StateConfig) { s.Entry = append(s.Entry, actions...) }
}

// OnExit adds actions run when the state is exited.
func OnExit(actions ...string) Option {
	return func(s *chartbuild.StateConfig) { s.Exit = append(s.Exit, actions...) }
}

// Initial overrides the initial child chosen by Composite.
func Initial(id ID) Option {
	return func(s *chartbuild.StateConfig) { s.Initial = id }
}

// Tagged adds tags.
func Tagged(tags ...string) Option {
	return func(s *chartbuild.StateConfig) { s.Tags = append(s.Tags, tags...) }
}

func Describe(description string) Option {
	return func(s *chartbuild.StateConfig) { s.Description = description }
}

// On adds an outbound transition to a target state. Repeated calls for the
// same event add lower-priority candidates.
func On(event string, target ID, opts ...TransOption) Option {
	return func(s *chartbuild.StateConfig) {
		t := chartbuild.TransitionConfig{Target: target}
		// optional guard and/or action
		for _, opt := range opts {
			opt(&t)
		}
		if s.On == nil {
			s.On = make(chartbuild.TransitionMap)
		}
		s.On[event] = append(s.On[event], t)
	}
}

// Always adds an eventless transition.
func Always(target ID, opts ...TransOption) Option {
	return func(s *chartbuild.StateConfig) {
		t := chartbuild.TransitionConfig{Target: target}
		for _, opt := range opts {
			opt(&t)
		}
		s.Always = append(s.Always, t)
	}
}

// AfterDelay adds a delayed transition.
func AfterDelay(delay chartbuild.Delay, target ID, opts ...TransOption) Option {
	return func(s *chartbuild.StateConfig) {
		t := chartbuild.TransitionConfig{Target: target}
		for _, opt := range opts {
			opt(&t)
		}
		if s.After == nil {
			s.After = make(chartbuild.DelayedTransitions)
		}
		s.After[delay] = t
	}
}

// Invoke starts the named actor while the state is active.
func Invoke(src string, onDone, onError ID) Option {
	return func(s *chartbuild.StateConfig) {
		inv := &chartbuild.InvokeConfig{Src: src}
		if onDone != "" {
			inv.OnDone = &chartbuild.TransitionConfig{Target: onDone}
		}
		if onError != "" {
			inv.OnError = &chartbuild.TransitionConfig{Target: onError}
		}
		s.Invoke = inv
	}
}

type TransOption func(*chartbuild.TransitionConfig)

func WithGuard(guard string) TransOption {
	return func(t *chartbuild.TransitionConfig) { t.Guard = guard }
}

func WithAction(actions ...string) TransOption {
	return func(t *chartbuild.TransitionConfig) { t.Actions = append(t.Actions, actions...) }
}

func WithDescription(description string) TransOption {
	return func(t *chartbuild.TransitionConfig) { t.Description = description }
}

// Reenter makes a self transition exit and re-enter the state.
func Reenter() TransOption {
	return func(t *chartbuild.TransitionConfig) { t.Reenter = true }
}
