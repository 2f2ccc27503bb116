package chartbuild

import (
	"maps"
)

// StateBuilder provides fluent methods for configuring an individual state.
// A is the application's action identifier type.
type StateBuilder[A Name] struct {
	state StateConfig
}

// NewStateBuilder returns a builder for an atomic state with no fields set.
func NewStateBuilder[A Name]() *StateBuilder[A] {
	return &StateBuilder[A]{}
}

// WithEntry sets the entry actions, replacing earlier ones.
func (sb *StateBuilder[A]) WithEntry(actions ...A) *StateBuilder[A] {
	sb.state.Entry = names(actions)
	return sb
}

// WithExit sets the exit actions, replacing earlier ones.
func (sb *StateBuilder[A]) WithExit(actions ...A) *StateBuilder[A] {
	sb.state.Exit = names(actions)
	return sb
}

// WithTag appends a tag.
func (sb *StateBuilder[A]) WithTag(tag string) *StateBuilder[A] {
	sb.state.Tags = append(sb.state.Tags, tag)
	return sb
}

// WithTags appends tags, keeping earlier ones.
func (sb *StateBuilder[A]) WithTags(tags ...string) *StateBuilder[A] {
	sb.state.Tags = append(sb.state.Tags, tags...)
	return sb
}

// WithMeta merges meta into the state's metadata; later keys win.
func (sb *StateBuilder[A]) WithMeta(meta map[string]any) *StateBuilder[A] {
	if len(meta) == 0 && sb.state.Meta != nil {
		return sb
	}
	if sb.state.Meta == nil {
		sb.state.Meta = make(map[string]any, len(meta))
	}
	maps.Copy(sb.state.Meta, meta)
	return sb
}

func (sb *StateBuilder[A]) WithDescription(description string) *StateBuilder[A] {
	sb.state.Description = description
	return sb
}

// WithOutput sets the done data. A nil output is kept as an explicit null.
func (sb *StateBuilder[A]) WithOutput(output any) *StateBuilder[A] {
	sb.state.Output = NewOutput(output)
	return sb
}

// AsFinalState marks the state final.
func (sb *StateBuilder[A]) AsFinalState() *StateBuilder[A] {
	sb.state.Type = Final
	return sb
}

// AsFinalStateWithOutput marks the state final and sets its done data.
func (sb *StateBuilder[A]) AsFinalStateWithOutput(output any) *StateBuilder[A] {
	sb.state.Type = Final
	sb.state.Output = NewOutput(output)
	return sb
}

// WithTransitions sets the "on" block, typically from StepBuilder.
func (sb *StateBuilder[A]) WithTransitions(on TransitionMap) *StateBuilder[A] {
	sb.state.On = on.clone()
	return sb
}

// WithInvoke sets the invoked actor, typically from InvokeBuilder.
func (sb *StateBuilder[A]) WithInvoke(invoke InvokeConfig) *StateBuilder[A] {
	sb.state.Invoke = invoke.Clone()
	return sb
}

// WithAfter sets the delayed transitions, replacing earlier ones.
func (sb *StateBuilder[A]) WithAfter(after DelayedTransitions) *StateBuilder[A] {
	if after == nil {
		return sb
	}
	sb.state.After = after.clone()
	return sb
}

// WithAlways appends an eventless transition.
func (sb *StateBuilder[A]) WithAlways(target string) *StateBuilder[A] {
	sb.state.Always = append(sb.state.Always, TransitionConfig{Target: target})
	return sb
}

// WithGuardedAlways appends an eventless transition taken when guard passes.
func (sb *StateBuilder[A]) WithGuardedAlways(target, guard string) *StateBuilder[A] {
	sb.state.Always = append(sb.state.Always, TransitionConfig{Target: target, Guard: guard})
	return sb
}

// WithInitial sets the initial child of a compound state.
func (sb *StateBuilder[A]) WithInitial(initial string) *StateBuilder[A] {
	sb.state.Initial = initial
	return sb
}

// WithStates sets the child states, typically from StatesBuilder.
func (sb *StateBuilder[A]) WithStates(states map[string]*StateConfig) *StateBuilder[A] {
	sb.state.States = make(map[string]*StateConfig, len(states))
	for name, s := range states {
		sb.state.States[name] = s.Clone()
	}
	return sb
}

// AsParallel makes the child states orthogonal regions.
func (sb *StateBuilder[A]) AsParallel() *StateBuilder[A] {
	sb.state.Type = Parallel
	return sb
}

// AsHistory turns the state into a history pseudo-state. target is the
// default entered when no history has been recorded; it may be empty.
func (sb *StateBuilder[A]) AsHistory(history HistoryType, target string) *StateBuilder[A] {
	sb.state.Type = History
	sb.state.History = history
	sb.state.Target = target
	return sb
}

// Build returns a copy of the state configuration.
func (sb *StateBuilder[A]) Build() *StateConfig {
	return sb.state.Clone()
}
