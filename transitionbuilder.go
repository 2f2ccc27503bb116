package chartbuild

// TransitionBuilder builds a single transition. S, A and G are the state,
// action and guard identifier types.
type TransitionBuilder[S, A, G Name] struct {
	t TransitionConfig
}

func NewTransitionBuilder[S, A, G Name]() *TransitionBuilder[S, A, G] {
	return &TransitionBuilder[S, A, G]{}
}

func (tb *TransitionBuilder[S, A, G]) To(target S) *TransitionBuilder[S, A, G] {
	tb.t.Target = string(target)
	return tb
}

// WithActions sets the transition actions, replacing earlier ones.
func (tb *TransitionBuilder[S, A, G]) WithActions(actions ...A) *TransitionBuilder[S, A, G] {
	tb.t.Actions = names(actions)
	return tb
}

func (tb *TransitionBuilder[S, A, G]) GuardedBy(guard G) *TransitionBuilder[S, A, G] {
	tb.t.Guard = string(guard)
	return tb
}

func (tb *TransitionBuilder[S, A, G]) WithDelay(delay Delay) *TransitionBuilder[S, A, G] {
	tb.t.Delay = delay
	return tb
}

func (tb *TransitionBuilder[S, A, G]) DescribedAs(description string) *TransitionBuilder[S, A, G] {
	tb.t.Description = description
	return tb
}

// Reentering makes a transition to the source state or a descendant exit
// and re-enter the source.
func (tb *TransitionBuilder[S, A, G]) Reentering() *TransitionBuilder[S, A, G] {
	tb.t.Reenter = true
	return tb
}

func (tb *TransitionBuilder[S, A, G]) Build() TransitionConfig {
	return tb.t.clone()
}

// StepBuilder collects the transitions of one state, event by event, into
// an "on" block. E is the event identifier type.
type StepBuilder[S, E, A, G Name] struct {
	state S
	defs  []TransitionDefinition
}

// NewStepBuilder starts the transition block for the named state.
func NewStepBuilder[S, E, A, G Name](state S) *StepBuilder[S, E, A, G] {
	return &StepBuilder[S, E, A, G]{state: state}
}

// State returns the state this block belongs to.
func (sb *StepBuilder[S, E, A, G]) State() S {
	return sb.state
}

// WithTransitionDefinition adds the candidate transitions for event, in
// priority order.
func (sb *StepBuilder[S, E, A, G]) WithTransitionDefinition(event E, transitions ...TransitionConfig) *StepBuilder[S, E, A, G] {
	sb.defs = append(sb.defs, TransitionDefinition{
		Event:       string(event),
		Transitions: transitions,
	})
	return sb
}

func (sb *StepBuilder[S, E, A, G]) Build() TransitionMap {
	return NewTransitionMap(sb.defs...)
}
