package chartbuild

// StatesBuilder collects sibling states keyed by name.
type StatesBuilder[S Name] struct {
	states map[string]*StateConfig
}

func NewStatesBuilder[S Name]() *StatesBuilder[S] {
	return &StatesBuilder[S]{states: make(map[string]*StateConfig)}
}

// WithState adds or replaces the named state.
func (sb *StatesBuilder[S]) WithState(name S, state *StateConfig) *StatesBuilder[S] {
	sb.states[string(name)] = state.Clone()
	return sb
}

func (sb *StatesBuilder[S]) Build() map[string]*StateConfig {
	out := make(map[string]*StateConfig, len(sb.states))
	for name, s := range sb.states {
		out[name] = s.Clone()
	}
	return out
}
