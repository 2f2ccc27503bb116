package chartbuild

import (
	"maps"

	"go.uber.org/zap"
)

// MachineBuilder provides a fluent API for assembling a MachineConfig and
// the implementations it refers to. C is the context type; S, A and G are
// the application's state, action and guard identifier types.
type MachineBuilder[C any, S, A, G Name] struct {
	config MachineConfig
	impl   Implementations[C]
	logger *zap.Logger
}

// NewMachineBuilder creates a builder for the machine with the given ID.
func NewMachineBuilder[C any, S, A, G Name](id string) *MachineBuilder[C, S, A, G] {
	return &MachineBuilder[C, S, A, G]{
		config: MachineConfig{ID: id},
		logger: zap.NewNop(),
	}
}

// WithInitialState sets the state entered when the machine starts.
func (b *MachineBuilder[C, S, A, G]) WithInitialState(initial S) *MachineBuilder[C, S, A, G] {
	b.config.Initial = string(initial)
	return b
}

// WithContext sets the initial extended state.
func (b *MachineBuilder[C, S, A, G]) WithContext(ctx C) *MachineBuilder[C, S, A, G] {
	b.config.Context = ctx
	return b
}

// WithStates replaces the top-level states, typically from StatesBuilder.
func (b *MachineBuilder[C, S, A, G]) WithStates(states map[string]*StateConfig) *MachineBuilder[C, S, A, G] {
	b.config.States = make(map[string]*StateConfig, len(states))
	for name, s := range states {
		b.config.States[name] = s.Clone()
	}
	return b
}

// WithState adds or replaces one top-level state.
func (b *MachineBuilder[C, S, A, G]) WithState(name S, state *StateConfig) *MachineBuilder[C, S, A, G] {
	if b.config.States == nil {
		b.config.States = make(map[string]*StateConfig)
	}
	b.config.States[string(name)] = state.Clone()
	return b
}

// WithTransitions sets machine-level transitions, taken from any state.
func (b *MachineBuilder[C, S, A, G]) WithTransitions(on TransitionMap) *MachineBuilder[C, S, A, G] {
	b.config.On = on.clone()
	return b
}

// AsParallel makes the top-level states orthogonal regions.
func (b *MachineBuilder[C, S, A, G]) AsParallel() *MachineBuilder[C, S, A, G] {
	b.config.Type = Parallel
	b.config.Initial = ""
	return b
}

func (b *MachineBuilder[C, S, A, G]) WithDescription(description string) *MachineBuilder[C, S, A, G] {
	b.config.Description = description
	return b
}

// WithVersion pins the version instead of the content hash.
func (b *MachineBuilder[C, S, A, G]) WithVersion(version string) *MachineBuilder[C, S, A, G] {
	b.config.Version = version
	return b
}

// WithActions sets the action implementations, typically from ActionsBuilder.
func (b *MachineBuilder[C, S, A, G]) WithActions(actions Actions[C]) *MachineBuilder[C, S, A, G] {
	b.impl.Actions = maps.Clone(actions)
	return b
}

// WithGuards sets the guard implementations, typically from GuardsBuilder.
func (b *MachineBuilder[C, S, A, G]) WithGuards(guards Guards[C]) *MachineBuilder[C, S, A, G] {
	b.impl.Guards = maps.Clone(guards)
	return b
}

func (b *MachineBuilder[C, S, A, G]) WithDelays(delays Delays[C]) *MachineBuilder[C, S, A, G] {
	b.impl.Delays = maps.Clone(delays)
	return b
}

func (b *MachineBuilder[C, S, A, G]) WithActors(actors Actors) *MachineBuilder[C, S, A, G] {
	b.impl.Actors = maps.Clone(actors)
	return b
}

// WithLogger sets the logger used for build diagnostics.
func (b *MachineBuilder[C, S, A, G]) WithLogger(logger *zap.Logger) *MachineBuilder[C, S, A, G] {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.logger = logger
	return b
}

// Config returns a copy of the configuration assembled so far, unvalidated.
func (b *MachineBuilder[C, S, A, G]) Config() MachineConfig {
	return *b.config.Clone()
}

// Build validates the configuration and returns the Machine. The builder
// stays usable; later changes do not affect the returned Machine.
func (b *MachineBuilder[C, S, A, G]) Build() (*Machine[C], error) {
	log := b.logger.With(zap.String("machine", b.config.ID))
	if err := b.config.Validate(); err != nil {
		log.Debug("machine configuration rejected", zap.Error(err))
		return nil, err
	}

	m := &Machine[C]{
		config: *b.config.Clone(),
		impl:   b.impl.Merge(Implementations[C]{}),
		logger: b.logger,
	}
	log.Debug("built machine",
		zap.String("initial", m.config.Initial),
		zap.Int("states", len(m.config.Flatten())),
		zap.Bool("implementations", !m.impl.Empty()),
		zap.String("version", m.Version()))
	return m, nil
}
