package chartbuild

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Machine is what MachineBuilder.Build hands to the runtime: a validated
// configuration plus the implementations it refers to. A Machine is
// immutable; Provide returns a new one.
type Machine[C any] struct {
	config MachineConfig
	impl   Implementations[C]
	logger *zap.Logger
}

// NewMachine validates config and pairs it with impl.
func NewMachine[C any](config MachineConfig, impl Implementations[C]) (*Machine[C], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Machine[C]{config: *config.Clone(), impl: impl, logger: zap.NewNop()}, nil
}

// ID returns the machine ID.
func (m *Machine[C]) ID() string {
	return m.config.ID
}

// Version returns the configured version or a content hash.
func (m *Machine[C]) Version() string {
	return ComputeVersion(&m.config)
}

// Config returns a deep copy of the configuration.
func (m *Machine[C]) Config() MachineConfig {
	return *m.config.Clone()
}

// Implementations returns the implementations provided so far.
func (m *Machine[C]) Implementations() Implementations[C] {
	return m.impl.Merge(Implementations[C]{})
}

// Context returns the initial context when it has type C.
func (m *Machine[C]) Context() (C, bool) {
	c, ok := m.config.Context.(C)
	return c, ok
}

// Provide returns a copy of the machine whose implementations are impl
// layered over the current ones.
func (m *Machine[C]) Provide(impl Implementations[C]) *Machine[C] {
	next := &Machine[C]{
		config: *m.config.Clone(),
		impl:   m.impl.Merge(impl),
		logger: m.logger,
	}
	m.logger.Debug("provided implementations",
		zap.String("machine", m.config.ID),
		zap.Int("actions", len(impl.Actions)),
		zap.Int("guards", len(impl.Guards)),
		zap.Int("delays", len(impl.Delays)),
		zap.Int("actors", len(impl.Actors)))
	return next
}

// Unresolved lists the referenced names that have no implementation.
// Invocations carrying inline Logic need no actor; literal delays need no
// delay implementation. Names registered with a nil function count as
// unresolved.
func (m *Machine[C]) Unresolved() References {
	refs := m.config.References()
	var out References
	for _, a := range refs.Actions {
		if fn, ok := m.impl.Actions[a]; !ok || (fn.Exec == nil && fn.Assign == nil) {
			out.Actions = append(out.Actions, a)
		}
	}
	for _, g := range refs.Guards {
		if fn, ok := m.impl.Guards[g]; !ok || fn == nil {
			out.Guards = append(out.Guards, g)
		}
	}
	for _, d := range refs.Delays {
		if _, err := m.impl.Delays.Resolve(d); err != nil {
			out.Delays = append(out.Delays, d)
		}
	}
	for _, a := range refs.Actors {
		if _, ok := m.impl.Actors[a]; !ok {
			out.Actors = append(out.Actors, a)
		}
	}
	return out
}

// CheckImplementations returns an ErrUnresolved error naming every missing
// implementation, or nil.
func (m *Machine[C]) CheckImplementations() error {
	u := m.Unresolved()
	var errs []error
	report := func(kind string, list []string) {
		for _, name := range list {
			errs = append(errs, fmt.Errorf("%w: %s %q", ErrUnresolved, kind, name))
		}
	}
	report("action", u.Actions)
	report("guard", u.Guards)
	report("delay", u.Delays)
	report("actor", u.Actors)
	return errors.Join(errs...)
}

// Tagged returns the dot paths of states carrying tag, sorted.
func (m *Machine[C]) Tagged(tag string) []string {
	var out []string
	for path, s := range m.config.Flatten() {
		if slices.Contains(s.Tags, tag) {
			out = append(out, path)
		}
	}
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the configuration; implementations are not data.
func (m *Machine[C]) MarshalJSON() ([]byte, error) {
	return json.Marshal(&m.config)
}

func (m *Machine[C]) MarshalYAML() (any, error) {
	return &m.config, nil
}

var _ yaml.Marshaler = (*Machine[struct{}])(nil)
