package chartbuild

import (
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ProvideBuilder assembles the Implementations passed to Machine.Provide,
// letting one machine structure be reused with different behaviour.
type ProvideBuilder[C any] struct {
	impl   Implementations[C]
	logger *zap.Logger
}

func NewProvideBuilder[C any]() *ProvideBuilder[C] {
	return &ProvideBuilder[C]{logger: zap.NewNop()}
}

func (pb *ProvideBuilder[C]) WithActions(actions Actions[C]) *ProvideBuilder[C] {
	pb.impl.Actions = maps.Clone(actions)
	return pb
}

func (pb *ProvideBuilder[C]) WithGuards(guards Guards[C]) *ProvideBuilder[C] {
	pb.impl.Guards = maps.Clone(guards)
	return pb
}

func (pb *ProvideBuilder[C]) WithDelays(delays Delays[C]) *ProvideBuilder[C] {
	pb.impl.Delays = maps.Clone(delays)
	return pb
}

func (pb *ProvideBuilder[C]) WithActors(actors Actors) *ProvideBuilder[C] {
	pb.impl.Actors = maps.Clone(actors)
	return pb
}

func (pb *ProvideBuilder[C]) WithLogger(logger *zap.Logger) *ProvideBuilder[C] {
	if logger == nil {
		logger = zap.NewNop()
	}
	pb.logger = logger
	return pb
}

func (pb *ProvideBuilder[C]) Build() Implementations[C] {
	pb.logger.Debug("provide implementations",
		zap.Strings("actions", slices.Sorted(maps.Keys(pb.impl.Actions))),
		zap.Strings("guards", slices.Sorted(maps.Keys(pb.impl.Guards))),
		zap.Strings("delays", slices.Sorted(maps.Keys(pb.impl.Delays))),
		zap.Strings("actors", slices.Sorted(maps.Keys(pb.impl.Actors))))
	return pb.impl.Merge(Implementations[C]{})
}
