package chartbuild

import (
	"context"
	"fmt"
	"maps"
	"time"
)

// ActionFunc is a side-effect action. It must not change the context.
type ActionFunc[C any] func(ctx C, evt Event)

// AssignFunc is a context-updating action; it returns the next context.
type AssignFunc[C any] func(ctx C, evt Event) C

// GuardFunc decides whether a guarded transition is enabled.
type GuardFunc[C any] func(ctx C, evt Event) bool

// DelayFunc computes a delay from the current context and event.
type DelayFunc[C any] func(ctx C, evt Event) time.Duration

// PromiseFunc is a one-shot actor: its result completes the invocation
// (onDone) and its error fails it (onError).
type PromiseFunc func(ctx context.Context, input map[string]any) (any, error)

// Action holds exactly one of Exec or Assign.
type Action[C any] struct {
	Exec   ActionFunc[C]
	Assign AssignFunc[C]
}

// IsAssign reports whether the action updates the context.
func (a Action[C]) IsAssign() bool {
	return a.Assign != nil
}

// Apply runs the action against ctx and returns the resulting context.
func (a Action[C]) Apply(ctx C, evt Event) C {
	switch {
	case a.Assign != nil:
		return a.Assign(ctx, evt)
	case a.Exec != nil:
		a.Exec(ctx, evt)
	}
	return ctx
}

// DelayImpl is a delay implementation: a fixed duration, a function of the
// context, or a reference to another named delay.
type DelayImpl[C any] struct {
	Fixed time.Duration
	Func  DelayFunc[C]
	Ref   string
}

type (
	Actions[C any] map[string]Action[C]
	Guards[C any]  map[string]GuardFunc[C]
	Delays[C any]  map[string]DelayImpl[C]
	Actors         map[string]any
)

// Eval evaluates the named guard. An empty name passes; unregistered
// guards fail closed.
func (g Guards[C]) Eval(name string, ctx C, evt Event) bool {
	if name == "" {
		return true
	}
	fn, ok := g[name]
	if !ok || fn == nil {
		return false
	}
	return fn(ctx, evt)
}

// Duration resolves delay: literal millisecond delays directly, named
// delays through the map, following references.
func (d Delays[C]) Duration(delay Delay, ctx C, evt Event) (time.Duration, error) {
	if ms, ok := delay.Millis(); ok {
		return time.Duration(ms) * time.Millisecond, nil
	}
	impl, err := d.Resolve(string(delay))
	if err != nil {
		return 0, err
	}
	if impl.Func != nil {
		return impl.Func(ctx, evt), nil
	}
	return impl.Fixed, nil
}

// Resolve follows references from name to a fixed or dynamic implementation
// without evaluating it. A reference may end in a literal millisecond count.
func (d Delays[C]) Resolve(name string) (DelayImpl[C], error) {
	seen := make(map[string]bool)
	for {
		if seen[name] {
			return DelayImpl[C]{}, fmt.Errorf("%w: %q", ErrDelayCycle, name)
		}
		seen[name] = true
		impl, ok := d[name]
		if !ok {
			if ms, lit := Delay(name).Millis(); lit {
				return DelayImpl[C]{Fixed: time.Duration(ms) * time.Millisecond}, nil
			}
			return DelayImpl[C]{}, fmt.Errorf("%w: delay %q", ErrUnresolved, name)
		}
		if impl.Ref == "" {
			return impl, nil
		}
		name = impl.Ref
	}
}

// Implementations are the named behaviours a configuration refers to.
type Implementations[C any] struct {
	Actions Actions[C]
	Guards  Guards[C]
	Delays  Delays[C]
	Actors  Actors
}

// Merge returns a new set with other layered over i; other wins per name.
func (i Implementations[C]) Merge(other Implementations[C]) Implementations[C] {
	return Implementations[C]{
		Actions: mergeMaps(i.Actions, other.Actions),
		Guards:  mergeMaps(i.Guards, other.Guards),
		Delays:  mergeMaps(i.Delays, other.Delays),
		Actors:  mergeMaps(i.Actors, other.Actors),
	}
}

// Empty reports whether no implementation is set.
func (i Implementations[C]) Empty() bool {
	return len(i.Actions) == 0 && len(i.Guards) == 0 && len(i.Delays) == 0 && len(i.Actors) == 0
}

func mergeMaps[M ~map[K]V, K comparable, V any](base, over M) M {
	if base == nil && over == nil {
		return nil
	}
	out := make(M, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}
