package chartbuild

import (
	"maps"
	"time"
)

// ActionsBuilder collects action implementations keyed by A.
type ActionsBuilder[A Name, C any] struct {
	actions Actions[C]
}

func NewActionsBuilder[A Name, C any]() *ActionsBuilder[A, C] {
	return &ActionsBuilder[A, C]{actions: make(Actions[C])}
}

// WithAction registers a side-effect action.
func (ab *ActionsBuilder[A, C]) WithAction(name A, fn ActionFunc[C]) *ActionsBuilder[A, C] {
	ab.actions[string(name)] = Action[C]{Exec: fn}
	return ab
}

// WithAssignAction registers an action that returns the updated context.
func (ab *ActionsBuilder[A, C]) WithAssignAction(name A, fn AssignFunc[C]) *ActionsBuilder[A, C] {
	ab.actions[string(name)] = Action[C]{Assign: fn}
	return ab
}

func (ab *ActionsBuilder[A, C]) Build() Actions[C] {
	return maps.Clone(ab.actions)
}

// GuardsBuilder collects guard implementations keyed by G.
type GuardsBuilder[G Name, C any] struct {
	guards Guards[C]
}

func NewGuardsBuilder[G Name, C any]() *GuardsBuilder[G, C] {
	return &GuardsBuilder[G, C]{guards: make(Guards[C])}
}

func (gb *GuardsBuilder[G, C]) WithGuard(name G, fn GuardFunc[C]) *GuardsBuilder[G, C] {
	gb.guards[string(name)] = fn
	return gb
}

func (gb *GuardsBuilder[G, C]) Build() Guards[C] {
	return maps.Clone(gb.guards)
}

// DelaysBuilder collects delay implementations keyed by D.
type DelaysBuilder[D Name, C any] struct {
	delays Delays[C]
}

func NewDelaysBuilder[D Name, C any]() *DelaysBuilder[D, C] {
	return &DelaysBuilder[D, C]{delays: make(Delays[C])}
}

// WithDelay registers a fixed delay.
func (db *DelaysBuilder[D, C]) WithDelay(name D, d time.Duration) *DelaysBuilder[D, C] {
	db.delays[string(name)] = DelayImpl[C]{Fixed: d}
	return db
}

// WithDynamicDelay registers a delay computed from the context and event.
func (db *DelaysBuilder[D, C]) WithDynamicDelay(name D, fn DelayFunc[C]) *DelaysBuilder[D, C] {
	db.delays[string(name)] = DelayImpl[C]{Func: fn}
	return db
}

// WithDelayReference makes name an alias of another delay. ref may also be
// a literal millisecond count.
func (db *DelaysBuilder[D, C]) WithDelayReference(name D, ref string) *DelaysBuilder[D, C] {
	db.delays[string(name)] = DelayImpl[C]{Ref: ref}
	return db
}

func (db *DelaysBuilder[D, C]) Build() Delays[C] {
	return maps.Clone(db.delays)
}

// ActorsBuilder collects actor implementations by name. Values are opaque
// to this package; the runtime decides what it can run.
type ActorsBuilder struct {
	actors Actors
}

func NewActorsBuilder() *ActorsBuilder {
	return &ActorsBuilder{actors: make(Actors)}
}

func (ab *ActorsBuilder) WithActor(name string, actor any) *ActorsBuilder {
	ab.actors[name] = actor
	return ab
}

// WithActorFunction registers a plain function as actor logic.
func (ab *ActorsBuilder) WithActorFunction(name string, fn any) *ActorsBuilder {
	ab.actors[name] = fn
	return ab
}

// WithPromiseActor registers a one-shot actor.
func (ab *ActorsBuilder) WithPromiseActor(name string, fn PromiseFunc) *ActorsBuilder {
	ab.actors[name] = fn
	return ab
}

// WithServiceActor registers a long-running actor, such as another machine.
func (ab *ActorsBuilder) WithServiceActor(name string, service any) *ActorsBuilder {
	ab.actors[name] = service
	return ab
}

// WithActors adds several actors; existing names are replaced.
func (ab *ActorsBuilder) WithActors(actors map[string]any) *ActorsBuilder {
	maps.Copy(ab.actors, actors)
	return ab
}

func (ab *ActorsBuilder) Build() Actors {
	return maps.Clone(ab.actors)
}
