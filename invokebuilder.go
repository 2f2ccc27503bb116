package chartbuild

import (
	"maps"

	"github.com/google/uuid"
)

// InvokeBuilder builds an actor invocation. S and A are the state and
// action identifier types used by the done and error transitions.
type InvokeBuilder[S, A Name] struct {
	invoke InvokeConfig
}

func NewInvokeBuilder[S, A Name]() *InvokeBuilder[S, A] {
	return &InvokeBuilder[S, A]{}
}

// WithSource names the actor implementation to invoke.
func (ib *InvokeBuilder[S, A]) WithSource(src string) *InvokeBuilder[S, A] {
	ib.invoke.Src = src
	ib.invoke.Logic = nil
	return ib
}

// WithSourceLogic invokes an in-process actor (for example a PromiseFunc)
// instead of a named one. The logic is not serialized.
func (ib *InvokeBuilder[S, A]) WithSourceLogic(logic any) *InvokeBuilder[S, A] {
	ib.invoke.Logic = logic
	return ib
}

func (ib *InvokeBuilder[S, A]) WithID(id string) *InvokeBuilder[S, A] {
	ib.invoke.ID = id
	return ib
}

// WithGeneratedID assigns a random UUID as the invocation ID.
func (ib *InvokeBuilder[S, A]) WithGeneratedID() *InvokeBuilder[S, A] {
	ib.invoke.ID = uuid.NewString()
	return ib
}

// WithInput sets the input passed to the actor, typically from InputBuilder.
func (ib *InvokeBuilder[S, A]) WithInput(input map[string]any) *InvokeBuilder[S, A] {
	ib.invoke.Input = maps.Clone(input)
	return ib
}

// OnDone sets the transition taken when the actor completes. Empty target
// and no actions leave an empty record.
func (ib *InvokeBuilder[S, A]) OnDone(target S, actions ...A) *InvokeBuilder[S, A] {
	ib.invoke.OnDone = &TransitionConfig{Target: string(target), Actions: names(actions)}
	return ib
}

// OnError sets the transition taken when the actor fails.
func (ib *InvokeBuilder[S, A]) OnError(target S, actions ...A) *InvokeBuilder[S, A] {
	ib.invoke.OnError = &TransitionConfig{Target: string(target), Actions: names(actions)}
	return ib
}

// WithOnDone sets a complete done transition, e.g. one with a guard.
func (ib *InvokeBuilder[S, A]) WithOnDone(t TransitionConfig) *InvokeBuilder[S, A] {
	t = t.clone()
	ib.invoke.OnDone = &t
	return ib
}

func (ib *InvokeBuilder[S, A]) WithOnError(t TransitionConfig) *InvokeBuilder[S, A] {
	t = t.clone()
	ib.invoke.OnError = &t
	return ib
}

func (ib *InvokeBuilder[S, A]) Build() InvokeConfig {
	return *ib.invoke.Clone()
}
