// Package chartbuild assembles declarative statechart configuration records
// with small fluent builders.
//
// The records (MachineConfig, StateConfig, TransitionConfig, InvokeConfig,
// ...) are plain data with json and yaml tags. They are produced here and
// interpreted by an external statechart runtime; nothing in this package
// selects transitions, evaluates guards or runs actions.
//
// Builders are generic over application identifier types so that an
// application can specialize states, events, actions and guards into its own
// string enumerations:
//
//	type StepState string
//	type StepAction string
//	type StepGuard string
//
//	t := chartbuild.NewTransitionBuilder[StepState, StepAction, StepGuard]().
//		To("step2").
//		WithActions("logTransition").
//		GuardedBy("canGoNext").
//		Build()
//
// Implementations (actions, guards, delays, actors) travel next to the
// configuration in a Machine and can be swapped with Machine.Provide.
package chartbuild
