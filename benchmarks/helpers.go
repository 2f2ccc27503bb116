// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/chartbuild"
	"github.com/comalice/chartbuild/builder"
)

// GenFlatConfig creates a flat machine with n atomic states cycling via "tick" events.
func GenFlatConfig(n int) chartbuild.MachineConfig {
	if n < 1 {
		n = 1
	}
	children := make([]builder.Child, n)
	for i := range n {
		target := fmt.Sprintf("s%d", (i+1)%n)
		children[i] = builder.Of(fmt.Sprintf("s%d", i), builder.New(
			builder.On("tick", target),
			builder.OnEntry("count"),
		))
	}
	return builder.Machine(fmt.Sprintf("flat_%d", n), builder.Composite(children))
}

// GenDeepConfig creates a deeply nested hierarchy flipping between leaves at
// every level. The innermost leaf jumps back to the top with an absolute
// target.
func GenDeepConfig(depth int) chartbuild.MachineConfig {
	if depth < 1 {
		depth = 1
	}
	id := fmt.Sprintf("deep_%d", depth)

	var inner *chartbuild.StateConfig
	for i := depth - 1; i >= 0; i-- {
		leaf2 := []builder.Option{builder.On("tick", "leaf1")}
		if inner == nil {
			leaf2 = append(leaf2, builder.On("reset", "#"+id+".c0.leaf1"))
		}
		children := []builder.Child{
			builder.Of("leaf1", builder.New(builder.On("tick", "leaf2"))),
			builder.Of("leaf2", builder.New(leaf2...)),
		}
		if inner != nil {
			children = append(children, builder.Of(fmt.Sprintf("c%d", i+1), inner))
		}
		inner = builder.Composite(children)
	}
	return builder.Machine(id, builder.Composite([]builder.Child{builder.Of("c0", inner)}))
}

// GenWideTransitions creates one main state with many guarded "tick"
// candidates, highest priority first.
func GenWideTransitions(numTransitions int) chartbuild.MachineConfig {
	if numTransitions < 1 {
		numTransitions = 1
	}
	opts := make([]builder.Option, 0, numTransitions)
	children := []builder.Child{}
	for i := range numTransitions {
		target := fmt.Sprintf("target%d", i)
		opts = append(opts, builder.On("tick", target, builder.WithGuard(fmt.Sprintf("guard%d", i))))
		children = append(children, builder.Of(target, builder.New(builder.On("tick", "main"))))
	}
	children = append([]builder.Child{builder.Of("main", builder.New(opts...))}, children...)
	return builder.Machine(fmt.Sprintf("wide_%d", numTransitions), builder.Composite(children))
}
