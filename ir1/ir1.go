// Package ir1 assembles the scheduled statement sequence and component-graph
// shape that spec.md §2/§3 describe as the hand-off point into IR2
// synthesis: every component's equations in evaluation order, its memory
// descriptor, and the Seq/Para shape its independent work can run in.
package ir1

import (
	"github.com/viant/flowc/classes"
	"github.com/viant/flowc/config"
	"github.com/viant/flowc/depgraph"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/internal/clog"
	"github.com/viant/flowc/normalize"
	"github.com/viant/flowc/schedule"
	"github.com/viant/flowc/symtab"
)

// Component is one component's fully scheduled, classified form.
type Component struct {
	ID        symtab.ID
	Inputs    []symtab.ID
	Outputs   []symtab.ID
	Order     []symtab.ID
	Equations map[symtab.ID]hir.Equation
	Memory    *hir.MemoryDescriptor
	Graph     *depgraph.Graph
	Shape     *classes.Synced[symtab.ID]
}

// Program is the whole-file IR1 result.
type Program struct {
	Table      *symtab.Table
	Store      *hir.Store
	Components []*Component
}

// Build runs depgraph construction, causality/unused-signal analysis,
// normalization, scheduling and class partitioning over every component of
// prog, in that order, matching spec.md §4's pass pipeline. It returns
// false if any component fails causality; diagnostics are already in sink
// by then. A cycle surviving normalization makes schedule.Schedule panic
// with an errs.Internal value instead.
func Build(prog *hir.Program, opt config.Options, sink errs.Sink) (*Program, bool) {
	out := &Program{Table: prog.Table, Store: prog.Store}
	ok := true

	components := map[symtab.ID]*hir.Component{}
	for _, comp := range prog.Components {
		components[comp.ID] = comp
	}

	// First, naive pass: build every component's own graph with callees=nil
	// (every call treated as a zero-delay pass-through), just to compute
	// each component's ReducedIO from it. A second, real pass then rebuilds
	// every graph with those ReducedIO results available, so a caller's
	// dependency on a callee's argument correctly folds in whatever delay
	// the callee's own body (e.g. a wrapped `fby`) adds — spec.md §4.4. This
	// assumes the component call graph itself is acyclic, which holds for
	// this language's composition model (a component cannot call itself or
	// a caller of itself, only a self-referential *argument*, which
	// normalize.InlineShiftedCycle handles separately).
	callees := map[symtab.ID]depgraph.CalleeInfo{}
	for _, comp := range prog.Components {
		naive := depgraph.Build(comp, prog.Store, nil)
		callees[comp.ID] = depgraph.CalleeInfo{
			Inputs:  comp.Inputs,
			Reduced: depgraph.ReduceIO(comp, naive),
		}
	}

	for _, comp := range prog.Components {
		clog.Phase("ir1.Build", map[string]int{"equations": len(comp.Equations)})

		g := depgraph.Build(comp, prog.Store, callees)
		if !depgraph.Causal(comp, g, prog.Table, sink) {
			ok = false
			continue
		}
		depgraph.Unused(comp, g, prog.Table, sink)

		norm := normalize.New(prog.Table, prog.Store, components)
		mem := norm.Normalize(comp)
		// Normalization can introduce fresh local equations (ANF-hoisted
		// call arguments) and inline away any self-referential call
		// (InlineShiftedCycle); the dependency graph must be rebuilt over
		// the post-normalization equation set before scheduling.
		g = depgraph.Build(comp, prog.Store, callees)

		order, schedOK := schedule.Schedule(comp, g, prog.Table, sink)
		if !schedOK {
			ok = false
			continue
		}

		less := func(a, b symtab.ID) bool {
			for _, e := range g.Edges(b) {
				if e.To == a {
					return true
				}
			}
			return false
		}
		cls := classes.New(order, less)
		shape := classes.Build(cls)

		out.Components = append(out.Components, &Component{
			ID:        comp.ID,
			Inputs:    comp.Inputs,
			Outputs:   comp.Outputs,
			Order:     order,
			Equations: comp.Equations,
			Memory:    mem,
			Graph:     g,
			Shape:     shape,
		})
	}

	return out, ok
}
