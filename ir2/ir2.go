// Package ir2 synthesizes the per-component state-machine shape spec.md
// §4.10 describes: an Input/Output/State record triple plus the statement
// lists a pure init() (state at tick 0) and step() (state at tick n+1, plus
// this tick's outputs) would evaluate. Final target-language code
// generation from this shape is explicitly out of scope (spec.md
// Non-goals); ir2.Component only carries the shape those two functions
// would have.
package ir2

import (
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/ir1"
	"github.com/viant/flowc/symtab"
)

// Component is one component's IR2 state-machine description.
type Component struct {
	ID symtab.ID

	Input  []symtab.ID
	Output []symtab.ID

	// StateBuffers enumerates every buffer memory slot that must survive
	// between ticks; called sub-component slots are in StateCalls.
	StateBuffers []symtab.ID

	// StateCalls maps each call-state slot to the id of the component it
	// was instantiated from (hir.MemoryDescriptor.CalledComponents, carried
	// through rather than discarded), so init()/step() can recurse into
	// that callee's own State shape. CalleeState resolves the same keys to
	// the callee's actual synthesized ir2.Component, filled in by
	// Synthesize's second pass once every component's shape exists.
	StateCalls  map[symtab.ID]symtab.ID
	CalleeState map[symtab.ID]*Component

	// Init holds, for each state buffer, the equation that computes its
	// tick-0 value (BufferSlot.InitConst); a buffer with no declared init
	// (NoExpr) takes its type's zero value at tick 0.
	Init map[symtab.ID]hir.ExprID

	// Step is every equation of the component, already scheduled by ir1, in
	// evaluation order — this is the step() body. Each state buffer is
	// additionally re-armed from its BufferSlot.Source expression at the
	// end of the tick, recorded in StepAdvance.
	Step        []symtab.ID
	Equations   map[symtab.ID]hir.Equation
	StepAdvance map[symtab.ID]hir.ExprID
}

type Program struct {
	Components []*Component
}

// Synthesize builds the IR2 program from an already-scheduled IR1 one. It
// runs in two passes: the first builds every component's own shape in
// isolation (so StateCalls can record each call slot's callee id even
// before that callee's own Component exists yet); the second resolves
// CalleeState once every component in the program has been synthesized,
// since a component can call another declared later in prog.Components.
func Synthesize(prog *ir1.Program) *Program {
	out := &Program{}
	byID := map[symtab.ID]*Component{}

	for _, c := range prog.Components {
		ic := &Component{
			ID:          c.ID,
			Input:       c.Inputs,
			Output:      c.Outputs,
			Equations:   c.Equations,
			Step:        c.Order,
			Init:        map[symtab.ID]hir.ExprID{},
			StepAdvance: map[symtab.ID]hir.ExprID{},
			StateCalls:  map[symtab.ID]symtab.ID{},
			CalleeState: map[symtab.ID]*Component{},
		}
		for bufID, slot := range c.Memory.Buffers {
			ic.StateBuffers = append(ic.StateBuffers, bufID)
			ic.Init[bufID] = slot.InitConst
			ic.StepAdvance[bufID] = slot.Source
		}
		for memID, calleeID := range c.Memory.CalledComponents {
			ic.StateCalls[memID] = calleeID
		}
		out.Components = append(out.Components, ic)
		byID[c.ID] = ic
	}

	for _, ic := range out.Components {
		for slot, calleeID := range ic.StateCalls {
			if callee, ok := byID[calleeID]; ok {
				ic.CalleeState[slot] = callee
			}
		}
	}

	return out
}
