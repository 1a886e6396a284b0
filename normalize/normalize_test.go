package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/symtab"
	"github.com/viant/flowc/types"
)

// TestNormalizeSingleBufferCounter reproduces spec.md §8 scenario 1:
// `out o: int = 0 fby (o + inc);` normalizes to a single memory slot
// initialized to 0 with source `o + inc`, and the equation for `o` becomes
// a bare read of that slot.
func TestNormalizeSingleBufferCounter(t *testing.T) {
	tab := symtab.New()
	store := hir.NewStore()
	sink := &errs.List{}

	incID, _ := tab.InsertIdentifier("inc", symtab.KindInput, symtab.ScopeInput, types.NewInt(), errs.NoLocation, sink)
	oID, _ := tab.InsertIdentifier("o", symtab.KindOutput, symtab.ScopeOutput, types.NewInt(), errs.NoLocation, sink)
	compID, _ := tab.InsertIdentifier("counter", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)

	incExpr := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: incID, Type: types.NewInt()})
	oExpr := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: oID, Type: types.NewInt()})
	sumExpr := store.New(hir.Expr{Kind: hir.KBinop, Op: "+", X: oExpr, Y: incExpr, Type: types.NewInt()})
	zeroExpr := store.New(hir.Expr{Kind: hir.KConstant, ConstKind: "int", IntVal: 0, Type: types.NewInt()})
	fbyExpr := store.New(hir.Expr{Kind: hir.KFollowedBy, Const: zeroExpr, Next: sumExpr, Type: types.NewInt()})

	comp := &hir.Component{
		ID:      compID,
		Inputs:  []symtab.ID{incID},
		Outputs: []symtab.ID{oID},
		Equations: map[symtab.ID]hir.Equation{
			oID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: oID}, Expr: fbyExpr},
		},
	}

	mem := New(tab, store, map[symtab.ID]*hir.Component{compID: comp}).Normalize(comp)

	assert.Len(t, mem.Buffers, 1)
	var slot hir.BufferSlot
	var bufID symtab.ID
	for id, s := range mem.Buffers {
		bufID, slot = id, s
	}
	assert.Equal(t, zeroExpr, slot.InitConst)

	source := store.Get(slot.Source)
	assert.Equal(t, hir.KBinop, source.Kind)
	assert.Equal(t, "+", source.Op)

	rewrittenO := store.Get(comp.Equations[oID].Expr)
	assert.Equal(t, hir.KIdentifier, rewrittenO.Kind)
	assert.Equal(t, bufID, rewrittenO.Ident)
}

// TestInlineShiftedCycleFibonacci reproduces spec.md §8 scenario 2: a
// component `semi_fib(i) = 0 fby (i + (1 fby i))` called as
// `fib = semi_fib(fib).o;` must be inlined away entirely rather than
// scheduled as a self-referential call — the call's own argument is the id
// its equation defines, so only substituting the callee's body in place
// (InlineShiftedCycle) makes the result representable as ordinary buffers.
func TestInlineShiftedCycleFibonacci(t *testing.T) {
	tab := symtab.New()
	store := hir.NewStore()
	sink := &errs.List{}

	iID, _ := tab.InsertIdentifier("i", symtab.KindInput, symtab.ScopeInput, types.NewInt(), errs.NoLocation, sink)
	oID, _ := tab.InsertIdentifier("o", symtab.KindOutput, symtab.ScopeOutput, types.NewInt(), errs.NoLocation, sink)
	semiFibID, _ := tab.InsertIdentifier("semi_fib", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)

	iRead1 := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: iID, Type: types.NewInt()})
	iRead2 := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: iID, Type: types.NewInt()})
	oneExpr := store.New(hir.Expr{Kind: hir.KConstant, ConstKind: "int", IntVal: 1, Type: types.NewInt()})
	innerFby := store.New(hir.Expr{Kind: hir.KFollowedBy, Const: oneExpr, Next: iRead2, Type: types.NewInt()})
	sumExpr := store.New(hir.Expr{Kind: hir.KBinop, Op: "+", X: iRead1, Y: innerFby, Type: types.NewInt()})
	zeroExpr := store.New(hir.Expr{Kind: hir.KConstant, ConstKind: "int", IntVal: 0, Type: types.NewInt()})
	outerFby := store.New(hir.Expr{Kind: hir.KFollowedBy, Const: zeroExpr, Next: sumExpr, Type: types.NewInt()})

	semiFib := &hir.Component{
		ID:      semiFibID,
		Inputs:  []symtab.ID{iID},
		Outputs: []symtab.ID{oID},
		Equations: map[symtab.ID]hir.Equation{
			oID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: oID}, Expr: outerFby},
		},
	}

	fibID, _ := tab.InsertIdentifier("fib", symtab.KindOutput, symtab.ScopeOutput, types.NewInt(), errs.NoLocation, sink)
	mainID, _ := tab.InsertIdentifier("main", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)
	fibArg := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: fibID, Type: types.NewInt()})
	callExpr := store.New(hir.Expr{Kind: hir.KUnitaryNodeApplication, NodeID: semiFibID, OutputID: oID,
		Args: []hir.ExprID{fibArg}, Type: types.NewInt()})

	main := &hir.Component{
		ID:      mainID,
		Outputs: []symtab.ID{fibID},
		Equations: map[symtab.ID]hir.Equation{
			fibID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: fibID}, Expr: callExpr},
		},
	}

	components := map[symtab.ID]*hir.Component{semiFibID: semiFib, mainID: main}
	mem := New(tab, store, components).Normalize(main)

	assert.Empty(t, mem.CalledComponents, "the call must be inlined away, not recorded as a call-state slot")
	assert.Len(t, mem.Buffers, 2, "semi_fib's two fby operators both become buffers of the caller")

	inits := map[int64]bool{}
	for _, slot := range mem.Buffers {
		c := store.Get(slot.InitConst)
		inits[c.IntVal] = true
	}
	assert.Equal(t, map[int64]bool{0: true, 1: true}, inits)

	rewrittenFib := store.Get(main.Equations[fibID].Expr)
	assert.Equal(t, hir.KIdentifier, rewrittenFib.Kind)
	zeroSlot := mem.Buffers[rewrittenFib.Ident]
	assert.Equal(t, int64(0), store.Get(zeroSlot.InitConst).IntVal, "fib itself must read the zero-initialized buffer")
}
