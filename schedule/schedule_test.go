package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/depgraph"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/symtab"
	"github.com/viant/flowc/types"
)

// buildDiamond builds x = a + b; y = a - b; z = x + y, none of which uses
// fby/last, so x and y are both immediately ready and must come out in
// ascending-id order ahead of z.
func buildDiamond(t *testing.T) (*hir.Component, *hir.Store, *symtab.Table) {
	tab := symtab.New()
	store := hir.NewStore()
	sink := &errs.List{}

	aID, _ := tab.InsertIdentifier("a", symtab.KindInput, symtab.ScopeInput, types.NewInt(), errs.NoLocation, sink)
	bID, _ := tab.InsertIdentifier("b", symtab.KindInput, symtab.ScopeInput, types.NewInt(), errs.NoLocation, sink)
	xID, _ := tab.InsertIdentifier("x", symtab.KindLocal, symtab.ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	yID, _ := tab.InsertIdentifier("y", symtab.KindLocal, symtab.ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	zID, _ := tab.InsertIdentifier("z", symtab.KindOutput, symtab.ScopeOutput, types.NewInt(), errs.NoLocation, sink)
	compID, _ := tab.InsertIdentifier("diamond", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)

	aExpr := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: aID, Type: types.NewInt()})
	bExpr := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: bID, Type: types.NewInt()})
	xExpr := store.New(hir.Expr{Kind: hir.KBinop, Op: "+", X: aExpr, Y: bExpr, Type: types.NewInt()})
	yExpr := store.New(hir.Expr{Kind: hir.KBinop, Op: "-", X: aExpr, Y: bExpr, Type: types.NewInt()})
	xRead := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: xID, Type: types.NewInt()})
	yRead := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: yID, Type: types.NewInt()})
	zExpr := store.New(hir.Expr{Kind: hir.KBinop, Op: "+", X: xRead, Y: yRead, Type: types.NewInt()})

	comp := &hir.Component{
		ID:      compID,
		Inputs:  []symtab.ID{aID, bID},
		Outputs: []symtab.ID{zID},
		Equations: map[symtab.ID]hir.Equation{
			xID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: xID}, Expr: xExpr},
			yID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: yID}, Expr: yExpr},
			zID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: zID}, Expr: zExpr},
		},
	}
	return comp, store, tab
}

func TestScheduleOrdersByDependencyThenAscendingID(t *testing.T) {
	comp, store, tab := buildDiamond(t)
	g := depgraph.Build(comp, store, nil)
	sink := &errs.List{}

	order, ok := Schedule(comp, g, tab, sink)
	assert.True(t, ok)
	assert.Equal(t, 0, sink.Len())
	assert.Len(t, order, 3)

	zID := comp.Outputs[0]
	assert.Equal(t, zID, order[2], "z depends on both x and y so it must schedule last")
	assert.True(t, order[0] < order[1], "x and y are both ready immediately; ascending id breaks the tie")
}

// TestScheduleOnSurvivingCyclePanicsAsInternalError builds a zero-delay
// cycle directly (p reads q, q reads p) and calls Schedule without going
// through depgraph.Causal first, simulating the invariant depgraph.Causal
// is normally trusted to rule out before Schedule ever runs. Per spec.md
// §4.7/§7 this must surface as an errs.Internal, not the ordinary
// user-facing errs.NotCausalComponent a source-level cycle gets.
func TestScheduleOnSurvivingCyclePanicsAsInternalError(t *testing.T) {
	tab := symtab.New()
	store := hir.NewStore()
	sink := &errs.List{}

	pID, _ := tab.InsertIdentifier("p", symtab.KindLocal, symtab.ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	qID, _ := tab.InsertIdentifier("q", symtab.KindLocal, symtab.ScopeLocal, types.NewInt(), errs.NoLocation, sink)
	compID, _ := tab.InsertIdentifier("cyclic", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)

	pRead := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: pID, Type: types.NewInt()})
	qRead := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: qID, Type: types.NewInt()})

	comp := &hir.Component{
		ID: compID,
		Equations: map[symtab.ID]hir.Equation{
			pID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: pID}, Expr: qRead},
			qID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: qID}, Expr: pRead},
		},
	}
	g := depgraph.Build(comp, store, nil)

	assert.Panics(t, func() { Schedule(comp, g, tab, sink) })
	assert.Equal(t, 0, sink.Len(), "an internal invariant violation bypasses the Sink entirely")
}
