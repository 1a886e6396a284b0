package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/symtab"
	"github.com/viant/flowc/types"
)

// buildCounter constructs spec.md §8 scenario 1's single-buffer counter by
// hand: `out o: int = 0 fby (o + inc);` with input inc.
func buildCounter(t *testing.T) (*hir.Component, *hir.Store, *symtab.Table) {
	tab := symtab.New()
	store := hir.NewStore()
	sink := &errs.List{}

	incID, ok := tab.InsertIdentifier("inc", symtab.KindInput, symtab.ScopeInput, types.NewInt(), errs.NoLocation, sink)
	assert.True(t, ok)
	oID, ok := tab.InsertIdentifier("o", symtab.KindOutput, symtab.ScopeOutput, types.NewInt(), errs.NoLocation, sink)
	assert.True(t, ok)
	compID, ok := tab.InsertIdentifier("counter", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)
	assert.True(t, ok)

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
	return comp, store, tab
}

func TestFollowedByDependsAtDepthOne(t *testing.T) {
	comp, store, _ := buildCounter(t)
	g := Build(comp, store, nil)

	edges := g.Edges(comp.Outputs[0])
	byTo := map[symtab.ID]Edge{}
	for _, e := range edges {
		byTo[e.To] = e
	}
	assert.Equal(t, 1, byTo[comp.Outputs[0]].Weight, "o depends on its own previous value, never same-tick")
	assert.Equal(t, 1, byTo[comp.Inputs[0]].Weight)
}

func TestCounterPassesCausality(t *testing.T) {
	comp, store, tab := buildCounter(t)
	g := Build(comp, store, nil)
	sink := &errs.List{}
	assert.True(t, Causal(comp, g, tab, sink))
	assert.Equal(t, 0, sink.Len())
}

func TestZeroDelaySelfCycleFailsCausality(t *testing.T) {
	tab := symtab.New()
	store := hir.NewStore()
	sink := &errs.List{}
	oID, _ := tab.InsertIdentifier("o", symtab.KindOutput, symtab.ScopeOutput, types.NewInt(), errs.NoLocation, sink)
	compID, _ := tab.InsertIdentifier("bad", symtab.KindComponent, symtab.ScopeLocal, nil, errs.NoLocation, sink)
	selfExpr := store.New(hir.Expr{Kind: hir.KIdentifier, Ident: oID, Type: types.NewInt()})

	comp := &hir.Component{
		ID:        compID,
		Outputs:   []symtab.ID{oID},
		Equations: map[symtab.ID]hir.Equation{oID: {Pattern: &hir.Pattern{Kind: hir.PatIdentifier, ID: oID}, Expr: selfExpr}},
	}
	g := Build(comp, store, nil)
	assert.False(t, Causal(comp, g, tab, sink))
	var kinds []errs.Kind
	for _, e := range sink.Errors() {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, errs.NotCausalSignal)
	assert.Contains(t, kinds, errs.NotCausalComponent)
}
