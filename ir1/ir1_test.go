package ir1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/config"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/symtab"
	"github.com/viant/flowc/types"
)

// buildCounterProgram wraps spec.md §8 scenario 1's single-buffer counter
// (`out o: int = 0 fby (o + inc);`) in a one-component hir.Program.
func buildCounterProgram(t *testing.T) *hir.Program {
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

	return &hir.Program{Table: tab, Store: store, Components: []*hir.Component{comp}}
}

func TestBuildAssemblesScheduledCausalComponent(t *testing.T) {
	prog := buildCounterProgram(t)
	sink := &errs.List{}

	out, ok := Build(prog, config.Default(), sink)
	assert.True(t, ok)
	assert.Equal(t, 0, sink.Len())
	assert.Len(t, out.Components, 1)

	c := out.Components[0]
	assert.Len(t, c.Order, 1, "the counter has a single equation, for o")
	assert.Len(t, c.Memory.Buffers, 1, "fby materializes exactly one memory slot")
	assert.NotNil(t, c.Shape)
}
