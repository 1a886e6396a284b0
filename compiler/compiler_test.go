package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/ast"
	"github.com/viant/flowc/errs"
)

// counterFile builds spec.md §8 scenario 1 at the AST level:
// component counter(inc: int) { out o: int = 0 fby (o + inc); }
func counterFile() *ast.File {
	oIdent := &ast.Expr{Kind: ast.EIdentifier, Name: "o"}
	incIdent := &ast.Expr{Kind: ast.EIdentifier, Name: "inc"}
	sum := &ast.Expr{Kind: ast.EBinop, Op: "+", X: oIdent, Y: incIdent}
	zero := &ast.Expr{Kind: ast.EConstant, ConstKind: "int", IntVal: 0}
	fby := &ast.Expr{Kind: ast.EFollowedBy, Const: zero, Next: sum}

	comp := ast.ComponentDef{
		Name:        "counter",
		IsComponent: true,
		Inputs:      []ast.Param{{Name: "inc", Type: &ast.TypeExpr{Kind: "int"}}},
		Equations: []ast.Equation{
			{Pattern: &ast.Pattern{Kind: ast.PatTyped, Name: "o", Type: &ast.TypeExpr{Kind: "int"}}, Expr: fby},
		},
	}
	return &ast.File{Components: []ast.ComponentDef{comp}}
}

func TestPipelineCompilesCounterEndToEnd(t *testing.T) {
	p := New()
	sink := &errs.List{}

	result, err := p.Compile(counterFile(), sink)
	assert.NoError(t, err)
	assert.Equal(t, 0, sink.Len())
	assert.Len(t, result.IR1.Components, 1)
	assert.Len(t, result.IR2.Components, 1)
	assert.Len(t, result.IR2.Components[0].StateBuffers, 1)
}

func TestPipelineHonorsPhaseHooks(t *testing.T) {
	var phases []string
	p := New(WithPhaseHook(func(phase string, counters map[string]int) {
		phases = append(phases, phase)
	}))
	sink := &errs.List{}

	_, err := p.Compile(counterFile(), sink)
	assert.NoError(t, err)
	assert.Contains(t, phases, "compiler.Compile")
}
