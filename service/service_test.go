package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowc/ast"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/symtab"
)

func pat(name string) *ast.Pattern {
	return &ast.Pattern{Kind: ast.PatIdentifier, Name: name}
}

// buildSpeedService mirrors spec.md §8 scenario 5: a speed import sampled
// every 100ms, exported as an on_change event.
func buildSpeedService() *ast.ServiceDef {
	return &ast.ServiceDef{
		Name:      "speed",
		MinPeriod: 100,
		Imports:   []ast.FlowImport{{Name: "raw_speed"}},
		Statements: []ast.FlowStatement{
			{
				Kind:    ast.FlowDeclaration,
				Pattern: pat("sampled"),
				Expr:    &ast.FlowExpr{Kind: ast.FlowSample, PeriodMS: 100, Flow: &ast.FlowExpr{Kind: ast.FlowIdent, Ident: "raw_speed"}},
			},
			{
				Kind:    ast.FlowDeclaration,
				Pattern: pat("changed"),
				Expr:    &ast.FlowExpr{Kind: ast.FlowOnChange, Flow: &ast.FlowExpr{Kind: ast.FlowIdent, Ident: "sampled"}},
			},
		},
		Exports: []ast.FlowExport{{Name: "changed"}},
	}
}

func TestCompileBuildsSampleAndOnChangeOperators(t *testing.T) {
	tab := symtab.New()
	sink := &errs.List{}
	em := Compile(buildSpeedService(), tab, 50, sink)

	assert.Equal(t, 0, sink.Len())
	assert.Len(t, em.Operators, 2)
	assert.Equal(t, ast.FlowSample, em.Operators[0].Kind)
	assert.Equal(t, ast.FlowOnChange, em.Operators[1].Kind)
	assert.Len(t, em.ImportIDs, 1)
	assert.Len(t, em.ExportIDs, 1)
	assert.Equal(t, 100, em.MinPeriodMS, "an explicit MinPeriod overrides the caller's default")

	// Sample registers exactly one periodic timer; on_change has no timer of
	// its own, it only reacts when the runtime loop marks its input dirty.
	assert.Len(t, em.Timers, 1)
	assert.Equal(t, TimerPeriodic, em.Timers[0].Kind)
	assert.Equal(t, 100, em.Timers[0].PeriodMS)
}

// buildNestedSpeedService mirrors the nested form
// `on_change(throttle(set_speed))` (no Delta set): the throttle call is not its own
// statement, it is an argument expression nested directly inside on_change.
func buildNestedSpeedService() *ast.ServiceDef {
	return &ast.ServiceDef{
		Name:    "speed",
		Imports: []ast.FlowImport{{Name: "set_speed"}},
		Statements: []ast.FlowStatement{
			{
				Kind:    ast.FlowDeclaration,
				Pattern: pat("changed"),
				Expr: &ast.FlowExpr{Kind: ast.FlowOnChange, Flow: &ast.FlowExpr{
					Kind: ast.FlowThrottle,
					Flow: &ast.FlowExpr{Kind: ast.FlowIdent, Ident: "set_speed"},
				}},
			},
		},
		Exports: []ast.FlowExport{{Name: "changed"}},
	}
}

func TestCompileWiresNestedFlowExpression(t *testing.T) {
	tab := symtab.New()
	sink := &errs.List{}
	em := Compile(buildNestedSpeedService(), tab, 50, sink)

	assert.Equal(t, 0, sink.Len())
	// The nested throttle(set_speed) has no statement of its own, so it
	// must still be compiled and registered as its own operator, with
	// on_change wired to its output rather than dropping the argument.
	assert.Len(t, em.Operators, 2, "the nested throttle call must be compiled as its own operator")

	var throttle, onChange *Operator
	for _, op := range em.Operators {
		switch op.Kind {
		case ast.FlowThrottle:
			throttle = op
		case ast.FlowOnChange:
			onChange = op
		}
	}
	assert.NotNil(t, throttle, "nested throttle(...) must be compiled")
	assert.NotNil(t, onChange)
	assert.Len(t, onChange.Inputs, 1)
	assert.Equal(t, throttle.Output, onChange.Inputs[0], "on_change must be wired to the nested throttle's output")
	assert.Len(t, throttle.Inputs, 1)

	// Compile pops the scope holding set_speed before returning, so its id
	// is taken from the machine's own import list.
	assert.Len(t, em.ImportIDs, 1)
	setSpeedID := em.ImportIDs[0]
	assert.Equal(t, setSpeedID, throttle.Inputs[0], "throttle's own input must still resolve to the imported flow")
}

func TestRuntimeLoopFiresPeriodicTimerAtExactMultiples(t *testing.T) {
	tab := symtab.New()
	sink := &errs.List{}
	em := Compile(buildSpeedService(), tab, 100, sink)

	loop := NewRuntimeLoop(em)
	var fires []int
	sampleOwner := em.Timers[0].Owner
	loop.On(sampleOwner, func(instant int, ctx *Context) {
		fires = append(fires, instant)
	})

	loop.Run(5) // instants 0,1,2,3,4 at MinPeriodMS=100 each -> elapsed 0,100,200,300,400
	assert.Equal(t, []int{0, 1, 2, 3, 4}, fires, "period 100ms fires every instant when MinPeriodMS is also 100")

	state := em.Context.Fields[sampleOwner]
	assert.NotNil(t, state)
	assert.True(t, state.Dirty)
	assert.Equal(t, 4, state.Tick)
}
