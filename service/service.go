// Package service compiles a ServiceDef (spec.md §3's "Interface / service
// model") into an ExecutionMachine: every flow expression resolved to a
// symtab.ID and typed timer, a Context tracking which imported/derived flow
// is dirty since the last instant, and a deterministic, instant-ordered
// runtime loop shape that fires timers and invokes handlers in a fixed
// order (ascending symtab.ID, the same tie-break schedule.Schedule uses).
// Interpreting the underlying dataflow component a ComponentCall operator
// invokes is explicitly out of scope (spec.md Non-goals): handlers are
// opaque callbacks here.
package service

import (
	"sort"

	"github.com/viant/flowc/ast"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/symtab"
)

// TimerKind distinguishes why a timer fires.
type TimerKind int

const (
	TimerPeriodic TimerKind = iota // Sample/Scan
	TimerDeadline                  // Timeout
	TimerThrottle                  // Throttle's minimum re-fire interval
)

// Timer is one scheduled recurrence an Operator needs the runtime loop to
// drive it.
type Timer struct {
	Kind     TimerKind
	Owner    symtab.ID // the flow id this timer drives
	PeriodMS int
}

// Operator is one flow statement's compiled form.
type Operator struct {
	Kind   ast.FlowExprKind
	Output symtab.ID
	Inputs []symtab.ID

	PeriodMS   int // Sample/Scan
	DeadlineMS int // Timeout

	ComponentName string // ComponentCall
}

// FieldState is one flow's dirty-tracking slot in the Context.
type FieldState struct {
	Dirty bool
	// Tick is the instant this field was last marked dirty. MarkDirty
	// records it; no operator reads it.
	Tick int
}

// Context tracks per-field dirty flags across instants, per spec.md §4.9.
type Context struct {
	Fields map[symtab.ID]*FieldState
}

func NewContext() *Context { return &Context{Fields: map[symtab.ID]*FieldState{}} }

func (c *Context) MarkDirty(id symtab.ID, tick int) {
	f, ok := c.Fields[id]
	if !ok {
		f = &FieldState{}
		c.Fields[id] = f
	}
	f.Dirty = true
	f.Tick = tick
}

func (c *Context) Clear(id symtab.ID) {
	if f, ok := c.Fields[id]; ok {
		f.Dirty = false
	}
}

// ExecutionMachine is one service's fully compiled shape.
type ExecutionMachine struct {
	Service       symtab.ID
	Operators     []*Operator
	Timers        []*Timer
	Context       *Context
	MinPeriodMS int
	MaxPeriodMS int
	ImportIDs   []symtab.ID
	ExportIDs   []symtab.ID
}

// Compile lowers a ServiceDef's imports/exports/statements against table,
// registering the service as a KindComponent identifier, imports and
// declared flows as KindFlow identifiers (component instantiations as
// KindLocal, nested flow expressions under fresh ids), and builds the
// Operator/Timer lists a runtime loop would drive. These names live in a
// scope that is popped before Compile returns.
func Compile(svc *ast.ServiceDef, table *symtab.Table, minPeriodDefaultMS int, sink errs.Sink) *ExecutionMachine {
	table.PushScope()
	defer table.PopScope()

	em := &ExecutionMachine{Context: NewContext(), MinPeriodMS: svc.MinPeriod, MaxPeriodMS: svc.MaxPeriod}
	if em.MinPeriodMS == 0 {
		em.MinPeriodMS = minPeriodDefaultMS
	}

	loc := errs.Location{FileID: svc.Loc.FileID, Start: svc.Loc.Start, End: svc.Loc.End}
	svcID, _ := table.InsertIdentifier(svc.Name, symtab.KindComponent, symtab.ScopeLocal, nil, loc, sink)
	em.Service = svcID

	for _, imp := range svc.Imports {
		id, ok := table.InsertIdentifier(imp.Name, symtab.KindFlow, symtab.ScopeInput, nil, flowLoc(imp.Loc), sink)
		if ok {
			em.ImportIDs = append(em.ImportIDs, id)
		}
	}

	for _, st := range svc.Statements {
		op := em.compileStatement(table, st, sink)
		if op == nil {
			continue
		}
		em.registerOperator(op)
	}

	for _, exp := range svc.Exports {
		id, ok := table.GetIdentifierID(exp.Name, true, flowLoc(exp.Loc), sink)
		if ok {
			em.ExportIDs = append(em.ExportIDs, id)
		}
	}

	sort.Slice(em.Timers, func(i, j int) bool { return em.Timers[i].Owner < em.Timers[j].Owner })
	return em
}

func flowLoc(l ast.Location) errs.Location {
	return errs.Location{FileID: l.FileID, Start: l.Start, End: l.End}
}

func (em *ExecutionMachine) compileStatement(table *symtab.Table, st ast.FlowStatement, sink errs.Sink) *Operator {
	if st.Expr == nil || len(st.Pattern.LocalIdentifiers()) == 0 {
		return nil
	}
	name := st.Pattern.LocalIdentifiers()[0]
	kind := symtab.KindFlow
	if st.Kind == ast.FlowInstantiation {
		kind = symtab.KindLocal
	}
	outID, _ := table.InsertIdentifier(name, kind, symtab.ScopeLocal, nil, flowLoc(st.Loc), sink)
	return em.buildOperator(table, outID, st.Expr, sink)
}

// buildOperator compiles one *ast.FlowExpr into an Operator bound to outID,
// recursing into nested flow expressions via flowInputs. Shared by
// compileStatement (outID comes from the statement's declared pattern) and
// compileNestedFlow (outID is freshly minted for an operator that exists
// only as another operator's argument).
func (em *ExecutionMachine) buildOperator(table *symtab.Table, outID symtab.ID, fe *ast.FlowExpr, sink errs.Sink) *Operator {
	loc := flowLoc(fe.Loc)
	op := &Operator{Kind: fe.Kind, Output: outID}
	switch fe.Kind {
	case ast.FlowSample, ast.FlowScan:
		op.PeriodMS = fe.PeriodMS
		op.Inputs = em.flowInputs(table, fe.Flow, sink)
	case ast.FlowTimeout:
		op.DeadlineMS = fe.DeadlineMS
		op.Inputs = em.flowInputs(table, fe.Flow, sink)
	case ast.FlowThrottle, ast.FlowOnChange:
		op.Inputs = em.flowInputs(table, fe.Flow, sink)
	case ast.FlowMerge:
		op.Inputs = append(em.flowInputs(table, fe.Flow, sink), em.flowInputs(table, fe.Flow2, sink)...)
	case ast.FlowComponentCall:
		op.ComponentName = fe.ComponentName
	case ast.FlowIdent:
		if id, ok := table.GetIdentifierID(fe.Ident, true, loc, sink); ok {
			op.Inputs = []symtab.ID{id}
		}
	}
	return op
}

// registerOperator appends op to the machine's operator list and, if its
// kind needs one, a driving Timer — the same bookkeeping Compile's
// top-level statement loop does, reused here so a nested operator
// (compileNestedFlow) is scheduled exactly like a top-level one.
func (em *ExecutionMachine) registerOperator(op *Operator) {
	em.Operators = append(em.Operators, op)
	switch op.Kind {
	case ast.FlowSample, ast.FlowScan:
		em.Timers = append(em.Timers, &Timer{Kind: TimerPeriodic, Owner: op.Output, PeriodMS: op.PeriodMS})
	case ast.FlowTimeout:
		em.Timers = append(em.Timers, &Timer{Kind: TimerDeadline, Owner: op.Output, PeriodMS: op.DeadlineMS})
	}
}

// flowInputs resolves one operator argument to the ids that feed it. A bare
// FlowIdent resolves directly; any other *ast.FlowExpr kind (FlowExpr.Flow/
// Flow2 support arbitrary nesting, e.g. `on_change(throttle(x, 1.0))`) must
// first be compiled as its own operator — the call is wired to that
// operator's output — rather than silently dropped.
func (em *ExecutionMachine) flowInputs(table *symtab.Table, fe *ast.FlowExpr, sink errs.Sink) []symtab.ID {
	if fe == nil {
		return nil
	}
	if fe.Kind == ast.FlowIdent {
		if id, ok := table.GetIdentifierID(fe.Ident, true, flowLoc(fe.Loc), sink); ok {
			return []symtab.ID{id}
		}
		return nil
	}
	op := em.compileNestedFlow(table, fe, sink)
	if op == nil {
		return nil
	}
	return []symtab.ID{op.Output}
}

// compileNestedFlow compiles a *ast.FlowExpr that appears as another
// operator's argument rather than as a top-level statement's right-hand
// side. It has no user-declared name, so it gets a fresh reserved id, and
// no top-level statement loop will ever register it, so it must register
// itself.
func (em *ExecutionMachine) compileNestedFlow(table *symtab.Table, fe *ast.FlowExpr, sink errs.Sink) *Operator {
	outID := table.GetFreshID("service", "flow", nil, symtab.ScopeLocal)
	op := em.buildOperator(table, outID, fe, sink)
	em.registerOperator(op)
	return op
}
