// Package compiler wires every pass into the single entry point a host
// (CLI, test, or another tool) calls: ast -> hir -> depgraph -> causality ->
// normalize -> schedule -> classes -> ir1 -> ir2 -> service, the way
// the teacher's analyzer.AnalyzeAll wires AnalyzeDir -> analyzePackages ->
// computeTransitiveClosure -> Merge. Compile does not run the emit package;
// the IR1 Shape trees it returns are what emit.Flatten/emit.Groups take.
package compiler

import (
	"github.com/viant/flowc/ast"
	"github.com/viant/flowc/config"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/internal/clog"
	"github.com/viant/flowc/ir1"
	"github.com/viant/flowc/ir2"
	"github.com/viant/flowc/service"
)

// Result is everything a successful compile produced.
type Result struct {
	Program  *hir.Program
	IR1      *ir1.Program
	IR2      *ir2.Program
	Services []*service.ExecutionMachine
}

// Pipeline is the stateless compiler entry point; Options tunes the cost
// model and service defaults, nothing else.
type Pipeline struct {
	Options config.Options
	hooks   []PhaseHook
}

// New builds a Pipeline with config.Default() plus whatever Options the
// caller applies, following the teacher's analyzer.New(opts ...Option)
// functional-options convention.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{Options: config.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) runHooks(phase string, counters map[string]int) {
	for _, h := range p.hooks {
		h(phase, counters)
	}
}

// Compile runs the full pipeline over one parsed file. Every diagnostic
// any pass raises is accumulated into sink; Compile returns a nil Result
// and errs.ErrTerminated as soon as sink holds at least one error at a
// phase boundary, per spec.md §7's propagation policy — later phases never
// run over a file already known to be invalid.
func (p *Pipeline) Compile(file *ast.File, sink errs.Sink) (*Result, error) {
	counters := map[string]int{"components": len(file.Components), "services": len(file.Services)}
	clog.Phase("compiler.Compile", counters)
	p.runHooks("compiler.Compile", counters)

	prog := hir.Lower(file, sink)
	if err := errs.Terminated(sink); err != nil {
		return nil, err
	}

	ir1Prog, ok := ir1.Build(prog, p.Options, sink)
	if !ok {
		return nil, errs.Terminated(sink)
	}
	if err := errs.Terminated(sink); err != nil {
		return nil, err
	}

	ir2Prog := ir2.Synthesize(ir1Prog)

	var machines []*service.ExecutionMachine
	for _, svc := range prog.Services {
		machines = append(machines, service.Compile(svc, prog.Table, p.Options.MinDelayWindowMS, sink))
	}
	if err := errs.Terminated(sink); err != nil {
		return nil, err
	}

	return &Result{Program: prog, IR1: ir1Prog, IR2: ir2Prog, Services: machines}, nil
}
