// Package depgraph builds the dependency graph of spec.md §4.4: for every
// equation-defined id, which other ids its expression reads, at what delay
// depth, and whether the edge crosses a component-call contract boundary.
// It also implements the §4.5 causality/unused-signal analyses that run
// directly on top of the graph it builds.
package depgraph

import (
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/symtab"
)

// Edge is one dependency: To depends on, at Weight ticks of delay. Weight 0
// means "read this tick" (contributes to causality analysis); Weight > 0
// means the read is behind a `last`/`fby` memory cell and cannot
// participate in a zero-delay cycle. Contract marks an edge that crosses a
// unitary-node application boundary (spec.md §3's "Contract" edge label).
type Edge struct {
	To       symtab.ID
	Weight   int
	Contract bool
}

// Graph is the once-written, read-only adjacency for one Component, keyed
// by the id an equation defines.
type Graph struct {
	edges map[symtab.ID][]Edge
}

func (g *Graph) Edges(id symtab.ID) []Edge { return g.edges[id] }

func (g *Graph) merge(from symtab.ID, e Edge) {
	for i, existing := range g.edges[from] {
		if existing.To == e.To {
			// combination law: keep the edge with the smaller weight (the
			// "fastest" path dependency wins for causality purposes), OR it
			// together for Contract.
			if e.Weight < existing.Weight {
				g.edges[from][i].Weight = e.Weight
			}
			g.edges[from][i].Contract = g.edges[from][i].Contract || e.Contract
			return
		}
	}
	g.edges[from] = append(g.edges[from], e)
}

// ReducedIO is a component's own minimum-delay relation from each of its
// outputs back to each of its inputs, computed once over its own Graph:
// ReducedIO[output][input] is the smallest accumulated Weight of any path,
// through the component's own equations, from output back to input. This
// is the "callee's own reduced cross-IO graph" spec.md §4.4 requires a
// caller to fold a call expression's argument depths against, instead of
// treating every component call as a zero-delay pass-through.
type ReducedIO map[symtab.ID]map[symtab.ID]int

// CalleeInfo is what a caller needs about another component to combine a
// call's cross-IO weights at the call site: its inputs, in declaration
// order (so argument position maps to input id), and its ReducedIO.
type CalleeInfo struct {
	Inputs  []symtab.ID
	Reduced ReducedIO
}

// ReduceIO computes comp's ReducedIO by relaxing comp's own Graph from each
// output (distance 0) along every edge (distance += Edge.Weight), the way
// a shortest-path search would, since a path through several delay cells
// accumulates delay additively and the fastest (minimum-delay) path is what
// a causality/scheduling analysis at the call site cares about. Plain
// Bellman-Ford relaxation (rather than Dijkstra) is used because comp's own
// Graph can contain Weight>0 edges that close a cycle (a component that
// internally delays its own feedback), which a min-heap shortest-path
// implementation tuned for DAGs would need extra bookkeeping to tolerate.
func ReduceIO(comp *hir.Component, g *Graph) ReducedIO {
	ids := map[symtab.ID]bool{}
	for from, edges := range g.edges {
		ids[from] = true
		for _, e := range edges {
			ids[e.To] = true
		}
	}

	out := ReducedIO{}
	for _, o := range comp.Outputs {
		dist := map[symtab.ID]int{o: 0}
		for i := 0; i <= len(ids); i++ {
			changed := false
			for from := range ids {
				fd, ok := dist[from]
				if !ok {
					continue
				}
				for _, e := range g.edges[from] {
					nd := fd + e.Weight
					if cur, ok := dist[e.To]; !ok || nd < cur {
						dist[e.To] = nd
						changed = true
					}
				}
			}
			if !changed {
				break
			}
		}
		ins := map[symtab.ID]int{}
		for _, in := range comp.Inputs {
			if d, ok := dist[in]; ok {
				ins[in] = d
			}
		}
		if len(ins) > 0 {
			out[o] = ins
		}
	}
	return out
}

// Build walks every equation of comp, records each sub-expression's
// depth-tagged dependency set onto its own hir.Expr.Deps (so later passes
// can inspect a single expression's fan-in without re-walking), and
// produces the component-level Graph those per-expression maps induce.
// callees supplies, for every other component this one might call via a
// UnitaryNodeApplication, that callee's own already-reduced cross-IO
// weights; pass nil (or an incomplete map, e.g. during a first fixed-point
// pass before any callee's own Graph exists yet) to fall back to treating
// unresolved calls as zero-delay pass-throughs, same as before this map
// existed. The resulting Graph is also stashed onto comp.DepGraph,
// replacing whatever an earlier Build call stored there.
func Build(comp *hir.Component, store *hir.Store, callees map[symtab.ID]CalleeInfo) *Graph {
	g := &Graph{edges: map[symtab.ID][]Edge{}}
	for definedID, eq := range comp.Equations {
		deps := computeDeps(eq.Expr, store, 0, false, callees)
		for dep, w := range deps.weights {
			g.merge(definedID, Edge{To: dep, Weight: w, Contract: deps.contract[dep]})
		}
	}
	comp.DepGraph = g
	return g
}

type depSet struct {
	weights  map[symtab.ID]int
	contract map[symtab.ID]bool
}

func newDepSet() depSet { return depSet{weights: map[symtab.ID]int{}, contract: map[symtab.ID]bool{}} }

func (d depSet) add(other depSet) {
	for id, w := range other.weights {
		if cur, ok := d.weights[id]; !ok || w < cur {
			d.weights[id] = w
		}
		d.contract[id] = d.contract[id] || other.contract[id]
	}
}

func (d depSet) addID(id symtab.ID, weight int, contract bool) {
	if cur, ok := d.weights[id]; !ok || weight < cur {
		d.weights[id] = weight
	}
	d.contract[id] = d.contract[id] || contract
}

// computeDeps walks the expression tree rooted at id, tagging every
// identifier reference at the given base depth (incremented by one each
// time the walk crosses a `last`/`fby` memory boundary, per spec.md §3's
// Weight(depth) edge label), and records the result onto the arena node's
// Deps. The recorded value is never read back here: every visit recomputes
// it, since depth and callees differ between calls.
// callees is threaded through unchanged, see Build's doc comment.
func computeDeps(id hir.ExprID, store *hir.Store, depth int, contract bool, callees map[symtab.ID]CalleeInfo) depSet {
	out := newDepSet()
	if id == hir.NoExpr {
		return out
	}
	e := store.Get(id)

	switch e.Kind {
	case hir.KIdentifier:
		out.addID(e.Ident, depth, contract)

	case hir.KLast:
		// `last x [init c]`: reading x is delayed by one tick regardless of
		// base depth, because it reads the PREVIOUS tick's value.
		out.addID(e.LastIdent, depth+1, contract)
		if e.HasInit {
			out.add(computeDeps(e.LastInit, store, depth, contract, callees))
		}

	case hir.KFollowedBy:
		// `c fby e`: c is a constant (no identifier deps beyond its own
		// literal sub-expressions); e is the delayed stream, same +1 rule.
		out.add(computeDeps(e.Const, store, depth, contract, callees))
		sub := computeDeps(e.Next, store, depth, contract, callees)
		for id, w := range sub.weights {
			out.addID(id, w+1, sub.contract[id])
		}

	case hir.KApplication:
		out.addID(e.Callee, depth, contract)
		for _, a := range e.Args {
			out.add(computeDeps(a, store, depth, contract, callees))
		}

	case hir.KUnitaryNodeApplication:
		// A component call's own argument dependencies are not exposed at
		// the caller's depth unmodified: spec.md §4.4 requires folding in
		// the callee's own reduced cross-IO weight from the input that
		// argument feeds to the specific output (e.OutputID) this
		// application projects, since the callee may itself delay that
		// input by one or more ticks (e.g. a component wrapping a `fby`)
		// before it reaches its output.
		out.addID(e.NodeID, depth, true)
		callee, haveCallee := callees[e.NodeID]
		for i, a := range e.Args {
			argDeps := computeDeps(a, store, depth, true, callees)
			if !haveCallee || i >= len(callee.Inputs) {
				// No reduced cross-IO info yet for this callee (e.g. the
				// first, naive fixed-point pass building it) — fall back
				// to the previous zero-extra-delay behavior rather than
				// dropping the dependency.
				out.add(argDeps)
				continue
			}
			inputID := callee.Inputs[i]
			reachesOutput, extra := 0, -1
			if outWeights, ok := callee.Reduced[e.OutputID]; ok {
				if w, ok := outWeights[inputID]; ok {
					extra = w
					reachesOutput = 1
				}
			}
			if reachesOutput == 0 {
				// This argument's input never reaches the referenced
				// output inside the callee at all; it contributes no
				// dependency through this particular projection.
				continue
			}
			for id, w := range argDeps.weights {
				out.addID(id, w+extra, true)
			}
		}

	case hir.KAbstraction:
		// a lambda's free variables still count as dependencies of whatever
		// expression holds it; its own Params are bound, not free.
		bound := map[symtab.ID]bool{}
		for _, p := range e.Params {
			bound[p] = true
		}
		sub := computeDeps(e.Body, store, depth, contract, callees)
		for id, w := range sub.weights {
			if !bound[id] {
				out.addID(id, w, sub.contract[id])
			}
		}

	case hir.KMatch:
		out.add(computeDeps(e.Scrutinee, store, depth, contract, callees))
		for _, arm := range e.Arms {
			bound := map[symtab.ID]bool{}
			for _, id := range arm.Pattern.LocalIdentifiers() {
				bound[id] = true
			}
			for _, sub := range []hir.ExprID{arm.Guard, arm.Body} {
				s := computeDeps(sub, store, depth, contract, callees)
				for id, w := range s.weights {
					if !bound[id] {
						out.addID(id, w, s.contract[id])
					}
				}
			}
		}

	case hir.KStructure:
		for _, fi := range e.FieldInits {
			out.add(computeDeps(fi.Value, store, depth, contract, callees))
		}

	case hir.KFieldAccess:
		out.add(computeDeps(e.Base, store, depth, contract, callees))

	case hir.KTupleElementAccess:
		out.add(computeDeps(e.Base, store, depth, contract, callees))

	case hir.KEnumeration:
		out.add(computeDeps(e.Payload, store, depth, contract, callees))

	case hir.KEmit:
		out.add(computeDeps(e.Emitted, store, depth, contract, callees))

	case hir.KMap, hir.KFold, hir.KSort, hir.KZip:
		for _, a := range e.Arrays {
			out.add(computeDeps(a, store, depth, contract, callees))
		}
		out.add(computeDeps(e.Fn, store, depth, contract, callees))
		out.add(computeDeps(e.Init, store, depth, contract, callees))

	default:
		for _, sub := range []hir.ExprID{e.X, e.Y, e.Cond, e.Then, e.Else, e.Body} {
			out.add(computeDeps(sub, store, depth, contract, callees))
		}
		for _, sub := range e.Elems {
			out.add(computeDeps(sub, store, depth, contract, callees))
		}
	}

	e.Deps = out.weights
	return out
}

// Causal runs spec.md §4.5's zero-delay cycle detection over a component's
// Graph, walking only Weight==0 edges (a Weight>0 edge is backed by a
// memory cell and can never participate in a causality violation).
// When a cycle is found it reports NotCausalSignal for every signal on the
// depth-first path from the output down to the cycle (each one as the walk
// unwinds), and NotCausalComponent once for the component.
func Causal(comp *hir.Component, g *Graph, table *symtab.Table, sink errs.Sink) bool {
	const (
		white = iota
		gray
		black
	)
	color := map[symtab.ID]int{}
	ok := true

	var visit func(id symtab.ID) bool
	visit = func(id symtab.ID) bool {
		switch color[id] {
		case black:
			return true
		case gray:
			return false
		}
		color[id] = gray
		for _, e := range g.Edges(id) {
			if e.Weight == 0 {
				if !visit(e.To) {
					sink.Push(errs.NewNotCausalSignal(table.GetName(comp.ID), table.GetName(id), errs.NoLocation))
					ok = false
					color[id] = black
					return false
				}
			}
		}
		color[id] = black
		return true
	}

	for _, out := range comp.Outputs {
		if color[out] == white {
			visit(out)
		}
	}
	if !ok {
		sink.Push(errs.NewNotCausalComponent(table.GetName(comp.ID), errs.NoLocation))
	}
	return ok
}

// Unused implements spec.md §4.5's unused-signal detection: any id an
// equation defines that is not reachable, via any edge regardless of
// weight, backward from some output is reported.
func Unused(comp *hir.Component, g *Graph, table *symtab.Table, sink errs.Sink) {
	reachable := map[symtab.ID]bool{}
	var walk func(id symtab.ID)
	walk = func(id symtab.ID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, e := range g.Edges(id) {
			walk(e.To)
		}
	}
	for _, out := range comp.Outputs {
		walk(out)
	}
	for id := range comp.Equations {
		if !reachable[id] && table.GetScope(id) != symtab.ScopeOutput {
			sink.Push(errs.NewUnusedSignal(table.GetName(comp.ID), table.GetName(id), errs.NoLocation))
		}
	}
}
