// Package schedule implements spec.md §4.7: topological ordering of a
// component's (post-normalization) equations so that every read happens
// after its zero-delay write. Ties are broken by ascending symtab.ID, the
// resolution spec.md's Open Question on scheduler determinism settled on —
// ids are assigned in declaration order, so this also means "declaration
// order wins whenever dataflow order doesn't force otherwise".
package schedule

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/viant/flowc/depgraph"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/hir"
	"github.com/viant/flowc/symtab"
)

// Schedule returns comp's defined ids in a valid evaluation order. If the
// graph (after normalization, acyclic on Weight==0 edges) still contains a
// zero-delay cycle, that is an internal invariant violation rather than a
// user error, since depgraph.Causal has already rejected user cycles: it
// panics with an errs.Internal value and pushes nothing onto sink.
func Schedule(comp *hir.Component, g *depgraph.Graph, table *symtab.Table, sink errs.Sink) ([]symtab.ID, bool) {
	ids := make([]symtab.ID, 0, len(comp.Equations))
	for id := range comp.Equations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	indegree := map[symtab.ID]int{}
	dependents := map[symtab.ID][]symtab.ID{} // reverse edges: To -> From, only Weight==0
	for _, from := range ids {
		for _, e := range g.Edges(from) {
			if e.Weight != 0 {
				continue
			}
			if _, isEquation := comp.Equations[e.To]; !isEquation {
				continue // inputs/memory reads have no equation of their own
			}
			dependents[e.To] = append(dependents[e.To], from)
			indegree[from]++
		}
	}

	// A min-heap keyed by id would be the textbook structure; a component's
	// equation count is small enough that a sorted-slice scan reads more
	// plainly and keeps the same ascending-id tie-break.
	var ready []symtab.ID
	for _, id := range ids {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	var order []symtab.ID
	visited := map[symtab.ID]bool{}
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		order = append(order, next)
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}

	if len(order) != len(ids) {
		// depgraph.Causal already rejected any zero-delay cycle in the
		// pre-normalization graph; a cycle surviving to here means
		// normalization (or InlineShiftedCycle) introduced one, which is a
		// bug in this compiler, not in the source it's compiling. errs.Internal
		// bypasses the Sink on purpose — this is not a diagnostic the source
		// author can act on — so it panics instead of being pushed and
		// reported as an ordinary errs.NotCausalComponent.
		panic(errs.NewInternal("schedule.Schedule", errors.Errorf(
			"component %q still has a cycle after normalization", table.GetName(comp.ID))))
	}
	return order, true
}

func insertSorted(s []symtab.ID, v symtab.ID) []symtab.ID {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
