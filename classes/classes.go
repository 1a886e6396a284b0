// Package classes implements spec.md §3/§4.8's Classes[T]/Synced[T]
// machinery: partitioning a set of scheduled elements into equivalence
// classes of mutually-independent work (so they may run in parallel), and
// choosing between an equivalent Seq or Para rendering of those classes
// using the cost model spec.md §4.8 calls for.
//
// The partitioner is a direct port of the original Rust compiler's
// two-phase fixpoint (compiler_common/src/equiv.rs: stabilize_linear then
// stabilize_branches), not a single-pass longest-path layering — a pure
// depth-from-root DP cannot distinguish two elements at the same chain
// length that differ in which downstream elements they reach (spec.md §8
// scenario 6), so it was replaced rather than kept as an approximation.
package classes

import (
	"sort"

	"github.com/viant/flowc/config"
)

type classEntry[T any] struct {
	elems  []T
	stable bool
}

// Classes partitions elems into the antichain classes spec.md §3 describes:
// a dense class index maps to its elements plus a directed class-level
// dependency graph, stabilized so (I1) every element belongs to exactly one
// class, (I2) an edge A→B witnesses some a∈A, b∈B with Less(a,b), and (I3)
// every class is an antichain under Less with every class-to-class edge
// tight (no class could be interposed between it and its neighbour).
type Classes[T any] struct {
	Less    func(a, b T) bool
	classes []classEntry[T]
	edges   map[[2]int]bool // edges[{from,to}]: from's class precedes to's class
}

// New builds the trivial one-class partition (every element in class 0, no
// edges) and immediately stabilizes it.
func New[T any](elems []T, less func(a, b T) bool) *Classes[T] {
	c := &Classes[T]{Less: less, edges: map[[2]int]bool{}}
	c.newClass(append([]T(nil), elems...))
	c.stabilize()
	return c
}

func (c *Classes[T]) newClass(elems []T) int {
	c.classes = append(c.classes, classEntry[T]{elems: elems})
	return len(c.classes) - 1
}

func (c *Classes[T]) addEdge(from, to int)    { c.edges[[2]int{from, to}] = true }
func (c *Classes[T]) removeEdge(from, to int) { delete(c.edges, [2]int{from, to}) }

// predecessors/successors return, in ascending index order (for
// deterministic output across runs — class indices are not otherwise
// ordered), the classes with an edge into/out of idx.
func (c *Classes[T]) predecessors(idx int) []int {
	var out []int
	for k := range c.edges {
		if k[1] == idx {
			out = append(out, k[0])
		}
	}
	sort.Ints(out)
	return out
}

func (c *Classes[T]) successors(idx int) []int {
	var out []int
	for k := range c.edges {
		if k[0] == idx {
			out = append(out, k[1])
		}
	}
	sort.Ints(out)
	return out
}

func (c *Classes[T]) classIsLt(lft, rgt int) bool {
	for _, a := range c.classes[lft].elems {
		for _, b := range c.classes[rgt].elems {
			if c.Less(a, b) {
				return true
			}
		}
	}
	return false
}

// notLtIndices/notGtIndices return the positions within classes[at].elems
// whose element is NOT related to elem the named way — the "does every
// element of the neighbour class relate to this one identically" probe
// stabilize_branches uses to decide whether an element shares its class's
// existing relation pattern against a neighbour, or must be split off.
func (c *Classes[T]) notLtIndices(elem T, at int) []int {
	var out []int
	for i, e := range c.classes[at].elems {
		if !c.Less(e, elem) {
			out = append(out, i)
		}
	}
	return out
}

func (c *Classes[T]) notGtIndices(elem T, at int) []int {
	var out []int
	for i, e := range c.classes[at].elems {
		if !c.Less(elem, e) {
			out = append(out, i)
		}
	}
	return out
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// swapRemove removes and returns classes[classIdx].elems[pos], replacing
// its slot with the last element so removal is O(1) — matches the
// original's Vec::swap_remove, which is why later iteration over the same
// class must not assume position order survives a removal.
func (c *Classes[T]) swapRemove(classIdx, pos int) T {
	elems := c.classes[classIdx].elems
	v := elems[pos]
	last := len(elems) - 1
	elems[pos] = elems[last]
	c.classes[classIdx].elems = elems[:last]
	return v
}

func (c *Classes[T]) addLowestEdges(class int, below []int) {
	stack := append([]int(nil), below...)
	for len(stack) > 0 {
		sub := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.classIsLt(sub, class) {
			c.addEdge(sub, class)
		} else {
			stack = append(stack, c.predecessors(sub)...)
		}
	}
}

func (c *Classes[T]) addHighestEdges(class int, above []int) {
	stack := append([]int(nil), above...)
	for len(stack) > 0 {
		sup := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.classIsLt(class, sup) {
			c.addEdge(class, sup)
		} else {
			stack = append(stack, c.successors(sup)...)
		}
	}
}

func (c *Classes[T]) resetStableFlags() {
	for i := range c.classes {
		c.classes[i].stable = false
	}
}

func (c *Classes[T]) stabilize() {
	c.stabilizeLinear()
	c.stabilizeBranches()
}

func (c *Classes[T]) stabilizeLinear() {
	for !c.stabilizeLinearOne() {
	}
}

// stabilizeLinearOne implements spec.md §4.8 phase 1: find the first
// not-yet-stable class containing an element dominated by another element
// of the same class, extract every such dominated element into a fresh
// class positioned strictly below the original, and report whether a full
// pass found nothing left to extract.
func (c *Classes[T]) stabilizeLinearOne() bool {
	var cache []T
	classAbove := -1

	for idx := 0; idx < len(c.classes); idx++ {
		if c.classes[idx].stable {
			continue
		}
		cnt := 0
		for cnt < len(c.classes[idx].elems) {
			cur := c.classes[idx].elems[cnt]
			remove := false
			for _, e := range c.classes[idx].elems {
				if c.Less(cur, e) {
					remove = true
					break
				}
			}
			if remove {
				cache = append(cache, c.swapRemove(idx, cnt))
			} else {
				cnt++
			}
		}
		if len(cache) == 0 {
			c.classes[idx].stable = true
		} else {
			classAbove = idx
			break
		}
	}

	if classAbove < 0 {
		return true
	}
	nuIdx := c.newClass(cache)
	c.addEdge(nuIdx, classAbove)
	return false
}

// stabilizeBranchesOne implements spec.md §4.8 phase 2: find the first
// not-yet-stable class containing an element whose relation pattern
// against an adjacent class matches at least one other element of the same
// class, and split those same-pattern elements into a class of their own,
// rewiring edges to keep every class-to-class edge tight. Processes at most
// one extraction (or one edge-removal merge) per call, same as the
// original — callers loop until a full pass finds nothing left to do.
func (c *Classes[T]) stabilizeBranchesOne() bool {
	type pendingSplit struct {
		elems  []T
		pivot  int
		below  bool
		active bool
	}

	for idx := 0; idx < len(c.classes); idx++ {
		if c.classes[idx].stable {
			continue
		}

		var todo pendingSplit
		var notLt []int

		cnt := 0
		for cnt < len(c.classes[idx].elems) {
			elem := c.classes[idx].elems[cnt]
			matched := false

			if todo.active {
				var cache []int
				if todo.below {
					cache = c.notLtIndices(elem, todo.pivot)
				} else {
					cache = c.notGtIndices(elem, todo.pivot)
				}
				if intSliceEqual(cache, notLt) {
					todo.elems = append(todo.elems, c.swapRemove(idx, cnt))
					matched = true
				}
			} else {
				for _, sub := range c.predecessors(idx) {
					if cache := c.notLtIndices(elem, sub); len(cache) > 0 {
						todo = pendingSplit{elems: []T{c.swapRemove(idx, cnt)}, pivot: sub, below: true, active: true}
						notLt = cache
						matched = true
						break
					}
				}
				if !matched {
					for _, sup := range c.successors(idx) {
						if cache := c.notGtIndices(elem, sup); len(cache) > 0 {
							todo = pendingSplit{elems: []T{c.swapRemove(idx, cnt)}, pivot: sup, below: false, active: true}
							notLt = cache
							matched = true
							break
						}
					}
				}
			}

			if !matched {
				cnt++
			}
		}

		if todo.active {
			if len(c.classes[idx].elems) == 0 {
				// Every element of idx shared the same relation pattern
				// against the pivot: the split found no real distinction,
				// so undo it. If the pivot, symmetrically, relates to idx
				// uniformly (no element of the pivot distinguishes from
				// the others either), the edge between them carries no
				// information — remove it and retry.
				c.classes[idx].elems = append(c.classes[idx].elems, todo.elems...)
				if len(c.classes[todo.pivot].elems) == len(notLt) {
					if todo.below {
						c.removeEdge(todo.pivot, idx)
					} else {
						c.removeEdge(idx, todo.pivot)
					}
					return false
				}
			} else {
				nuIdx := c.newClass(todo.elems)
				if todo.below {
					for _, above := range c.successors(idx) {
						c.addEdge(nuIdx, above)
					}
					c.addLowestEdges(nuIdx, c.predecessors(idx))
				} else {
					for _, belowC := range c.predecessors(idx) {
						c.addEdge(belowC, nuIdx)
					}
					c.addHighestEdges(nuIdx, c.successors(idx))
				}
				return false
			}
		}

		c.classes[idx].stable = true
	}

	return true
}

func (c *Classes[T]) stabilizeBranches() {
	c.resetStableFlags()
	for !c.stabilizeBranchesOne() {
	}
}

// Layers returns the stabilized classes grouped by Kahn's-algorithm rank
// over the class-level dependency graph: every class in one layer is ready
// as soon as every class in an earlier layer has gone, and no edge connects
// two classes of the same layer (so within a layer, emission order is
// interchangeable).
func (c *Classes[T]) Layers() [][]T {
	n := len(c.classes)
	indegree := make([]int, n)
	for k := range c.edges {
		indegree[k[1]]++
	}

	visited := make([]bool, n)
	var queue []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var layers [][]T
	for len(queue) > 0 {
		sort.Ints(queue)
		var layer []T
		for _, idx := range queue {
			layer = append(layer, c.classes[idx].elems...)
			visited[idx] = true
		}
		for _, idx := range queue {
			for _, s := range c.successors(idx) {
				indegree[s]--
			}
		}
		var next []int
		for i := 0; i < n; i++ {
			if !visited[i] && indegree[i] == 0 {
				next = append(next, i)
			}
		}
		layers = append(layers, layer)
		queue = next
	}
	return layers
}

// NumClasses reports how many classes the partition stabilized to — the
// property spec.md §8 scenario 6 states directly (seven singleton classes
// for its literal graph).
func (c *Classes[T]) NumClasses() int { return len(c.classes) }

// ShapeKind tags a Synced node's structure.
type ShapeKind int

const (
	ShapeInstr ShapeKind = iota
	ShapeSeq
	ShapePara
)

// Synced is the parallel-block shape spec.md §3 describes: a single
// instruction, a sequence of sub-shapes that must run in order, or a
// parallel group of sub-shapes with no ordering constraint between them.
type Synced[T any] struct {
	Kind  ShapeKind
	Instr T
	Seq   []*Synced[T]
	Para  []*Synced[T]
}

func Instr[T any](v T) *Synced[T] { return &Synced[T]{Kind: ShapeInstr, Instr: v} }

func Seq[T any](parts ...*Synced[T]) *Synced[T] { return &Synced[T]{Kind: ShapeSeq, Seq: parts} }

func Para[T any](branches ...*Synced[T]) *Synced[T] { return &Synced[T]{Kind: ShapePara, Para: branches} }

// Build renders a Classes[T] partition as a Synced tree: a Seq of one
// element per layer, each layer a bare Instr if it has a single member or a
// Para of Instrs otherwise.
func Build[T any](c *Classes[T]) *Synced[T] {
	layers := c.Layers()
	if len(layers) == 1 && len(layers[0]) == 1 {
		return Instr(layers[0][0])
	}
	parts := make([]*Synced[T], len(layers))
	for i, layer := range layers {
		if len(layer) == 1 {
			parts[i] = Instr(layer[0])
			continue
		}
		branches := make([]*Synced[T], len(layer))
		for j, v := range layer {
			branches[j] = Instr(v)
		}
		parts[i] = Para(branches...)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return Seq(parts...)
}

// Cost implements spec.md §4.8's cost model: a Seq's cost is the sum of its
// parts plus a penalty proportional to its length; a Para's cost is its
// slowest branch plus a penalty for depth and branch fan-out. Cost recurses
// over every Synced subtree, bottom-up. No pass of the compile pipeline
// calls Cost or ChooseShape: ir1 takes the shape Build produces.
func Cost[T any](s *Synced[T], opt config.Options) float64 {
	switch s.Kind {
	case ShapeInstr:
		return 0
	case ShapeSeq:
		total := opt.SeqLengthWeight * float64(len(s.Seq))
		for _, part := range s.Seq {
			total += Cost(part, opt)
		}
		return total
	case ShapePara:
		var slowest float64
		for _, branch := range s.Para {
			if c := Cost(branch, opt); c > slowest {
				slowest = c
			}
		}
		return slowest + opt.ParaDepthWeight + opt.ParaBranchWeight*float64(len(s.Para))
	default:
		return 0
	}
}

// ChooseShape picks the cheaper of two Synced trees that are known to be
// semantically equivalent renderings of the same work (e.g. a Para of one
// branch versus that branch's bare Instr).
func ChooseShape[T any](a, b *Synced[T], opt config.Options) *Synced[T] {
	if Cost(a, opt) <= Cost(b, opt) {
		return a
	}
	return b
}
