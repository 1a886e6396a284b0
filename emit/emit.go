// Package emit is the glue between a component's classes.Synced shape and
// an eventual target-language emitter (spec.md §2's "Glue" row, §4.11):
// given a Synced tree of statement ids, it produces the orderings an
// emitter needs — a flat sequential order for a backend that ignores
// parallelism, and a grouped order for one that can exploit it. Actual
// textual code generation is out of scope (spec.md Non-goals); this
// package only shapes the statement stream.
package emit

import "github.com/viant/flowc/classes"

// Group is one emission unit: either a single statement (len(Parallel)==1)
// or a set of statements known to be safely reorderable relative to each
// other (a Para class).
type Group[T any] struct {
	Parallel []T
}

// Flatten linearizes a Synced tree into the sequential statement order a
// backend with no parallel-emission support would use: Seq parts in order,
// Para branches in the order classes.Build listed them (itself ascending by
// dependency layer, then ascending class index within a layer; the order of
// elements inside one class is not declaration order).
func Flatten[T any](s *classes.Synced[T]) []T {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case classes.ShapeInstr:
		return []T{s.Instr}
	case classes.ShapeSeq:
		var out []T
		for _, part := range s.Seq {
			out = append(out, Flatten(part)...)
		}
		return out
	case classes.ShapePara:
		var out []T
		for _, branch := range s.Para {
			out = append(out, Flatten(branch)...)
		}
		return out
	default:
		return nil
	}
}

// Groups renders a Synced tree as the sequential list of Groups an
// emitter that CAN exploit parallelism would walk: each Seq part becomes
// one Group, a Para part's branches all land in that Group's Parallel
// slice, an Instr becomes a single-element Group.
func Groups[T any](s *classes.Synced[T]) []Group[T] {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case classes.ShapeInstr:
		return []Group[T]{{Parallel: []T{s.Instr}}}
	case classes.ShapeSeq:
		var out []Group[T]
		for _, part := range s.Seq {
			out = append(out, Groups(part)...)
		}
		return out
	case classes.ShapePara:
		g := Group[T]{}
		for _, branch := range s.Para {
			g.Parallel = append(g.Parallel, Flatten(branch)...)
		}
		return []Group[T]{g}
	default:
		return nil
	}
}
