package types

import "github.com/viant/flowc/errs"

// Apply implements a single application step (spec.md §4.2):
//   - Abstract(inputs, output): check arity, pairwise EqCheck, return output.
//   - Polymorphism(resolver): run the resolver to obtain a concrete Abstract,
//     mutate self to that concrete type (so a later inspection sees the
//     monomorphized signature), then recurse.
//   - anything else: ExpectAbstraction.
func (t *Type) Apply(inputs []*Type, loc errs.Location, sink errs.Sink) (*Type, bool) {
	switch t.Kind {
	case Abstract:
		if len(t.Inputs) != len(inputs) {
			sink.Push(errs.NewArityMismatch(len(t.Inputs), len(inputs), loc))
			return nil, false
		}
		for i, want := range t.Inputs {
			if !inputs[i].EqCheck(want, loc, sink) {
				return nil, false
			}
		}
		return t.Output, true

	case Polymorphism:
		concrete, ok := t.Resolver(inputs, loc, sink)
		if !ok {
			return nil, false
		}
		// Monomorphize in place: subsequent callers holding this same *Type
		// now see the resolved Abstract signature.
		*t = *concrete
		return t.Apply(inputs, loc, sink)

	default:
		sink.Push(errs.NewExpect(errs.ExpectAbstraction, t.String(), loc))
		return nil, false
	}
}

// EqCheck checks self against expected, reporting IncompatibleType (or
// IncompatibleLength for array length mismatches) on failure.
func (t *Type) EqCheck(expected *Type, loc errs.Location, sink errs.Sink) bool {
	if t.Kind == Array && expected.Kind == Array {
		if t.Len != expected.Len {
			sink.Push(errs.NewIncompatibleLength(expected.Len, t.Len, loc))
			return false
		}
		return t.Elem.EqCheck(expected.Elem, loc, sink)
	}
	if !t.Equal(expected) {
		sink.Push(errs.NewIncompatibleType(t.String(), expected.String(), loc))
		return false
	}
	return true
}
