package types

import "github.com/viant/flowc/errs"

// NumericOp resolves `int -> int -> int | float -> float -> float`, binding
// to whichever concrete numeric type the first argument has. spec.md §8
// scenario 4 relies on this: `1 + 1.0` binds int first from the first
// argument, so the second argument (float) fails EqCheck against int.
func NumericOp() *Type {
	return NewPolymorphism(func(inputs []*Type, loc errs.Location, sink errs.Sink) (*Type, bool) {
		if len(inputs) < 1 {
			sink.Push(errs.NewArityMismatch(2, len(inputs), loc))
			return nil, false
		}
		first := inputs[0]
		if first.Kind != Int && first.Kind != Float {
			sink.Push(errs.NewExpect(errs.ExpectNumber, first.String(), loc))
			return nil, false
		}
		return NewAbstract([]*Type{first, first}, first), true
	})
}

// NumericCompare resolves `(N,N) -> bool` for N in {int, float}.
func NumericCompare() *Type {
	return NewPolymorphism(func(inputs []*Type, loc errs.Location, sink errs.Sink) (*Type, bool) {
		if len(inputs) < 1 {
			sink.Push(errs.NewArityMismatch(2, len(inputs), loc))
			return nil, false
		}
		first := inputs[0]
		if first.Kind != Int && first.Kind != Float {
			sink.Push(errs.NewExpect(errs.ExpectNumber, first.String(), loc))
			return nil, false
		}
		return NewAbstract([]*Type{first, first}, NewBool()), true
	})
}

// Equality resolves `(T,T) -> bool` for any T, binding T to whichever
// concrete type the first argument carries.
func Equality() *Type {
	return NewPolymorphism(func(inputs []*Type, loc errs.Location, sink errs.Sink) (*Type, bool) {
		if len(inputs) < 1 {
			sink.Push(errs.NewArityMismatch(2, len(inputs), loc))
			return nil, false
		}
		first := inputs[0]
		return NewAbstract([]*Type{first, first}, NewBool()), true
	})
}

// IfThenElse resolves `(bool, T, T) -> T`, binding T to the second
// argument's type.
func IfThenElse() *Type {
	return NewPolymorphism(func(inputs []*Type, loc errs.Location, sink errs.Sink) (*Type, bool) {
		if len(inputs) < 2 {
			sink.Push(errs.NewArityMismatch(3, len(inputs), loc))
			return nil, false
		}
		branch := inputs[1]
		return NewAbstract([]*Type{NewBool(), branch, branch}, branch), true
	})
}

// LogicalAnd, LogicalOr, LogicalNot are monomorphic bool operators: they
// need no polymorphism thunk at all.
func LogicalAnd() *Type { return NewAbstract([]*Type{NewBool(), NewBool()}, NewBool()) }
func LogicalOr() *Type  { return NewAbstract([]*Type{NewBool(), NewBool()}, NewBool()) }
func LogicalNot() *Type { return NewAbstract([]*Type{NewBool()}, NewBool()) }
