// Package errs implements the closed diagnostic taxonomy of the compiler:
// every pass that can fail accumulates *Error values into a caller-supplied
// Sink instead of returning them individually, so a single file can report
// every problem it has rather than stopping at the first one.
package errs

import "fmt"

// Kind enumerates the closed taxonomy. New kinds are never added by a pass;
// they are only ever constructed here.
type Kind string

const (
	// Name errors.
	UnknownElement       Kind = "UnknownElement"
	UnknownSignal        Kind = "UnknownSignal"
	UnknownComponent     Kind = "UnknownComponent"
	UnknownType          Kind = "UnknownType"
	UnknownEnumeration   Kind = "UnknownEnumeration"
	UnknownField         Kind = "UnknownField"
	MissingField         Kind = "MissingField"
	AlreadyDefinedElem   Kind = "AlreadyDefinedElement"
	ComponentCallKind    Kind = "ComponentCall"

	// Shape errors.
	ArityMismatch           Kind = "ArityMismatch"
	IncompatibleInputsCount Kind = "IncompatibleInputsNumber"
	IncompatibleLength      Kind = "IncompatibleLength"
	IndexOutOfBounds        Kind = "IndexOutOfBounds"

	// Type errors.
	IncompatibleType    Kind = "IncompatibleType"
	ExpectNumber        Kind = "ExpectNumber"
	ExpectAbstraction   Kind = "ExpectAbstraction"
	ExpectOption        Kind = "ExpectOption"
	ExpectStructure     Kind = "ExpectStructure"
	ExpectTuple         Kind = "ExpectTuple"
	ExpectArray         Kind = "ExpectArray"
	ExpectOptionPattern Kind = "ExpectOptionPattern"
	ExpectTuplePattern  Kind = "ExpectTuplePattern"
	ExpectConstant      Kind = "ExpectConstant"
	ExpectInput         Kind = "ExpectInput"
	NoTypeInference     Kind = "NoTypeInference"

	// Dataflow errors.
	NotCausalSignal    Kind = "NotCausalSignal"
	NotCausalComponent Kind = "NotCausalComponent"
	UnusedSignal       Kind = "UnusedSignal"
)

// Error is the single concrete type for every taxonomy member. Only the
// fields relevant to Kind are populated; String/Error renders the subset
// that applies.
type Error struct {
	Kind Kind
	Loc  Location

	Name      string // UnknownElement/Signal/Component/Type/Enumeration, AlreadyDefinedElement
	Structure string // MissingField/UnknownField, ExpectStructure
	Field     string // MissingField/UnknownField
	Component string // NotCausalComponent, ComponentCall, UnusedSignal
	Signal    string // NotCausalSignal, UnusedSignal

	Given    string // IncompatibleType, ExpectNumber/Abstraction/...
	Expected string // IncompatibleType

	WantArity int // ArityMismatch, IncompatibleInputsNumber
	GotArity  int

	WantLength int // IncompatibleLength
	GotLength  int

	Index int // IndexOutOfBounds
	Bound int
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownElement, UnknownSignal, UnknownComponent, UnknownType, UnknownEnumeration:
		return fmt.Sprintf("%s: %s %q is not defined", e.Loc, e.Kind, e.Name)
	case UnknownField:
		return fmt.Sprintf("%s: structure %q has no field %q", e.Loc, e.Structure, e.Field)
	case MissingField:
		return fmt.Sprintf("%s: structure %q literal is missing field %q", e.Loc, e.Structure, e.Field)
	case AlreadyDefinedElem:
		return fmt.Sprintf("%s: %q is already defined in this scope", e.Loc, e.Name)
	case ComponentCallKind:
		return fmt.Sprintf("%s: %q is a component and cannot be called as a function", e.Loc, e.Name)
	case ArityMismatch:
		return fmt.Sprintf("%s: expected %d argument(s), got %d", e.Loc, e.WantArity, e.GotArity)
	case IncompatibleInputsCount:
		return fmt.Sprintf("%s: component %q expects %d input(s), got %d", e.Loc, e.Component, e.WantArity, e.GotArity)
	case IncompatibleLength:
		return fmt.Sprintf("%s: expected array of length %d, got %d", e.Loc, e.WantLength, e.GotLength)
	case IndexOutOfBounds:
		return fmt.Sprintf("%s: index %d out of bounds (length %d)", e.Loc, e.Index, e.Bound)
	case IncompatibleType:
		return fmt.Sprintf("%s: expected type %s, found %s", e.Loc, e.Expected, e.Given)
	case ExpectNumber, ExpectAbstraction, ExpectOption, ExpectStructure, ExpectTuple, ExpectArray,
		ExpectOptionPattern, ExpectTuplePattern, ExpectConstant, ExpectInput:
		return fmt.Sprintf("%s: %s, found %s", e.Loc, e.Kind, e.Given)
	case NoTypeInference:
		return fmt.Sprintf("%s: cannot infer a type here", e.Loc)
	case NotCausalSignal:
		return fmt.Sprintf("%s: signal %q in component %q is not causal (zero-delay cycle)", e.Loc, e.Signal, e.Component)
	case NotCausalComponent:
		return fmt.Sprintf("%s: component %q is not causal (zero-delay cycle)", e.Loc, e.Component)
	case UnusedSignal:
		return fmt.Sprintf("%s: signal %q in component %q does not reach any output", e.Loc, e.Signal, e.Component)
	default:
		return fmt.Sprintf("%s: %s", e.Loc, e.Kind)
	}
}

func (e *Error) Location() Location { return e.Loc }

// Convenience constructors for the kinds every pass raises most often.

func NewUnknownElement(kind Kind, name string, loc Location) *Error {
	return &Error{Kind: kind, Name: name, Loc: loc}
}

func NewAlreadyDefined(name string, loc Location) *Error {
	return &Error{Kind: AlreadyDefinedElem, Name: name, Loc: loc}
}

func NewMissingField(structure, field string, loc Location) *Error {
	return &Error{Kind: MissingField, Structure: structure, Field: field, Loc: loc}
}

func NewUnknownField(structure, field string, loc Location) *Error {
	return &Error{Kind: UnknownField, Structure: structure, Field: field, Loc: loc}
}

func NewArityMismatch(want, got int, loc Location) *Error {
	return &Error{Kind: ArityMismatch, WantArity: want, GotArity: got, Loc: loc}
}

func NewIncompatibleInputsCount(component string, want, got int, loc Location) *Error {
	return &Error{Kind: IncompatibleInputsCount, Component: component, WantArity: want, GotArity: got, Loc: loc}
}

func NewIncompatibleType(given, expected string, loc Location) *Error {
	return &Error{Kind: IncompatibleType, Given: given, Expected: expected, Loc: loc}
}

func NewIncompatibleLength(want, got int, loc Location) *Error {
	return &Error{Kind: IncompatibleLength, WantLength: want, GotLength: got, Loc: loc}
}

func NewExpect(kind Kind, given string, loc Location) *Error {
	return &Error{Kind: kind, Given: given, Loc: loc}
}

func NewNotCausalSignal(component, signal string, loc Location) *Error {
	return &Error{Kind: NotCausalSignal, Component: component, Signal: signal, Loc: loc}
}

func NewNotCausalComponent(component string, loc Location) *Error {
	return &Error{Kind: NotCausalComponent, Component: component, Loc: loc}
}

func NewUnusedSignal(component, signal string, loc Location) *Error {
	return &Error{Kind: UnusedSignal, Component: component, Signal: signal, Loc: loc}
}
