// Package types implements the compiler's closed type system: a small set
// of concrete variants plus a "polymorphism" variant that, as spec.md §3
// puts it, is "a closed thunk that, given concrete argument types and a
// source location, returns a concrete abstract type or a typing error".
// Go has first-class function values, so unlike the design note's advice
// for languages without closures, Resolver below is simply a func field.
package types

import (
	"fmt"

	"github.com/viant/flowc/errs"
)

// Kind tags which variant a Type is.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	String
	Unit
	Array
	Option
	Tuple
	Structure
	Enumeration
	Abstract
	Signal
	Event
	Generic
	NotDefinedYet
	Polymorphism
	Any
)

func (k Kind) String() string {
	names := [...]string{"int", "float", "bool", "string", "unit", "array", "option", "tuple",
		"structure", "enumeration", "abstract", "signal", "event", "generic", "not-defined-yet",
		"polymorphism", "any"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// Resolver is a polymorphism thunk: given the concrete argument types and
// the call-site location, it either monomorphizes to a concrete Abstract
// type or reports a typing error through the sink.
type Resolver func(inputs []*Type, loc errs.Location, sink errs.Sink) (*Type, bool)

// Type is the single representation for every variant in the closed set.
// Only the fields relevant to Kind are meaningful; see the accessor
// comments below.
type Type struct {
	Kind Kind

	Elem *Type // Array/Option/Signal/Event element type
	Len  int   // Array length

	Elems []*Type // Tuple element types

	Name string // Structure/Enumeration/Generic/NotDefinedYet name
	ID   uint32 // Structure/Enumeration declaration id (symtab.ID, avoided here to keep types dep-free of symtab)

	Inputs []*Type // Abstract parameter types
	Output *Type   // Abstract return type

	Resolver Resolver // Polymorphism thunk
}

func NewInt() *Type    { return &Type{Kind: Int} }
func NewFloat() *Type  { return &Type{Kind: Float} }
func NewBool() *Type   { return &Type{Kind: Bool} }
func NewString() *Type { return &Type{Kind: String} }
func NewUnit() *Type   { return &Type{Kind: Unit} }
func NewAny() *Type    { return &Type{Kind: Any} }

func NewArray(elem *Type, n int) *Type { return &Type{Kind: Array, Elem: elem, Len: n} }
func NewOption(elem *Type) *Type       { return &Type{Kind: Option, Elem: elem} }
func NewTuple(elems ...*Type) *Type    { return &Type{Kind: Tuple, Elems: elems} }
func NewSignal(elem *Type) *Type       { return &Type{Kind: Signal, Elem: elem} }
func NewEvent(elem *Type) *Type        { return &Type{Kind: Event, Elem: elem} }
func NewGeneric(name string) *Type     { return &Type{Kind: Generic, Name: name} }
func NewNotDefinedYet(name string) *Type {
	return &Type{Kind: NotDefinedYet, Name: name}
}
func NewStructure(name string, id uint32) *Type {
	return &Type{Kind: Structure, Name: name, ID: id}
}
func NewEnumeration(name string, id uint32) *Type {
	return &Type{Kind: Enumeration, Name: name, ID: id}
}
func NewAbstract(inputs []*Type, output *Type) *Type {
	return &Type{Kind: Abstract, Inputs: inputs, Output: output}
}
func NewPolymorphism(r Resolver) *Type { return &Type{Kind: Polymorphism, Resolver: r} }

// Convert implements the spec.md §3 "convert" law: signal(T) ↦ T,
// event(T) ↦ option(T). Any other type converts to itself.
func (t *Type) Convert() *Type {
	switch t.Kind {
	case Signal:
		return t.Elem
	case Event:
		return NewOption(t.Elem)
	default:
		return t
	}
}

// Equal implements the structural equality described in spec.md §3: two
// types are equal iff their variants and components match, with Abstract
// equality being structural (same inputs, same output).
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Array:
		return t.Len == other.Len && t.Elem.Equal(other.Elem)
	case Option, Signal, Event:
		return t.Elem.Equal(other.Elem)
	case Tuple:
		if len(t.Elems) != len(other.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	case Structure, Enumeration:
		return t.ID == other.ID
	case Generic, NotDefinedYet:
		return t.Name == other.Name
	case Abstract:
		if len(t.Inputs) != len(other.Inputs) {
			return false
		}
		for i := range t.Inputs {
			if !t.Inputs[i].Equal(other.Inputs[i]) {
				return false
			}
		}
		return t.Output.Equal(other.Output)
	case Polymorphism:
		// two unresolved thunks are never considered equal; callers should
		// have monomorphized one of them via Apply before comparing.
		return false
	default:
		return true // Int, Float, Bool, String, Unit, Any
	}
}

// String renders a type the way a diagnostic message would reference it.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Array:
		return fmt.Sprintf("array(%s,%d)", t.Elem, t.Len)
	case Option:
		return fmt.Sprintf("option(%s)", t.Elem)
	case Signal:
		return fmt.Sprintf("signal(%s)", t.Elem)
	case Event:
		return fmt.Sprintf("event(%s)", t.Elem)
	case Tuple:
		s := "tuple("
		for i, e := range t.Elems {
			if i > 0 {
				s += ","
			}
			s += e.String()
		}
		return s + ")"
	case Structure:
		return "structure(" + t.Name + ")"
	case Enumeration:
		return "enumeration(" + t.Name + ")"
	case Generic:
		return "generic(" + t.Name + ")"
	case NotDefinedYet:
		return "not-defined-yet(" + t.Name + ")"
	case Abstract:
		s := "abstract("
		for i, in := range t.Inputs {
			if i > 0 {
				s += ","
			}
			s += in.String()
		}
		return s + "->" + t.Output.String() + ")"
	case Polymorphism:
		return "polymorphism(..)"
	default:
		return t.Kind.String()
	}
}
