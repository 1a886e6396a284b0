// Package symtab assigns every source name a stable, opaque integer id and
// tracks its kind, scope and (once resolved) type, following the teacher
// repository's habit of giving every identifier a dense struct
// (linage.Identity) rather than carrying strings around post-lowering.
package symtab

import (
	"fmt"

	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/types"
)

// ID is an opaque identifier handle. The zero value never denotes a real
// identifier; a fresh table starts handing out ids at 1.
type ID uint32

// Kind is the role a name plays in the source language.
type Kind int

const (
	KindFunction Kind = iota
	KindComponent
	KindStruct
	KindEnum
	KindEnumVariant
	KindStructField
	KindSignal
	KindFlow
	KindLocal
	KindMemory
	KindInput
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindComponent:
		return "component"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindEnumVariant:
		return "enum-variant"
	case KindStructField:
		return "struct-field"
	case KindSignal:
		return "signal"
	case KindFlow:
		return "flow"
	case KindLocal:
		return "local-binding"
	case KindMemory:
		return "memory cell"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Scope tags where an id's storage lives, distinct from the lexical scope
// stack used during resolution.
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeInput
	ScopeOutput
	ScopeMemory
)

type entry struct {
	name  string
	kind  Kind
	scope Scope
	typ   *types.Type
}

// Table is a stack of lexical scopes mapping names to ids, plus the dense
// id -> entry store. PushScope/PopScope correspond to spec.md's
// "local()"/"global()" pair: PushScope opens a new nested scope,
// PopScope discards it.
type Table struct {
	entries      []entry // index 0 is unused so the zero ID stays invalid
	scopes       []map[string]ID
	fresh        int
	structFields map[ID][]ID
}

// New creates a table with a single, outermost scope already pushed.
func New() *Table {
	t := &Table{entries: make([]entry, 1)}
	t.PushScope()
	return t
}

func (t *Table) PushScope() { t.scopes = append(t.scopes, map[string]ID{}) }

func (t *Table) PopScope() {
	if len(t.scopes) == 0 {
		panic("symtab: PopScope on empty scope stack")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

func (t *Table) currentScope() map[string]ID { return t.scopes[len(t.scopes)-1] }

// InsertIdentifier assigns a fresh id to name in the current (innermost)
// scope. It fails with AlreadyDefinedElement if name is already bound in
// that same scope — shadowing an outer scope is allowed.
func (t *Table) InsertIdentifier(name string, kind Kind, scope Scope, typ *types.Type, loc errs.Location, sink errs.Sink) (ID, bool) {
	cur := t.currentScope()
	if _, exists := cur[name]; exists {
		sink.Push(errs.NewAlreadyDefined(name, loc))
		return 0, false
	}
	id := ID(len(t.entries))
	t.entries = append(t.entries, entry{name: name, kind: kind, scope: scope, typ: typ})
	cur[name] = id
	return id, true
}

// GetIdentifierID searches scopes innermost-to-outermost. requireDefined
// exists for forward-reference contexts (e.g. recursive component calls)
// where a caller wants to know "does this name resolve at all" without
// erroring on not-yet-typed entries; in this package every inserted id is
// immediately defined, so requireDefined is accepted for interface symmetry
// with spec.md §4.1 and currently has no effect beyond documentation.
func (t *Table) GetIdentifierID(name string, requireDefined bool, loc errs.Location, sink errs.Sink) (ID, bool) {
	_ = requireDefined
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if id, ok := t.scopes[i][name]; ok {
			return id, true
		}
	}
	sink.Push(errs.NewUnknownElement(errs.UnknownElement, name, loc))
	return 0, false
}

func (t *Table) lookupKind(name string, wantKind Kind, errKind errs.Kind, loc errs.Location, sink errs.Sink) (ID, bool) {
	id, ok := t.GetIdentifierID(name, true, loc, sink)
	if !ok {
		return 0, false
	}
	if t.entries[id].kind != wantKind {
		sink.Push(errs.NewUnknownElement(errKind, name, loc))
		return 0, false
	}
	return id, true
}

func (t *Table) GetStructID(name string, loc errs.Location, sink errs.Sink) (ID, bool) {
	return t.lookupKind(name, KindStruct, errs.UnknownType, loc, sink)
}

func (t *Table) GetEnumID(name string, loc errs.Location, sink errs.Sink) (ID, bool) {
	return t.lookupKind(name, KindEnum, errs.UnknownEnumeration, loc, sink)
}

func (t *Table) GetEnumElemID(enum ID, variant string, loc errs.Location, sink errs.Sink) (ID, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if id, ok := t.scopes[i][variant]; ok && t.entries[id].kind == KindEnumVariant {
			return id, true
		}
	}
	sink.Push(errs.NewUnknownElement(errs.UnknownElement, variant, loc))
	return 0, false
}

func (t *Table) GetFunctionID(name string, loc errs.Location, sink errs.Sink) (ID, bool) {
	return t.lookupKind(name, KindFunction, errs.UnknownElement, loc, sink)
}

// GetStructFields returns the field ids registered under the given struct
// id, in declaration order. Field identifiers are inserted in whatever
// scope is current when the struct is lowered; lowering records the list
// (see hir's structure lowering), so this returns whatever the caller
// previously stashed with SetStructFields.
func (t *Table) GetStructFields(id ID) []ID {
	return t.structFields[id]
}

func (t *Table) SetStructFields(id ID, fields []ID) {
	if t.structFields == nil {
		t.structFields = map[ID][]ID{}
	}
	t.structFields[id] = fields
}

func (t *Table) GetName(id ID) string { return t.entries[id].name }

func (t *Table) GetKind(id ID) Kind { return t.entries[id].kind }

func (t *Table) GetScope(id ID) Scope { return t.entries[id].scope }

func (t *Table) SetScope(id ID, scope Scope) { t.entries[id].scope = scope }

func (t *Table) GetType(id ID) *types.Type { return t.entries[id].typ }

func (t *Table) SetType(id ID, typ *types.Type) { t.entries[id].typ = typ }

func (t *Table) IsFunction(id ID) bool { return t.entries[id].kind == KindFunction }

// GetFreshID mints a compiler-introduced temporary in the current scope.
// Fresh names follow `reserved_<origin>_<role>_<n>` and are probed against
// every open scope so they can never collide with a user-visible name.
func (t *Table) GetFreshID(origin, role string, typ *types.Type, scope Scope) ID {
	for {
		t.fresh++
		name := fmt.Sprintf("reserved_%s_%s_%d", origin, role, t.fresh)
		if t.probe(name) {
			continue
		}
		id := ID(len(t.entries))
		t.entries = append(t.entries, entry{name: name, kind: KindLocal, scope: scope, typ: typ})
		t.currentScope()[name] = id
		return id
	}
}

func (t *Table) probe(name string) bool {
	for _, s := range t.scopes {
		if _, ok := s[name]; ok {
			return true
		}
	}
	return false
}
