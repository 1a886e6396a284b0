package hir

import (
	"github.com/viant/flowc/ast"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/symtab"
	"github.com/viant/flowc/types"
)

// Kind enumerates both the instantaneous-expression kinds of spec.md §3 and
// the stream-expression additions, plus When, which only ever arises during
// lowering of an event pattern match — it never appears in ast.Expr.
type Kind int

const (
	KConstant Kind = iota
	KIdentifier
	KUnop
	KBinop
	KIfThenElse
	KApplication
	KAbstraction
	KStructure
	KTuple
	KEnumeration
	KArray
	KMatch
	KFieldAccess
	KTupleElementAccess
	KMap
	KFold
	KSort
	KZip
	KWhen
	KLast
	KEmit
	KFollowedBy
	KUnitaryNodeApplication
)

type FieldInit struct {
	FieldID symtab.ID
	Value   ExprID
}

type MatchArm struct {
	Pattern *Pattern
	Guard   ExprID // NoExpr if absent
	Body    ExprID
	Loc     errs.Location
}

// Expr is the single HIR representation for every kind. Every expression
// carries an optional resolved Type (nil before typing), a Loc, and Deps —
// the `{id -> depth}` map described in spec.md §3, populated by the
// dependency graph builder (package depgraph), not by lowering itself.
type Expr struct {
	Kind Kind
	Type *types.Type
	Loc  errs.Location
	Deps map[symtab.ID]int

	// KConstant
	ConstKind string
	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string

	// KIdentifier
	Ident symtab.ID

	// KUnop / KBinop
	Op   string
	X, Y ExprID

	// KIfThenElse
	Cond, Then, Else ExprID

	// KApplication / KUnitaryNodeApplication
	Callee symtab.ID
	Args   []ExprID

	// KAbstraction
	Params []symtab.ID
	Body   ExprID

	// KStructure
	StructID   symtab.ID
	FieldInits []FieldInit

	// KTuple / KArray
	Elems []ExprID

	// KEnumeration
	EnumID    symtab.ID
	VariantID symtab.ID
	Payload   ExprID

	// KMatch
	Scrutinee ExprID
	Arms      []MatchArm

	// KFieldAccess
	Base    ExprID
	FieldID symtab.ID

	// KTupleElementAccess
	Index int

	// KMap / KFold / KSort / KZip
	Arrays []ExprID
	Fn     ExprID
	Init   ExprID

	// KWhen: synthesized from pattern-matching on an event; binds Bind to
	// the payload within Present, evaluates Default otherwise.
	WhenBind symtab.ID

	// KLast: `last x` or `last x init c`
	LastIdent symtab.ID
	HasInit   bool
	LastInit  ExprID

	// KEmit
	Emitted ExprID

	// KFollowedBy: `c fby e`
	Const ExprID
	Next  ExprID

	// KUnitaryNodeApplication (also reuses Callee/Args above)
	NodeID   symtab.ID
	OutputID symtab.ID
}

// PatternKind reuses ast.PatternKind's numbering: identical semantics, only
// the leaves (names -> ids) differ between the two packages.
type PatternKind = ast.PatternKind

const (
	PatIdentifier = ast.PatIdentifier
	PatTyped      = ast.PatTyped
	PatTuple      = ast.PatTuple
	PatConstant   = ast.PatConstant
	PatStructure  = ast.PatStructure
	PatEnumeration = ast.PatEnumeration
	PatOption     = ast.PatOption
	PatDefault    = ast.PatDefault
)

type FieldPattern struct {
	FieldID symtab.ID
	Pattern *Pattern
}

type Pattern struct {
	Kind PatternKind
	Loc  errs.Location

	ID   symtab.ID // Identifier / Typed
	Type *types.Type

	Elems []*Pattern // Tuple

	ConstExpr ExprID // Constant

	StructID symtab.ID
	Fields   []FieldPattern
	HasRest  bool

	EnumID    symtab.ID
	VariantID symtab.ID
	Payload   *Pattern

	IsNone bool
	Some   *Pattern
}

// LocalIdentifiers enumerates the ids a pattern binds into its arm's scope.
func (p *Pattern) LocalIdentifiers() []symtab.ID {
	if p == nil {
		return nil
	}
	var out []symtab.ID
	switch p.Kind {
	case PatIdentifier, PatTyped:
		out = append(out, p.ID)
	case PatTuple:
		for _, e := range p.Elems {
			out = append(out, e.LocalIdentifiers()...)
		}
	case PatStructure:
		for _, f := range p.Fields {
			out = append(out, f.Pattern.LocalIdentifiers()...)
		}
	case PatEnumeration:
		out = append(out, p.Payload.LocalIdentifiers()...)
	case PatOption:
		if !p.IsNone {
			out = append(out, p.Some.LocalIdentifiers()...)
		}
	}
	return out
}

// DefinedIdentifiers is an alias used by statement-level dependency edges:
// every id a pattern binds is, from the enclosing equation's point of view,
// "defined" rather than merely "local to an arm".
func (p *Pattern) DefinedIdentifiers() []symtab.ID { return p.LocalIdentifiers() }

type Equation struct {
	Pattern *Pattern
	Expr    ExprID
	Loc     errs.Location
}

// MemID names a memory (buffer or called-component) slot. It reuses
// symtab.ID's numbering space: every memory slot also has a symtab entry
// (minted by GetFreshID with ScopeMemory; its Kind is KindLocal) so
// diagnostics and emission can name it.
type MemID = symtab.ID

type BufferSlot struct {
	InitConst ExprID // constant-only initial value
	Source    ExprID // recomputed each tick
	Type      *types.Type
}

// MemoryDescriptor is the per-unitary-node pair of mappings from spec.md
// §3: Buffers materialize FollowedBy/Last, CalledComponents hold
// sub-component state between ticks.
type MemoryDescriptor struct {
	Buffers          map[MemID]BufferSlot
	CalledComponents map[MemID]symtab.ID
}

func NewMemoryDescriptor() *MemoryDescriptor {
	return &MemoryDescriptor{
		Buffers:          map[MemID]BufferSlot{},
		CalledComponents: map[MemID]symtab.ID{},
	}
}

// UnitaryNode is the projected view onto the equations needed to compute
// one specific output (spec.md §3).
type UnitaryNode struct {
	OutputID   symtab.ID
	Statements []Equation // unscheduled until the scheduler runs; then in schedule order
	Memory     *MemoryDescriptor
}

// Component holds a component's full, unscheduled equation set plus one
// UnitaryNode per output.
type Component struct {
	ID          symtab.ID
	IsComponent bool
	Inputs      []symtab.ID
	Outputs     []symtab.ID
	Equations   map[symtab.ID]Equation // keyed by the single id the equation's pattern defines
	UnitaryNodes map[symtab.ID]*UnitaryNode
	Memory      *MemoryDescriptor // populated by normalize.Normalize
	Loc         errs.Location

	// DepGraph holds the graph from the most recent depgraph.Build call.
	// It is not write-once: ir1.Build calls depgraph.Build three times per
	// component (naive pass, real pass, after normalization).
	DepGraph interface{}
}

// Program is the lowered form of an ast.File: every struct/enum/function/
// component resolved to ids, ready for dependency-graph construction.
type Program struct {
	Table      *symtab.Table
	Store      *Store
	Components []*Component
	Functions  map[symtab.ID]*FunctionDecl
	Services   []*ast.ServiceDef // lowered further by the service package directly from ast + Table
}

type FunctionDecl struct {
	ID     symtab.ID
	Params []symtab.ID
	Body   ExprID
	Loc    errs.Location
}
