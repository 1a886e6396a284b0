package hir

import (
	"github.com/viant/flowc/ast"
	"github.com/viant/flowc/errs"
	"github.com/viant/flowc/symtab"
	"github.com/viant/flowc/types"
)

func toLoc(l ast.Location) errs.Location {
	return errs.Location{FileID: l.FileID, Start: l.Start, End: l.End}
}

// Lowerer walks one ast.File and produces a Program. It never returns an
// error directly: every problem is pushed onto Sink, following spec.md §4.1's
// "accumulate, don't abort" diagnostic model. Callers of Lower check
// errs.Terminated(sink) themselves before proceeding.
type Lowerer struct {
	table *symtab.Table
	store *Store
	sink  errs.Sink

	structsByName map[string]symtab.ID
	enumsByName   map[string]symtab.ID
	funcsByName   map[string]symtab.ID
	compsByName   map[string]symtab.ID
}

// Lower lowers a whole file. The returned Program's Components/Functions are
// populated; Services are left as raw ast nodes since the service package
// lowers flow expressions directly against the same Table.
func Lower(file *ast.File, sink errs.Sink) *Program {
	lw := &Lowerer{
		table:         symtab.New(),
		store:         NewStore(),
		sink:          sink,
		structsByName: map[string]symtab.ID{},
		enumsByName:   map[string]symtab.ID{},
		funcsByName:   map[string]symtab.ID{},
		compsByName:   map[string]symtab.ID{},
	}
	return lw.lowerFile(file)
}

func (lw *Lowerer) lowerFile(file *ast.File) *Program {
	// Pass 1: register every top-level name before lowering bodies, so
	// mutually-recursive components and forward struct/enum references
	// resolve regardless of declaration order.
	for i := range file.Structs {
		s := &file.Structs[i]
		id, _ := lw.table.InsertIdentifier(s.Name, symtab.KindStruct, symtab.ScopeLocal, nil, toLoc(s.Loc), lw.sink)
		lw.structsByName[s.Name] = id
	}
	for i := range file.Enums {
		e := &file.Enums[i]
		id, _ := lw.table.InsertIdentifier(e.Name, symtab.KindEnum, symtab.ScopeLocal, nil, toLoc(e.Loc), lw.sink)
		lw.enumsByName[e.Name] = id
	}
	for i := range file.Functions {
		f := &file.Functions[i]
		id, _ := lw.table.InsertIdentifier(f.Name, symtab.KindFunction, symtab.ScopeLocal, nil, toLoc(f.Loc), lw.sink)
		lw.funcsByName[f.Name] = id
	}
	for i := range file.Components {
		c := &file.Components[i]
		kind := symtab.KindSignal
		if c.IsComponent {
			kind = symtab.KindComponent
		}
		id, _ := lw.table.InsertIdentifier(c.Name, kind, symtab.ScopeLocal, nil, toLoc(c.Loc), lw.sink)
		lw.compsByName[c.Name] = id
	}

	// Pass 2: lower bodies, now that every name resolves.
	for i := range file.Structs {
		lw.lowerStruct(&file.Structs[i])
	}
	for i := range file.Enums {
		lw.lowerEnum(&file.Enums[i])
	}
	functions := map[symtab.ID]*FunctionDecl{}
	for i := range file.Functions {
		f := &file.Functions[i]
		decl := lw.lowerFunction(f)
		functions[lw.funcsByName[f.Name]] = decl
	}
	var components []*Component
	for i := range file.Components {
		components = append(components, lw.lowerComponent(&file.Components[i]))
	}

	return &Program{
		Table:      lw.table,
		Store:      lw.store,
		Components: components,
		Functions:  functions,
		Services:   asServicePtrs(file.Services),
	}
}

func asServicePtrs(svcs []ast.ServiceDef) []*ast.ServiceDef {
	out := make([]*ast.ServiceDef, len(svcs))
	for i := range svcs {
		out[i] = &svcs[i]
	}
	return out
}

func (lw *Lowerer) lowerStruct(s *ast.StructDef) {
	structID := lw.structsByName[s.Name]
	lw.table.SetType(structID, types.NewStructure(s.Name, uint32(structID)))
	fieldIDs := make([]symtab.ID, 0, len(s.Fields))
	for _, f := range s.Fields {
		ft := lw.lowerTypeExpr(f.Type)
		fid, ok := lw.table.InsertIdentifier(f.Name, symtab.KindStructField, symtab.ScopeLocal, ft, toLoc(f.Loc), lw.sink)
		if ok {
			fieldIDs = append(fieldIDs, fid)
		}
	}
	lw.table.SetStructFields(structID, fieldIDs)
}

func (lw *Lowerer) lowerEnum(e *ast.EnumDef) {
	enumID := lw.enumsByName[e.Name]
	lw.table.SetType(enumID, types.NewEnumeration(e.Name, uint32(enumID)))
	for _, v := range e.Variants {
		var payload *types.Type
		if v.Payload != nil {
			payload = lw.lowerTypeExpr(v.Payload)
		}
		lw.table.InsertIdentifier(v.Name, symtab.KindEnumVariant, symtab.ScopeLocal, payload, toLoc(v.Loc), lw.sink)
	}
}

func (lw *Lowerer) lowerTypeExpr(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return nil
	}
	loc := toLoc(te.Loc)
	switch te.Kind {
	case "int":
		return types.NewInt()
	case "float":
		return types.NewFloat()
	case "bool":
		return types.NewBool()
	case "string":
		return types.NewString()
	case "unit":
		return types.NewUnit()
	case "any":
		return types.NewAny()
	case "array":
		return types.NewArray(lw.lowerTypeExpr(te.Elem), te.Len)
	case "option":
		return types.NewOption(lw.lowerTypeExpr(te.Elem))
	case "signal":
		return types.NewSignal(lw.lowerTypeExpr(te.Elem))
	case "event":
		return types.NewEvent(lw.lowerTypeExpr(te.Elem))
	case "tuple":
		elems := make([]*types.Type, len(te.Elems))
		for i, e := range te.Elems {
			elems[i] = lw.lowerTypeExpr(e)
		}
		return types.NewTuple(elems...)
	case "abstract":
		inputs := make([]*types.Type, len(te.Inputs))
		for i, in := range te.Inputs {
			inputs[i] = lw.lowerTypeExpr(in)
		}
		return types.NewAbstract(inputs, lw.lowerTypeExpr(te.Output))
	case "named":
		if id, ok := lw.structsByName[te.Name]; ok {
			return types.NewStructure(te.Name, uint32(id))
		}
		if id, ok := lw.enumsByName[te.Name]; ok {
			return types.NewEnumeration(te.Name, uint32(id))
		}
		lw.sink.Push(errs.NewUnknownElement(errs.UnknownType, te.Name, loc))
		return types.NewNotDefinedYet(te.Name)
	default:
		return types.NewGeneric(te.Name)
	}
}

func (lw *Lowerer) lowerFunction(f *ast.FunctionDef) *FunctionDecl {
	lw.table.PushScope()
	defer lw.table.PopScope()

	params := make([]symtab.ID, 0, len(f.Params))
	for _, p := range f.Params {
		pt := lw.lowerTypeExpr(p.Type)
		pid, ok := lw.table.InsertIdentifier(p.Name, symtab.KindLocal, symtab.ScopeLocal, pt, toLoc(p.Loc), lw.sink)
		if ok {
			params = append(params, pid)
		}
	}
	body := lw.lowerExpr(f.Body)
	return &FunctionDecl{ID: lw.funcsByName[f.Name], Params: params, Body: body, Loc: toLoc(f.Loc)}
}

func (lw *Lowerer) lowerComponent(c *ast.ComponentDef) *Component {
	lw.table.PushScope()
	defer lw.table.PopScope()

	compID := lw.compsByName[c.Name]
	inputs := make([]symtab.ID, 0, len(c.Inputs))
	for _, p := range c.Inputs {
		pt := lw.lowerTypeExpr(p.Type)
		pid, ok := lw.table.InsertIdentifier(p.Name, symtab.KindInput, symtab.ScopeInput, pt, toLoc(p.Loc), lw.sink)
		if ok {
			inputs = append(inputs, pid)
		}
	}

	// Equation left-hand sides are registered before any right-hand side is
	// lowered: a signal equation's own name is almost always referenced on
	// its own right-hand side (every fby/last recursion does this), so the
	// whole left-hand-side set must already be in scope by the time the
	// first body is visited, the same two-pass "register names, then
	// resolve bodies" shape lowerFile uses for top-level declarations.
	patterns := make([]*Pattern, len(c.Equations))
	for i, eq := range c.Equations {
		patterns[i] = lw.lowerBindingPattern(eq.Pattern, symtab.KindOutput, symtab.ScopeOutput)
	}

	equations := map[symtab.ID]Equation{}
	var outputs []symtab.ID
	for i, eq := range c.Equations {
		expr := lw.lowerExpr(eq.Expr)
		pat := patterns[i]
		for _, id := range pat.DefinedIdentifiers() {
			equations[id] = Equation{Pattern: pat, Expr: expr, Loc: toLoc(eq.Loc)}
			outputs = append(outputs, id)
		}
	}

	return &Component{
		ID:          compID,
		IsComponent: c.IsComponent,
		Inputs:      inputs,
		Outputs:     outputs,
		Equations:   equations,
		UnitaryNodes: map[symtab.ID]*UnitaryNode{}, // left empty: no pass fills it
		Loc:         toLoc(c.Loc),
	}
}

// lowerBindingPattern lowers a pattern appearing on an equation's left-hand
// side, where every leaf introduces a NEW identifier (as opposed to a match
// arm pattern, which may also destructure types already known).
func (lw *Lowerer) lowerBindingPattern(p *ast.Pattern, kind symtab.Kind, scope symtab.Scope) *Pattern {
	if p == nil {
		return nil
	}
	loc := toLoc(p.Loc)
	switch p.Kind {
	case ast.PatIdentifier:
		id, _ := lw.table.InsertIdentifier(p.Name, kind, scope, nil, loc, lw.sink)
		return &Pattern{Kind: PatIdentifier, Loc: loc, ID: id}
	case ast.PatTyped:
		t := lw.lowerTypeExpr(p.Type)
		id, _ := lw.table.InsertIdentifier(p.Name, kind, scope, t, loc, lw.sink)
		return &Pattern{Kind: PatTyped, Loc: loc, ID: id, Type: t}
	case ast.PatTuple:
		elems := make([]*Pattern, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = lw.lowerBindingPattern(e, kind, scope)
		}
		return &Pattern{Kind: PatTuple, Loc: loc, Elems: elems}
	default:
		// Constant/Structure/Enumeration/Option/Default patterns never
		// appear on an equation's left-hand side (spec.md §3 restricts
		// those to match arms); fall back to match-pattern lowering.
		return lw.lowerMatchPattern(p)
	}
}

// lowerMatchPattern lowers a pattern appearing inside a match arm, where
// Structure/Enumeration/Constant/Option forms destructure an existing value.
func (lw *Lowerer) lowerMatchPattern(p *ast.Pattern) *Pattern {
	if p == nil {
		return nil
	}
	loc := toLoc(p.Loc)
	switch p.Kind {
	case ast.PatIdentifier:
		id, _ := lw.table.InsertIdentifier(p.Name, symtab.KindLocal, symtab.ScopeLocal, nil, loc, lw.sink)
		return &Pattern{Kind: PatIdentifier, Loc: loc, ID: id}
	case ast.PatTyped:
		t := lw.lowerTypeExpr(p.Type)
		id, _ := lw.table.InsertIdentifier(p.Name, symtab.KindLocal, symtab.ScopeLocal, t, loc, lw.sink)
		return &Pattern{Kind: PatTyped, Loc: loc, ID: id, Type: t}
	case ast.PatTuple:
		elems := make([]*Pattern, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = lw.lowerMatchPattern(e)
		}
		return &Pattern{Kind: PatTuple, Loc: loc, Elems: elems}
	case ast.PatConstant:
		return &Pattern{Kind: PatConstant, Loc: loc, ConstExpr: lw.lowerExpr(p.ConstExpr)}
	case ast.PatStructure:
		structID, ok := lw.table.GetStructID(p.StructName, loc, lw.sink)
		if !ok {
			return &Pattern{Kind: PatStructure, Loc: loc, HasRest: p.HasRest}
		}
		known := map[string]symtab.ID{}
		for _, fid := range lw.table.GetStructFields(structID) {
			known[lw.table.GetName(fid)] = fid
		}
		fields := make([]FieldPattern, 0, len(p.Fields))
		for _, f := range p.Fields {
			fid, ok := known[f.Field]
			if !ok {
				lw.sink.Push(errs.NewUnknownField(p.StructName, f.Field, loc))
				continue
			}
			fields = append(fields, FieldPattern{FieldID: fid, Pattern: lw.lowerMatchPattern(f.Pattern)})
		}
		return &Pattern{Kind: PatStructure, Loc: loc, StructID: structID, Fields: fields, HasRest: p.HasRest}
	case ast.PatEnumeration:
		variantID, ok := lw.table.GetEnumElemID(0, p.VariantName, loc, lw.sink)
		var enumID symtab.ID
		if ok {
			enumID, _ = lw.table.GetEnumID(p.EnumName, loc, lw.sink)
		}
		return &Pattern{Kind: PatEnumeration, Loc: loc, EnumID: enumID, VariantID: variantID, Payload: lw.lowerMatchPattern(p.Payload)}
	case ast.PatOption:
		if p.IsNone {
			return &Pattern{Kind: PatOption, Loc: loc, IsNone: true}
		}
		return &Pattern{Kind: PatOption, Loc: loc, Some: lw.lowerMatchPattern(p.Some)}
	case ast.PatDefault:
		return &Pattern{Kind: PatDefault, Loc: loc}
	default:
		return &Pattern{Kind: p.Kind, Loc: loc}
	}
}

func (lw *Lowerer) lowerExpr(e *ast.Expr) ExprID {
	if e == nil {
		return NoExpr
	}
	loc := toLoc(e.Loc)
	switch e.Kind {
	case ast.EConstant:
		var t *types.Type
		switch e.ConstKind {
		case "int":
			t = types.NewInt()
		case "float":
			t = types.NewFloat()
		case "bool":
			t = types.NewBool()
		case "string":
			t = types.NewString()
		default:
			t = types.NewUnit()
		}
		return lw.store.New(Expr{Kind: KConstant, Type: t, Loc: loc,
			ConstKind: e.ConstKind, IntVal: e.IntVal, FloatVal: e.FloatVal, BoolVal: e.BoolVal, StringVal: e.StringVal})

	case ast.EIdentifier:
		id, ok := lw.table.GetIdentifierID(e.Name, true, loc, lw.sink)
		var t *types.Type
		if ok {
			t = lw.table.GetType(id)
		}
		return lw.store.New(Expr{Kind: KIdentifier, Type: t, Loc: loc, Ident: id})

	case ast.EUnop:
		x := lw.lowerExpr(e.X)
		return lw.store.New(Expr{Kind: KUnop, Loc: loc, Op: e.Op, X: x})

	case ast.EBinop:
		x := lw.lowerExpr(e.X)
		y := lw.lowerExpr(e.Y)
		t := lw.applyOperator(e.Op, []ExprID{x, y}, loc)
		return lw.store.New(Expr{Kind: KBinop, Type: t, Loc: loc, Op: e.Op, X: x, Y: y})

	case ast.EIfThenElse:
		cond := lw.lowerExpr(e.Cond)
		then := lw.lowerExpr(e.Then)
		els := lw.lowerExpr(e.Else)
		abs := types.IfThenElse()
		t, _ := abs.Apply([]*types.Type{lw.typeOf(cond), lw.typeOf(then), lw.typeOf(els)}, loc, lw.sink)
		return lw.store.New(Expr{Kind: KIfThenElse, Type: t, Loc: loc, Cond: cond, Then: then, Else: els})

	case ast.EApplication:
		args := lw.lowerExprList(e.Args)
		calleeID, ok := lw.table.GetIdentifierID(e.Callee, true, loc, lw.sink)
		if ok && lw.table.GetKind(calleeID) == symtab.KindComponent {
			lw.sink.Push(errs.NewUnknownElement(errs.ComponentCallKind, e.Callee, loc))
		}
		var t *types.Type
		if ok {
			ft := lw.table.GetType(calleeID)
			if ft != nil {
				argTypes := make([]*types.Type, len(args))
				for i, a := range args {
					argTypes[i] = lw.typeOf(a)
				}
				t, _ = ft.Apply(argTypes, loc, lw.sink)
			}
		}
		return lw.store.New(Expr{Kind: KApplication, Type: t, Loc: loc, Callee: calleeID, Args: args})

	case ast.EAbstraction:
		lw.table.PushScope()
		params := make([]symtab.ID, len(e.Params))
		for i, p := range e.Params {
			pt := lw.lowerTypeExpr(p.Type)
			params[i], _ = lw.table.InsertIdentifier(p.Name, symtab.KindLocal, symtab.ScopeLocal, pt, toLoc(p.Loc), lw.sink)
		}
		body := lw.lowerExpr(e.Body)
		lw.table.PopScope()
		return lw.store.New(Expr{Kind: KAbstraction, Loc: loc, Params: params, Body: body})

	case ast.EStructure:
		structID, ok := lw.table.GetStructID(e.StructName, loc, lw.sink)
		fieldInits := make([]FieldInit, 0, len(e.FieldInits))
		given := map[symtab.ID]bool{}
		if ok {
			known := map[string]symtab.ID{}
			for _, fid := range lw.table.GetStructFields(structID) {
				known[lw.table.GetName(fid)] = fid
			}
			for _, fi := range e.FieldInits {
				fid, ok := known[fi.Field]
				if !ok {
					lw.sink.Push(errs.NewUnknownField(e.StructName, fi.Field, loc))
					continue
				}
				val := lw.lowerExpr(fi.Value)
				fieldInits = append(fieldInits, FieldInit{FieldID: fid, Value: val})
				given[fid] = true
			}
			for _, fid := range lw.table.GetStructFields(structID) {
				if !given[fid] {
					lw.sink.Push(errs.NewMissingField(e.StructName, lw.table.GetName(fid), loc))
				}
			}
		}
		var t *types.Type
		if ok {
			t = types.NewStructure(e.StructName, uint32(structID))
		}
		return lw.store.New(Expr{Kind: KStructure, Type: t, Loc: loc, StructID: structID, FieldInits: fieldInits})

	case ast.ETuple:
		elems := lw.lowerExprList(e.Elems)
		elemTypes := make([]*types.Type, len(elems))
		for i, el := range elems {
			elemTypes[i] = lw.typeOf(el)
		}
		return lw.store.New(Expr{Kind: KTuple, Type: types.NewTuple(elemTypes...), Loc: loc, Elems: elems})

	case ast.EEnumeration:
		enumID, ok := lw.table.GetEnumID(e.EnumName, loc, lw.sink)
		var variantID symtab.ID
		if ok {
			variantID, _ = lw.table.GetEnumElemID(enumID, e.VariantName, loc, lw.sink)
		}
		payload := lw.lowerExpr(e.Payload)
		var t *types.Type
		if ok {
			t = types.NewEnumeration(e.EnumName, uint32(enumID))
		}
		return lw.store.New(Expr{Kind: KEnumeration, Type: t, Loc: loc, EnumID: enumID, VariantID: variantID, Payload: payload})

	case ast.EArray:
		elems := lw.lowerExprList(e.Elems)
		var elemType *types.Type
		if len(elems) > 0 {
			elemType = lw.typeOf(elems[0])
		}
		return lw.store.New(Expr{Kind: KArray, Type: types.NewArray(elemType, len(elems)), Loc: loc, Elems: elems})

	case ast.EMatch:
		scrutinee := lw.lowerExpr(e.Scrutinee)
		arms := make([]MatchArm, len(e.Arms))
		for i, a := range e.Arms {
			lw.table.PushScope()
			pat := lw.lowerMatchPattern(a.Pattern)
			guard := lw.lowerExpr(a.Guard)
			body := lw.lowerExpr(a.Body)
			lw.table.PopScope()
			arms[i] = MatchArm{Pattern: pat, Guard: guard, Body: body, Loc: toLoc(a.Loc)}
		}
		var t *types.Type
		if len(arms) > 0 {
			t = lw.typeOf(arms[0].Body)
		}
		return lw.store.New(Expr{Kind: KMatch, Type: t, Loc: loc, Scrutinee: scrutinee, Arms: arms})

	case ast.EFieldAccess:
		base := lw.lowerExpr(e.Base)
		baseType := lw.typeOf(base)
		var fieldID symtab.ID
		var t *types.Type
		if baseType != nil && baseType.Kind == types.Structure {
			for _, fid := range lw.table.GetStructFields(symtab.ID(baseType.ID)) {
				if lw.table.GetName(fid) == e.Field {
					fieldID = fid
					t = lw.table.GetType(fid)
					break
				}
			}
			if fieldID == 0 {
				lw.sink.Push(errs.NewUnknownField(baseType.Name, e.Field, loc))
			}
		} else if baseType != nil {
			lw.sink.Push(errs.NewExpect(errs.ExpectStructure, baseType.String(), loc))
		}
		return lw.store.New(Expr{Kind: KFieldAccess, Type: t, Loc: loc, Base: base, FieldID: fieldID})

	case ast.ETupleElementAccess:
		base := lw.lowerExpr(e.Base)
		baseType := lw.typeOf(base)
		var t *types.Type
		if baseType != nil && baseType.Kind == types.Tuple {
			if e.Index < 0 || e.Index >= len(baseType.Elems) {
				lw.sink.Push(&errs.Error{Kind: errs.IndexOutOfBounds, Index: e.Index, Bound: len(baseType.Elems), Loc: loc})
			} else {
				t = baseType.Elems[e.Index]
			}
		} else if baseType != nil {
			lw.sink.Push(errs.NewExpect(errs.ExpectTuple, baseType.String(), loc))
		}
		return lw.store.New(Expr{Kind: KTupleElementAccess, Type: t, Loc: loc, Base: base, Index: e.Index})

	case ast.EMap, ast.EFold, ast.ESort, ast.EZip:
		arrays := lw.lowerExprList(e.Arrays)
		fn := lw.lowerExpr(e.Fn)
		init := lw.lowerExpr(e.Init)
		kind := map[ast.ExprKind]Kind{ast.EMap: KMap, ast.EFold: KFold, ast.ESort: KSort, ast.EZip: KZip}[e.Kind]
		var t *types.Type
		switch e.Kind {
		case ast.EFold:
			t = lw.typeOf(init)
		default:
			if len(arrays) > 0 {
				at := lw.typeOf(arrays[0])
				if at != nil {
					t = types.NewArray(at.Elem, at.Len)
				}
			}
		}
		return lw.store.New(Expr{Kind: kind, Type: t, Loc: loc, Arrays: arrays, Fn: fn, Init: init})

	case ast.ELast:
		id, ok := lw.table.GetIdentifierID(e.Ident, true, loc, lw.sink)
		var t *types.Type
		if ok {
			t = lw.table.GetType(id)
		}
		lastInit := NoExpr
		if e.HasInit {
			lastInit = lw.lowerExpr(e.LastInit)
		}
		return lw.store.New(Expr{Kind: KLast, Type: t, Loc: loc, LastIdent: id, HasInit: e.HasInit, LastInit: lastInit})

	case ast.EEmit:
		emitted := lw.lowerExpr(e.Emitted)
		var t *types.Type
		if et := lw.typeOf(emitted); et != nil {
			t = types.NewEvent(et)
		}
		return lw.store.New(Expr{Kind: KEmit, Type: t, Loc: loc, Emitted: emitted})

	case ast.EFollowedBy:
		c := lw.lowerExpr(e.Const)
		next := lw.lowerExpr(e.Next)
		return lw.store.New(Expr{Kind: KFollowedBy, Type: lw.typeOf(c), Loc: loc, Const: c, Next: next})

	case ast.ENodeApplication:
		args := lw.lowerExprList(e.Args)
		nodeID, ok := lw.table.GetIdentifierID(e.NodeName, true, loc, lw.sink)
		var outputID symtab.ID
		var t *types.Type
		if ok {
			outputID, _ = lw.table.GetIdentifierID(e.Output, true, loc, lw.sink)
			t = lw.table.GetType(outputID)
		}
		return lw.store.New(Expr{Kind: KUnitaryNodeApplication, Type: t, Loc: loc, NodeID: nodeID, Args: args, OutputID: outputID})

	default:
		lw.sink.Push(&errs.Error{Kind: errs.NoTypeInference, Loc: loc})
		return lw.store.New(Expr{Kind: KConstant, Loc: loc, ConstKind: "unit"})
	}
}

func (lw *Lowerer) lowerExprList(es []*ast.Expr) []ExprID {
	out := make([]ExprID, len(es))
	for i, e := range es {
		out[i] = lw.lowerExpr(e)
	}
	return out
}

func (lw *Lowerer) typeOf(id ExprID) *types.Type {
	if id == NoExpr {
		return nil
	}
	return lw.store.Get(id).Type
}

// applyOperator maps a binary operator spelling onto the builtin abstract
// type it exercises, per spec.md §3's operator table.
func (lw *Lowerer) applyOperator(op string, args []ExprID, loc errs.Location) *types.Type {
	argTypes := []*types.Type{lw.typeOf(args[0]), lw.typeOf(args[1])}
	var abs *types.Type
	switch op {
	case "+", "-", "*", "/", "%":
		abs = types.NumericOp()
	case "<", "<=", ">", ">=":
		abs = types.NumericCompare()
	case "==", "!=":
		abs = types.Equality()
	case "&&":
		abs = types.LogicalAnd()
	case "||":
		abs = types.LogicalOr()
	default:
		lw.sink.Push(&errs.Error{Kind: errs.NoTypeInference, Loc: loc})
		return nil
	}
	t, _ := abs.Apply(argTypes, loc, lw.sink)
	return t
}
