// Package constraintgen implements the two-phase traversal that walks a
// scope-resolved AST and emits the typing constraints encoding the
// language's semantics (binding operators, qualifiers, generics, and
// overloading).
package constraintgen

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// Generator walks a File and accumulates constraints into a Set, raising
// diagnostics into a Sink for anything it can resolve statically (unbound
// names, invalid qualifier combinations, malformed generic specializations,
// duplicate destructors).
type Generator struct {
	ctx  *types.CompilerContext
	set  *constraint.Set
	sink *diagnostic.Sink

	// currentCodomain is a stack of the innermost enclosing function's
	// declared codomain type, consulted by ReturnStmt.
	currentCodomain []types.Type
}

// New creates a Generator sharing ctx's interning tables, appending to set
// and sink.
func New(ctx *types.CompilerContext, set *constraint.Set, sink *diagnostic.Sink) *Generator {
	return &Generator{ctx: ctx, set: set, sink: sink}
}

// Generate runs two phases over file: a declare phase that fixes the type
// of every named declaration (so mutually-referencing top-level
// declarations resolve regardless of source order), followed by a body
// phase that visits statements and expressions.
func (g *Generator) Generate(file *ast.File) {
	for _, d := range file.Decls {
		g.declare(d)
	}
	for _, d := range file.Decls {
		g.body(d)
	}
}

func (g *Generator) declare(d ast.Decl) {
	switch d := d.(type) {
	case *ast.StructDecl:
		g.declareStruct(d)
	case *ast.FunDecl:
		g.declareFun(d, nil, nil)
	case *ast.PropDecl:
		g.declareProp(d, nil)
	}
}

func (g *Generator) declareStruct(s *ast.StructDecl) {
	nominal := g.ctx.GetNominalType(s, s.Name, s.Scope, s.Placeholders)
	if syms := s.ParentScope.Local(s.Name); len(syms) == 1 {
		syms[0].Type = g.ctx.GetMetatype(nominal)
	}

	structPlaceholders := make(map[string]interface{}, len(s.Placeholders))
	for _, p := range s.Placeholders {
		structPlaceholders[p] = s
	}

	destructors := 0
	for _, m := range s.Members {
		if fd, ok := m.(*ast.FunDecl); ok && fd.Kind == ast.FunDestructor {
			destructors++
			if destructors > 1 {
				g.sink.Add(diagnostic.New(diagnostic.RES003, fd.Pos,
					"struct \""+s.Name+"\" declares more than one destructor", nil))
			}
		}
	}

	for _, m := range s.Members {
		switch m := m.(type) {
		case *ast.FunDecl:
			g.declareFun(m, nominal, structPlaceholders)
		case *ast.PropDecl:
			g.declareProp(m, structPlaceholders)
		}
	}
}

func (g *Generator) declareProp(p *ast.PropDecl, inherited map[string]interface{}) {
	if p.Annotation == nil {
		return // inferred from Value, fixed in the body phase
	}
	annotated := g.resolveAnnotation(p.Annotation, p.Scope, p, inherited)
	v := g.ctx.NewTypeVariable()
	p.SetType(v)
	g.set.Add(constraint.Equality(v, annotated, g.loc(p, constraint.AnchorAnnotation)))
}

// declareFun fixes f's FunctionType. inherited carries placeholder names
// introduced by the enclosing struct (nil for free functions), so `T`
// inside a constructor or method's annotation resolves to the struct's
// placeholder even though the FunDecl node itself introduces none.
func (g *Generator) declareFun(f *ast.FunDecl, owner *types.NominalType, inherited map[string]interface{}) {
	placeholders := make(map[string]interface{}, len(inherited)+len(f.Placeholders))
	for k, v := range inherited {
		placeholders[k] = v
	}
	for _, p := range f.Placeholders {
		placeholders[p] = f
	}
	scope := f.ParentScope
	if scope == nil {
		scope = f.Scope
	}

	params := make([]types.FuncParam, len(f.Params))
	for i, p := range f.Params {
		var pt types.Type
		if p.Annotation != nil {
			annotated := g.resolveAnnotation(p.Annotation, scope, f, placeholders)
			v := g.ctx.NewTypeVariable()
			p.SetType(v)
			g.set.Add(constraint.Equality(v, annotated, g.loc(p, constraint.AnchorAnnotation)))
			pt = annotated
		} else {
			pt = g.ctx.NewTypeVariable()
			p.SetType(pt)
		}
		if p.Default != nil {
			dt := g.genExpr(p.Default)
			g.set.Add(constraint.Conformance(dt, pt, g.loc(p, constraint.AnchorRvalue)))
		}
		params[i] = types.FuncParam{Label: p.Label, Type: pt}
	}

	var declaredCodomain types.Type
	switch f.Kind {
	case ast.FunConstructor:
		declaredCodomain = owner
	case ast.FunDestructor:
		declaredCodomain = g.ctx.GetBuiltinType(types.NothingName)
		if len(f.Params) > 0 {
			g.sink.Add(diagnostic.New(diagnostic.GEN002, f.Pos,
				"destructor must take no parameters besides the implicit receiver", nil))
		}
	default:
		if f.Codomain != nil {
			declaredCodomain = g.resolveAnnotation(f.Codomain, scope, f, placeholders)
		} else {
			declaredCodomain = g.ctx.GetBuiltinType(types.NothingName)
		}
	}

	// The signature carries the annotated types themselves, placeholders
	// included, so that Open can replace them with fresh variables at each
	// reference.
	inner := g.ctx.GetFunctionType(params, declaredCodomain, f.Placeholders)

	var whole types.Type = inner
	if owner != nil && (f.Kind == ast.FunMethod || f.Kind == ast.FunConstructor || f.Kind == ast.FunDestructor) {
		self := types.FuncParam{Label: "self", Type: owner}
		whole = g.ctx.GetFunctionType([]types.FuncParam{self}, inner, nil)
	}
	f.SetType(whole)
}

func (g *Generator) body(d ast.Decl) {
	switch d := d.(type) {
	case *ast.StructDecl:
		for _, m := range d.Members {
			g.body(m)
		}
	case *ast.FunDecl:
		g.bodyFun(d)
	case *ast.PropDecl:
		if d.Value == nil {
			return
		}
		vt := g.genExpr(d.Value)
		if declared, ok := d.TypeSlot().Type().(types.Type); ok {
			g.set.Add(constraint.Conformance(vt, declared, g.loc(d, constraint.AnchorRvalue)))
			return
		}
		// No annotation: the property's type is whatever its initializer
		// resolves to.
		d.SetType(vt)
	}
}

func (g *Generator) bodyFun(f *ast.FunDecl) {
	if f.Body == nil {
		return
	}
	g.currentCodomain = append(g.currentCodomain, g.functionCodomain(f))
	defer func() { g.currentCodomain = g.currentCodomain[:len(g.currentCodomain)-1] }()
	g.genExpr(f.Body)
}

// functionCodomain extracts the inner codomain type from
// f's already-declared FunctionType, unwrapping the Self-currying layer for
// methods/constructors/destructors.
func (g *Generator) functionCodomain(f *ast.FunDecl) types.Type {
	fn, ok := f.TypeSlot().Type().(*types.FunctionType)
	if !ok {
		return types.TheErrorType
	}
	if inner, ok := fn.Codomain.(*types.FunctionType); ok {
		return inner.Codomain
	}
	return fn.Codomain
}

func (g *Generator) enclosingCodomain() types.Type {
	if len(g.currentCodomain) == 0 {
		return types.TheErrorType
	}
	return g.currentCodomain[len(g.currentCodomain)-1]
}

func (g *Generator) loc(n ast.Node, anchor constraint.Anchor) constraint.Location {
	return constraint.Location{Node: n, Anchor: anchor}
}
