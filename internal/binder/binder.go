// Package binder resolves scopes and symbols over a parsed AST: it is the
// third stage of the front end, turning the bare tree internal/parser
// produces into the scope-resolved input internal/constraintgen expects.
// It also pre-populates the root scope with the builtin types and their
// operator methods, wiring internal/types.CompilerContext.SetBuiltinMemberScope
// the way the generator's Member-constraint resolution needs.
package binder

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// Binder walks a File once, in two passes per declaration scope: declare
// (fix every name's bucket so mutually-referencing top-level declarations
// resolve regardless of source order) then resolve (recurse into bodies,
// assigning every Ident/PropDecl/FunDecl/StructDecl its Scope).
type Binder struct {
	ctx  *types.CompilerContext
	sink *diagnostic.Sink
}

// New creates a Binder sharing ctx's interning tables and reporting
// duplicate-declaration diagnostics into sink.
func New(ctx *types.CompilerContext, sink *diagnostic.Sink) *Binder {
	return &Binder{ctx: ctx, sink: sink}
}

// Bind resolves file in place and returns the root (builtin) scope, mostly
// useful to tests that want to inspect it directly.
func (b *Binder) Bind(file *ast.File) *ast.Scope {
	root := b.buildBuiltinScope()
	file.Scope = ast.NewScope(root, ast.ScopeFile)

	for _, d := range file.Decls {
		b.declareTop(d, file.Scope)
	}
	for _, d := range file.Decls {
		b.resolveTop(d, file.Scope)
	}
	return root
}

func (b *Binder) declareTop(d ast.Decl, scope *ast.Scope) {
	switch d := d.(type) {
	case *ast.StructDecl:
		b.define(scope, &ast.Symbol{Name: d.Name, Scope: scope, Decl: d})
	case *ast.FunDecl:
		b.define(scope, &ast.Symbol{Name: d.Name, Scope: scope, Decl: d, IsOverloadable: true})
	case *ast.PropDecl:
		b.define(scope, &ast.Symbol{Name: d.Name, Scope: scope, Decl: d})
	}
}

// define adds sym to scope, raising RES003 when a non-overloadable name
// collides with an existing bucket of any kind.
func (b *Binder) define(scope *ast.Scope, sym *ast.Symbol) {
	if existing := scope.Local(sym.Name); len(existing) > 0 && !sym.IsOverloadable {
		pos := ast.Pos{}
		if n, ok := sym.Decl.(ast.Node); ok {
			pos = n.Position()
		}
		b.sink.Add(diagnostic.New(diagnostic.RES003, pos,
			"\""+sym.Name+"\" is already declared in this scope", nil))
	}
	scope.Define(sym)
}

func (b *Binder) resolveTop(d ast.Decl, scope *ast.Scope) {
	switch d := d.(type) {
	case *ast.StructDecl:
		b.bindStruct(d, scope)
	case *ast.FunDecl:
		b.bindFun(d, scope, nil)
	case *ast.PropDecl:
		d.Scope = scope
		if d.Value != nil {
			b.bindExpr(d.Value, scope)
		}
	}
}

// bindStruct resolves s's member scope. It interns s's NominalType up
// front via CompilerContext.GetNominalType — the same memoized call
// constraintgen's declareStruct makes later, keyed by the s pointer — so
// that member FunDecls (constructors, methods, destructors) can bind a
// "self" symbol of the right type before the generator ever runs.
func (b *Binder) bindStruct(s *ast.StructDecl, enclosing *ast.Scope) {
	s.ParentScope = enclosing
	s.Scope = ast.NewScope(enclosing, ast.ScopeMembers)
	nominal := b.ctx.GetNominalType(s, s.Name, s.Scope, s.Placeholders)

	for _, m := range s.Members {
		switch m := m.(type) {
		case *ast.FunDecl:
			b.define(s.Scope, &ast.Symbol{
				Name: m.Name, Scope: s.Scope, Decl: m,
				IsOverloadable: m.Kind != ast.FunDestructor,
				IsMethod:       m.Kind == ast.FunMethod,
			})
		case *ast.PropDecl:
			b.define(s.Scope, &ast.Symbol{Name: m.Name, Scope: s.Scope, Decl: m})
		}
	}

	for _, m := range s.Members {
		switch m := m.(type) {
		case *ast.FunDecl:
			b.bindFun(m, s.Scope, nominal)
		case *ast.PropDecl:
			m.Scope = s.Scope
			if m.Value != nil {
				b.bindExpr(m.Value, s.Scope)
			}
		}
	}
}

// bindFun resolves f's own scope: its parameters as locals, a "self"
// symbol when f belongs to owner, and its body. enclosing is the scope f
// is declared in (the file scope for a free function, the struct's
// member scope for a method/constructor/destructor) — f.ParentScope
// records it for annotation resolution ("Self" lookup).
func (b *Binder) bindFun(f *ast.FunDecl, enclosing *ast.Scope, owner *types.NominalType) {
	f.ParentScope = enclosing
	f.Scope = ast.NewScope(enclosing, ast.ScopeFunction)

	if owner != nil && f.Kind != ast.FunRegular {
		f.Scope.Define(&ast.Symbol{Name: "self", Scope: f.Scope, Type: owner})
	}

	for _, p := range f.Params {
		b.define(f.Scope, &ast.Symbol{Name: p.Name, Scope: f.Scope, Decl: p})
		if p.Default != nil {
			b.bindExpr(p.Default, f.Scope)
		}
	}

	if f.Body != nil {
		b.bindExpr(f.Body, f.Scope)
	}
}
