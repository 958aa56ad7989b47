package binder

import "github.com/nodalang/semcore/internal/ast"

// bindExpr assigns e's lexical Scope (and recurses into its children). Only
// node kinds that actually carry a Scope field — Ident, Lambda, BlockExpr —
// are mutated directly; the rest just need their subexpressions walked.
func (b *Binder) bindExpr(e ast.Expr, scope *ast.Scope) {
	switch e := e.(type) {
	case *ast.Literal:
		// no identifiers to resolve
	case *ast.Ident:
		e.Scope = scope
	case *ast.BinaryExpr:
		b.bindExpr(e.Left, scope)
		b.bindExpr(e.Right, scope)
	case *ast.CallExpr:
		b.bindExpr(e.Func, scope)
		for _, a := range e.Args {
			b.bindExpr(a.Value, scope)
		}
	case *ast.SelectExpr:
		b.bindExpr(e.Owner, scope)
	case *ast.SubscriptExpr:
		b.bindExpr(e.Owner, scope)
		for _, a := range e.Args {
			b.bindExpr(a.Value, scope)
		}
	case *ast.Lambda:
		e.Scope = ast.NewScope(scope, ast.ScopeFunction)
		for _, p := range e.Params {
			b.define(e.Scope, &ast.Symbol{Name: p.Name, Scope: e.Scope, Decl: p})
			if p.Default != nil {
				b.bindExpr(p.Default, e.Scope)
			}
		}
		b.bindExpr(e.Body, e.Scope)
	case *ast.IfExpr:
		b.bindExpr(e.Condition, scope)
		b.bindExpr(e.Then, scope)
		if e.Else != nil {
			b.bindExpr(e.Else, scope)
		}
	case *ast.BlockExpr:
		b.bindBlockExpr(e, ast.NewScope(scope, ast.ScopeBlock))
	case *ast.ErrorExpr:
		// nothing to resolve
	}
}

// bindBlockExpr threads a growing scope through be's statements: each
// BindingStmt opens a fresh child scope holding its new name, so a
// statement can never see a binding introduced after it, and re-binding a
// name shadows rather than merges with the earlier one.
func (b *Binder) bindBlockExpr(be *ast.BlockExpr, scope *ast.Scope) {
	cur := scope
	for _, s := range be.Stmts {
		cur = b.bindStmt(s, cur)
	}
	if be.Tail != nil {
		b.bindExpr(be.Tail, cur)
	}
}

// bindStmt binds s against scope and returns the scope subsequent
// statements in the same block should see.
func (b *Binder) bindStmt(s ast.Stmt, scope *ast.Scope) *ast.Scope {
	switch s := s.(type) {
	case *ast.BindingStmt:
		b.bindExpr(s.Rvalue, scope)
		child := ast.NewScope(scope, ast.ScopeBlock)
		s.Lvalue.Scope = child
		b.define(child, &ast.Symbol{Name: s.Lvalue.Name, Scope: child, Decl: s.Lvalue})
		return child
	case *ast.ReturnStmt:
		if s.Value != nil {
			b.bindExpr(s.Value, scope)
		}
		return scope
	case *ast.ExprStmt:
		b.bindExpr(s.Value, scope)
		return scope
	case *ast.Block:
		inner := ast.NewScope(scope, ast.ScopeBlock)
		cur := inner
		for _, st := range s.Stmts {
			cur = b.bindStmt(st, cur)
		}
		return scope
	default:
		return scope
	}
}
