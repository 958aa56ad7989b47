// Package dispatch implements the final pass of the semantic core: it walks
// the solved AST, reifies every TypeCell's TypeVariable into its concrete
// bound type, and resolves each overloaded Ident/SelectExpr to the single
// declaration the solved types pick out.
package dispatch

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// Dispatcher walks a File once the solver has produced a satisfying
// substitution, fixing every node's final type and symbol.
type Dispatcher struct {
	ctx   *types.CompilerContext
	subst *types.SubstitutionTable
	sink  *diagnostic.Sink
}

// New creates a Dispatcher reading bindings from subst and reporting
// unresolved overloads into sink.
func New(ctx *types.CompilerContext, subst *types.SubstitutionTable, sink *diagnostic.Sink) *Dispatcher {
	return &Dispatcher{ctx: ctx, subst: subst, sink: sink}
}

// Dispatch reifies and dispatches every declaration in file, in place.
func (d *Dispatcher) Dispatch(file *ast.File) {
	for _, decl := range file.Decls {
		d.decl(decl)
	}
}

func (d *Dispatcher) decl(dc ast.Decl) {
	switch dc := dc.(type) {
	case *ast.StructDecl:
		for _, m := range dc.Members {
			d.decl(m)
		}
	case *ast.FunDecl:
		d.reifyCell(dc)
		for _, p := range dc.Params {
			d.decl(p)
		}
		if dc.Body != nil {
			d.expr(dc.Body)
		}
	case *ast.ParamDecl:
		d.reifyCell(dc)
		if dc.Default != nil {
			d.expr(dc.Default)
		}
	case *ast.PropDecl:
		d.reifyCell(dc)
		if dc.Value != nil {
			d.expr(dc.Value)
		}
	}
}

func (d *Dispatcher) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.BindingStmt:
		d.decl(s.Lvalue)
		d.expr(s.Rvalue)
	case *ast.ReturnStmt:
		if s.Value != nil {
			d.expr(s.Value)
		}
	case *ast.ExprStmt:
		d.expr(s.Value)
	case *ast.Block:
		for _, inner := range s.Stmts {
			d.stmt(inner)
		}
	}
}

func (d *Dispatcher) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal:
		d.reifyCell(e)
	case *ast.Ident:
		d.reifyCell(e)
		d.dispatchIdent(e)
	case *ast.BinaryExpr:
		d.expr(e.Left)
		d.expr(e.Right)
		d.reifyCell(e)
		d.dispatchBinary(e)
	case *ast.CallExpr:
		d.expr(e.Func)
		for _, a := range e.Args {
			d.expr(a.Value)
		}
		d.reifyCell(e)
	case *ast.SelectExpr:
		if e.Owner != nil {
			d.expr(e.Owner)
		}
		d.reifyCell(e)
		d.dispatchSelect(e)
	case *ast.SubscriptExpr:
		d.expr(e.Owner)
		for _, a := range e.Args {
			d.expr(a.Value)
		}
		d.reifyCell(e)
	case *ast.Lambda:
		for _, p := range e.Params {
			d.decl(p)
		}
		if e.Body != nil {
			d.expr(e.Body)
		}
		d.reifyCell(e)
	case *ast.IfExpr:
		d.expr(e.Condition)
		d.expr(e.Then)
		if e.Else != nil {
			d.expr(e.Else)
		}
		d.reifyCell(e)
	case *ast.BlockExpr:
		for _, s := range e.Stmts {
			d.stmt(s)
		}
		if e.Tail != nil {
			d.expr(e.Tail)
		}
		d.reifyCell(e)
	case *ast.ErrorExpr:
		// Already ErrorType; nothing to reify or dispatch.
	}
}

// reifyCell overwrites n's TypeCell with its fully-substituted concrete
// type. A nil cell (a node the generator never visited, e.g. inside a
// malformed declaration) is left alone.
func (d *Dispatcher) reifyCell(n ast.Typed) {
	cell := n.TypeSlot()
	cur := cell.Type()
	if cur == nil {
		return
	}
	t, ok := cur.(types.Type)
	if !ok {
		return
	}
	reified := d.subst.Reify(t)
	cell.SetType(reified)
	if tv, ok := reified.(*types.TypeVariable); ok {
		d.sink.Add(diagnostic.New(diagnostic.DSP002, n.Position(),
			fmt.Sprintf("type left unresolved after solving (%s)", tv), nil))
	}
}
