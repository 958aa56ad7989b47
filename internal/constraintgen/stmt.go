package constraintgen

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/types"
)

func (g *Generator) genStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.BindingStmt:
		g.genBinding(s)
	case *ast.ReturnStmt:
		g.genReturn(s)
	case *ast.ExprStmt:
		g.genExpr(s.Value)
	case *ast.Block:
		for _, inner := range s.Stmts {
			g.genStmt(inner)
		}
	}
}

func (g *Generator) genBinding(b *ast.BindingStmt) {
	rvalType := g.genExpr(b.Rvalue)

	lv := b.Lvalue
	var lvalType types.Type
	if lv.Annotation != nil {
		annotated := g.resolveAnnotation(lv.Annotation, lv.Scope, lv, nil)
		v := g.ctx.NewTypeVariable()
		lv.SetType(v)
		g.set.Add(constraint.Equality(v, annotated, g.loc(lv, constraint.AnchorAnnotation)))
		lvalType = v
	} else {
		v := g.ctx.NewTypeVariable()
		lv.SetType(v)
		lvalType = v
	}

	g.set.Add(constraint.ConformanceWithOp(rvalType, lvalType, b.Op, g.loc(b, constraint.AnchorRvalue)))
}

func (g *Generator) genReturn(r *ast.ReturnStmt) {
	codomain := g.enclosingCodomain()
	if r.Value != nil {
		vt := g.genExpr(r.Value)
		g.set.Add(constraint.Equality(vt, codomain, g.loc(r, constraint.AnchorCodomain)))
		return
	}
	g.set.Add(constraint.Equality(g.ctx.GetBuiltinType(types.NothingName), codomain, g.loc(r, constraint.AnchorCodomain)))
}
