package constraintgen

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/constraint"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// literalQualifiers is the qualifier set every literal carries: constant,
// stack-allocated, by value.
var literalQualifiers = types.QualifierSet(0).With(types.Cst).With(types.Stk).With(types.Val)

func (g *Generator) qualifiedBuiltin(name string) types.Type {
	return g.ctx.GetQualified(g.ctx.GetBuiltinType(name), literalQualifiers)
}

// genExpr assigns e's TypeCell and emits the constraints its form implies,
// returning the type it assigned.
func (g *Generator) genExpr(e ast.Expr) types.Type {
	switch e := e.(type) {
	case *ast.Literal:
		return g.genLiteral(e)
	case *ast.Ident:
		return g.genIdent(e)
	case *ast.BinaryExpr:
		return g.genBinary(e)
	case *ast.CallExpr:
		return g.genCall(e)
	case *ast.SelectExpr:
		return g.genSelect(e)
	case *ast.SubscriptExpr:
		return g.genSubscript(e)
	case *ast.Lambda:
		return g.genLambda(e)
	case *ast.IfExpr:
		return g.genIf(e)
	case *ast.BlockExpr:
		return g.genBlock(e)
	case *ast.ErrorExpr:
		e.SetType(types.TheErrorType)
		return types.TheErrorType
	default:
		return types.TheErrorType
	}
}

func (g *Generator) genLiteral(l *ast.Literal) types.Type {
	var name string
	switch l.Kind {
	case ast.IntLiteral:
		name = types.IntName
	case ast.FloatLiteral:
		name = types.FloatName
	case ast.StringLiteral:
		name = types.StringName
	case ast.BoolLiteral:
		name = types.BoolName
	default:
		l.SetType(types.TheErrorType)
		return types.TheErrorType
	}
	t := g.qualifiedBuiltin(name)
	l.SetType(t)
	return t
}

func (g *Generator) genIdent(i *ast.Ident) types.Type {
	syms := i.Scope.Lookup(i.Name)
	if len(syms) == 0 {
		i.SetType(types.TheErrorType)
		g.sink.Add(diagnostic.New(diagnostic.RES001, i.Pos, fmt.Sprintf("undefined symbol %q", i.Name), nil))
		return types.TheErrorType
	}

	tv := g.ctx.NewTypeVariable()
	i.SetType(tv)

	if len(syms) == 1 {
		g.set.Add(constraint.Equality(tv, g.instantiate(i, symbolSemType(syms[0])), g.loc(i, constraint.AnchorIdentifier)))
		return tv
	}

	branches := make([]*constraint.Constraint, len(syms))
	for idx, sym := range syms {
		branches[idx] = constraint.Equality(tv, g.instantiate(i, symbolSemType(sym)), g.loc(i, constraint.AnchorIdentifier))
	}
	g.set.Add(constraint.Disjunction(branches, g.loc(i, constraint.AnchorIdentifier)))
	return tv
}

// instantiate opens a generic function symbol's type with fresh type
// variables at each reference, so two calls to the same generic function
// (e.g. `poly(x := 0)` and `poly(x := true)`) infer independently instead
// of fighting over one shared placeholder. Non-function and non-generic
// symbols are returned unchanged — generic nominal types are opened later,
// by the solver, at Construction-resolution time.
//
// When i carries an explicit specialization (`poly[T: Int](x)`), the named
// placeholders are unified with the resolved argument types instead of
// being left to ordinary inference.
func (g *Generator) instantiate(i *ast.Ident, t types.Type) types.Type {
	ft, isFunc := t.(*types.FunctionType)
	if len(i.Specializations) == 0 {
		if isFunc && len(ft.Placeholders) > 0 {
			return g.ctx.Open(ft, nil)
		}
		return t
	}
	if !isFunc || len(ft.Placeholders) == 0 {
		g.sink.Add(diagnostic.New(diagnostic.RES002, i.Pos,
			fmt.Sprintf("%q is not generic and cannot be specialized", i.Name), nil))
		return t
	}
	opened, fresh := g.ctx.OpenFresh(ft)
	for name, ann := range i.Specializations {
		v, ok := fresh[name]
		if !ok {
			g.sink.Add(diagnostic.New(diagnostic.RES002, i.Pos,
				fmt.Sprintf("%q has no type parameter %q", i.Name, name), nil))
			continue
		}
		resolved := g.resolveAnnotation(ann, i.Scope, i, nil)
		g.set.Add(constraint.Equality(v, resolved, g.loc(i, constraint.AnchorIdentifier)))
	}
	return opened
}

func (g *Generator) genBinary(b *ast.BinaryExpr) types.Type {
	leftType := g.genExpr(b.Left)
	rightType := g.genExpr(b.Right)

	rParam := g.ctx.NewTypeVariable()
	result := g.ctx.NewTypeVariable()
	fn := g.ctx.GetFunctionType([]types.FuncParam{{Type: rParam}}, result, nil)

	b.SetType(result)
	if b.OpIdent != nil {
		b.OpIdent.SetType(fn)
	}

	g.set.Add(constraint.Conformance(rightType, rParam, g.loc(b, constraint.AnchorBinaryOperator)))
	g.set.Add(constraint.Member(leftType, b.Op, fn, g.loc(b, constraint.AnchorBinaryOperator)))
	return result
}

func (g *Generator) genCall(c *ast.CallExpr) types.Type {
	params := make([]types.FuncParam, len(c.Args))
	for i, a := range c.Args {
		argType := g.genExpr(a.Value)
		pv := g.ctx.NewTypeVariable()
		params[i] = types.FuncParam{Label: a.Label, Type: pv}
		g.set.Add(constraint.Conformance(argType, pv, constraint.Location{Node: c, Anchor: constraint.AnchorCallArgument, ArgIndex: i}))
	}
	codomain := g.ctx.NewTypeVariable()
	fn := g.ctx.GetFunctionType(params, codomain, nil)
	c.SetType(codomain)

	calleeType := g.genExpr(c.Func)
	loc := g.loc(c, constraint.AnchorCallArgument)
	g.set.Add(constraint.Disjunction([]*constraint.Constraint{
		constraint.Equality(calleeType, fn, loc),
		constraint.Construction(calleeType, fn, loc),
	}, loc))
	return codomain
}

func (g *Generator) genSelect(s *ast.SelectExpr) types.Type {
	tv := g.ctx.NewTypeVariable()
	s.SetType(tv)

	var ownerType types.Type
	if s.Owner != nil {
		ownerType = g.genExpr(s.Owner)
	} else {
		ownerType = g.ctx.GetMetatype(tv)
	}
	g.set.Add(constraint.Member(ownerType, s.Ownee, tv, g.loc(s, constraint.AnchorSelect)))
	return tv
}

func (g *Generator) genSubscript(s *ast.SubscriptExpr) types.Type {
	params := make([]types.FuncParam, len(s.Args))
	for i, a := range s.Args {
		argType := g.genExpr(a.Value)
		pv := g.ctx.NewTypeVariable()
		params[i] = types.FuncParam{Type: pv}
		g.set.Add(constraint.Conformance(argType, pv, constraint.Location{Node: s, Anchor: constraint.AnchorCallArgument, ArgIndex: i}))
	}
	codomain := g.ctx.NewTypeVariable()
	fn := g.ctx.GetFunctionType(params, codomain, nil)
	s.SetType(codomain)

	ownerType := g.genExpr(s.Owner)
	g.set.Add(constraint.Member(ownerType, "subscript", fn, g.loc(s, constraint.AnchorSelect)))
	return codomain
}

func (g *Generator) genLambda(l *ast.Lambda) types.Type {
	params := make([]types.FuncParam, len(l.Params))
	for i, p := range l.Params {
		var pt types.Type
		if p.Annotation != nil {
			annotated := g.resolveAnnotation(p.Annotation, l.Scope, l, nil)
			v := g.ctx.NewTypeVariable()
			p.SetType(v)
			g.set.Add(constraint.Equality(v, annotated, g.loc(p, constraint.AnchorAnnotation)))
			pt = v
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

	var codomain types.Type
	if l.Codomain != nil {
		codomain = g.resolveAnnotation(l.Codomain, l.Scope, l, nil)
	} else {
		codomain = g.ctx.NewTypeVariable()
	}
	fn := g.ctx.GetFunctionType(params, codomain, nil)
	l.SetType(fn)

	g.currentCodomain = append(g.currentCodomain, codomain)
	defer func() { g.currentCodomain = g.currentCodomain[:len(g.currentCodomain)-1] }()
	if l.Body != nil {
		bodyType := g.genExpr(l.Body)
		g.set.Add(constraint.Equality(bodyType, codomain, g.loc(l, constraint.AnchorCodomain)))
	}
	return fn
}

func (g *Generator) genIf(i *ast.IfExpr) types.Type {
	condType := g.genExpr(i.Condition)
	g.set.Add(constraint.Equality(condType, g.qualifiedBuiltin(types.BoolName), g.loc(i, constraint.AnchorRvalue)))

	thenType := g.genExpr(i.Then)
	var result types.Type
	if i.Else != nil {
		elseType := g.genExpr(i.Else)
		g.set.Add(constraint.Equality(thenType, elseType, g.loc(i, constraint.AnchorRvalue)))
		result = thenType
	} else {
		result = g.qualifiedBuiltin(types.NothingName)
	}
	i.SetType(result)
	return result
}

func (g *Generator) genBlock(b *ast.BlockExpr) types.Type {
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
	var result types.Type
	if b.Tail != nil {
		result = g.genExpr(b.Tail)
	} else {
		result = g.qualifiedBuiltin(types.NothingName)
	}
	b.SetType(result)
	return result
}
