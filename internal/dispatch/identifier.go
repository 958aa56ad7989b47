package dispatch

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// dispatchIdent resolves i.Symbol from i's reified type and the bucket(s)
// visible at i.Scope. A function-typed reference may have several
// candidates (overloads); a non-function reference must name exactly one
// declaration.
func (d *Dispatcher) dispatchIdent(i *ast.Ident) {
	if i.Scope == nil {
		return
	}
	cur, ok := i.TypeSlot().Type().(types.Type)
	if !ok {
		return
	}
	if _, iserr := cur.(*types.ErrorType); iserr {
		return
	}

	if ft, isFn := cur.(*types.FunctionType); isFn {
		candidates := d.functionCandidates(i.Scope, i.Name)
		chosen, kind := filterCandidates(candidates, ft)
		if chosen == nil {
			d.reportIdentFailure(i, kind)
			return
		}
		i.Symbol = chosen
		return
	}

	_, syms := i.Scope.LookupOwner(i.Name)
	if len(syms) != 1 {
		d.sink.Add(diagnostic.New(diagnostic.DSP001, i.Pos,
			fmt.Sprintf("%q does not resolve to exactly one declaration (%d candidates)", i.Name, len(syms)), nil))
		i.SetType(types.TheErrorType)
		return
	}
	i.Symbol = syms[0]
}

func (d *Dispatcher) reportIdentFailure(i *ast.Ident, kind string) {
	msg := fmt.Sprintf("no overload of %q matches the inferred type", i.Name)
	if kind == "ambiguous" {
		msg = fmt.Sprintf("ambiguous overload for %q after solving", i.Name)
	}
	d.sink.Add(diagnostic.New(diagnostic.DSP001, i.Pos, msg, nil))
	i.SetType(types.TheErrorType)
}

// functionCandidates gathers the symbols a function-typed Ident at (scope,
// name) could dispatch to: the constructors of a nominal type, if the
// nearest bucket is a bare metatype reference; the overload set gathered
// across scopes, if the nearest bucket is overloadable; or the nearest
// bucket itself, verbatim, otherwise.
func (d *Dispatcher) functionCandidates(scope *ast.Scope, name string) []*ast.Symbol {
	owner, nearest := scope.LookupOwner(name)
	if len(nearest) == 0 {
		return nil
	}
	if len(nearest) == 1 {
		if st := nearest[0].ResolvedType(); st != nil {
			if mt, ok := st.(*types.Metatype); ok {
				if nt, ok := mt.Underlying.(*types.NominalType); ok {
					if sc, ok := nt.MemberScope.(*ast.Scope); ok && sc != nil {
						return sc.Local("new")
					}
				}
			}
		}
	}
	if !nearest[0].IsOverloadable {
		return nearest
	}
	return gatherOverloadCandidates(owner, name)
}

// gatherOverloadCandidates climbs from scope toward the root, accumulating
// same-named buckets as long as every symbol in each bucket is overloadable.
// It stops, without including it, at the first bucket that is not.
func gatherOverloadCandidates(scope *ast.Scope, name string) []*ast.Symbol {
	var out []*ast.Symbol
	for sc := scope; sc != nil; sc = sc.Parent {
		syms := sc.Local(name)
		if len(syms) == 0 {
			continue
		}
		allOverloadable := true
		for _, s := range syms {
			if !s.IsOverloadable {
				allOverloadable = false
				break
			}
		}
		if !allOverloadable {
			break
		}
		out = append(out, syms...)
	}
	return out
}

// dispatchSelect resolves s.Symbol the same way dispatchIdent does, but the
// candidate scope comes from the (already-reified) owner type's member
// scope rather than a lexical scope, and candidates never climb to parent
// scopes — member lookup, unlike ordinary lexical lookup, is strictly local
// to one type's declaration.
func (d *Dispatcher) dispatchSelect(s *ast.SelectExpr) {
	cur, ok := s.TypeSlot().Type().(types.Type)
	if !ok {
		return
	}
	if _, iserr := cur.(*types.ErrorType); iserr {
		return
	}

	var ownerReified types.Type
	if s.Owner != nil {
		ot, ok := s.Owner.TypeSlot().Type().(types.Type)
		if !ok {
			return
		}
		ownerReified = ot
	} else {
		ownerReified = d.ctx.GetMetatype(cur)
	}
	inner, _ := types.Unqualify(ownerReified)
	scopeOpaque, bindings, ok := ownerMemberInfo(inner)
	if !ok {
		return
	}
	sc, ok := scopeOpaque.(*ast.Scope)
	if !ok || sc == nil {
		return
	}
	syms := sc.Local(s.Ownee)
	if len(syms) == 0 {
		return
	}

	if ft, isFn := cur.(*types.FunctionType); isFn {
		chosen, kind := d.filterMemberCandidates(syms, ft, bindings)
		if chosen == nil {
			msg := fmt.Sprintf("no overload of %s.%s matches the inferred type", ownerReified, s.Ownee)
			if kind == "ambiguous" {
				msg = fmt.Sprintf("ambiguous member %s.%s after solving", ownerReified, s.Ownee)
			}
			d.sink.Add(diagnostic.New(diagnostic.DSP001, s.Pos, msg, nil))
			s.SetType(types.TheErrorType)
			return
		}
		s.Symbol = chosen
		return
	}

	if len(syms) != 1 {
		d.sink.Add(diagnostic.New(diagnostic.DSP001, s.Pos,
			fmt.Sprintf("%q does not resolve to exactly one member", s.Ownee), nil))
		s.SetType(types.TheErrorType)
		return
	}
	s.Symbol = syms[0]
}

// dispatchBinary resolves the operator method the Member constraint in
// genBinary matched, and rewrites b into the explicit Call(Select(...))
// form so later passes see a uniform invocation node instead of a special
// binary-expression case.
func (d *Dispatcher) dispatchBinary(b *ast.BinaryExpr) {
	if b.OpIdent == nil {
		return
	}
	opT, ok := b.OpIdent.TypeSlot().Type().(types.Type)
	if !ok {
		return
	}
	leftT, ok := b.Left.TypeSlot().Type().(types.Type)
	if !ok {
		return
	}
	inner, _ := types.Unqualify(leftT)
	scopeOpaque, bindings, ok := ownerMemberInfo(inner)
	if !ok {
		return
	}
	sc, ok := scopeOpaque.(*ast.Scope)
	if !ok || sc == nil {
		return
	}
	syms := sc.Local(b.Op)
	if len(syms) == 0 {
		return
	}

	var chosen *ast.Symbol
	if ft, isFn := opT.(*types.FunctionType); isFn {
		chosen, _ = d.filterMemberCandidates(syms, ft, bindings)
	} else if len(syms) == 1 {
		chosen = syms[0]
	}
	if chosen == nil {
		return
	}

	b.OpIdent.Symbol = chosen
	b.OpIdent.Scope = sc

	sel := &ast.SelectExpr{Owner: b.Left, Ownee: b.Op, Symbol: chosen, Pos: b.Pos}
	sel.SetType(opT)
	call := &ast.CallExpr{Func: sel, Args: []*ast.Arg{{Value: b.Right}}, Pos: b.Pos}
	if bt, ok := b.TypeSlot().Type().(types.Type); ok {
		call.SetType(bt)
	}
	b.RewrittenCall = call
}

// filterCandidates narrows candidates to those whose (unwrapped) declared
// type specializes concrete.
func filterCandidates(candidates []*ast.Symbol, concrete *types.FunctionType) (*ast.Symbol, string) {
	var viable []*ast.Symbol
	for _, sym := range candidates {
		st := sym.ResolvedType()
		if st == nil {
			continue
		}
		t, ok := st.(types.Type)
		if !ok {
			continue
		}
		if ft, ok := t.(*types.FunctionType); ok && isSelfCurried(ft) {
			if in, ok2 := ft.Codomain.(*types.FunctionType); ok2 {
				t = in
			} else {
				t = ft.Codomain
			}
		}
		bindings := map[string]types.Type{}
		if specializes(t, concrete, bindings) {
			viable = append(viable, sym)
		}
	}
	return pickViable(viable)
}

// filterMemberCandidates is filterCandidates for member symbols: each
// candidate's (unwrapped) type is opened against the owner's placeholder
// bindings before the specialization check, so a generic type's members
// are compared against the instance's actual type arguments.
func (d *Dispatcher) filterMemberCandidates(syms []*ast.Symbol, concrete *types.FunctionType, bindings map[string]types.Type) (*ast.Symbol, string) {
	var viable []*ast.Symbol
	for _, sym := range syms {
		st := sym.ResolvedType()
		if st == nil {
			continue
		}
		t, ok := st.(types.Type)
		if !ok {
			continue
		}
		if ft, ok := t.(*types.FunctionType); ok && isSelfCurried(ft) {
			if in, ok2 := ft.Codomain.(*types.FunctionType); ok2 {
				t = d.ctx.Open(in, bindings)
			} else {
				t = d.ctx.Open(ft.Codomain, bindings)
			}
		} else {
			t = d.ctx.Open(t, bindings)
		}
		b := map[string]types.Type{}
		if specializes(t, concrete, b) {
			viable = append(viable, sym)
		}
	}
	return pickViable(viable)
}

func pickViable(viable []*ast.Symbol) (*ast.Symbol, string) {
	switch len(viable) {
	case 1:
		return viable[0], ""
	case 0:
		return nil, "none"
	default:
		return nil, "ambiguous"
	}
}
