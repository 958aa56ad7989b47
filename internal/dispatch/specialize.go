package dispatch

import "github.com/nodalang/semcore/internal/types"

// isSelfCurried reports whether ft is the outer wrapper the constraint
// generator builds around a method/constructor/destructor's signature:
// `(self: Owner) -> (params...) -> codomain`. Mirrors the solver's check of
// the same name; kept local since sharing it would cost an import cycle
// neither package needs otherwise.
func isSelfCurried(ft *types.FunctionType) bool {
	return len(ft.Params) == 1 && ft.Params[0].Label == "self"
}

// ownerMemberInfo extracts the member-lookup scope (an opaque *ast.Scope)
// and the placeholder->type bindings in effect for owner, covering every
// shape a dispatch owner type can take: a bare nominal, an opened nominal
// mid-inference, a closed bound generic, a metatype (static access), or a
// builtin (operator methods).
func ownerMemberInfo(owner types.Type) (scope interface{}, bindings map[string]types.Type, ok bool) {
	switch t := owner.(type) {
	case *types.NominalType:
		return t.MemberScope, nil, true

	case *types.OpenedNominalType:
		b := make(map[string]types.Type, len(t.FreshVars))
		for k, v := range t.FreshVars {
			b[k] = v
		}
		return t.Underlying.MemberScope, b, true

	case *types.BoundGenericType:
		switch u := t.Underlying.(type) {
		case *types.NominalType:
			return u.MemberScope, t.Bindings, true
		case *types.OpenedNominalType:
			return u.Underlying.MemberScope, t.Bindings, true
		default:
			return nil, nil, false
		}

	case *types.Metatype:
		if nt, ok := t.Underlying.(*types.NominalType); ok {
			return nt.MemberScope, nil, true
		}
		return nil, nil, false

	case *types.BuiltinType:
		return t.MemberScope, nil, true

	default:
		return nil, nil, false
	}
}

// specializes reports whether candidate (a declared, possibly-generic
// signature or type) can be instantiated to concrete (a fully reified
// type), recording each placeholder it resolves along the way into
// bindings so a later occurrence of the same placeholder is checked for
// consistency rather than silently re-bound.
func specializes(candidate, concrete types.Type, bindings map[string]types.Type) bool {
	if _, ok := concrete.(*types.ErrorType); ok {
		return true
	}
	switch c := candidate.(type) {
	case *types.PlaceholderType:
		if existing, ok := bindings[c.Name]; ok {
			return existing.Equals(concrete)
		}
		bindings[c.Name] = concrete
		return true

	case *types.BuiltinType:
		b, ok := concrete.(*types.BuiltinType)
		return ok && b.Name == c.Name

	case *types.NominalType:
		switch cc := concrete.(type) {
		case *types.NominalType:
			return cc.Decl == c.Decl
		case *types.BoundGenericType:
			nt, ok := cc.Underlying.(*types.NominalType)
			return ok && nt.Decl == c.Decl
		case *types.OpenedNominalType:
			return cc.Underlying.Decl == c.Decl
		default:
			return false
		}

	case *types.FunctionType:
		cf, ok := concrete.(*types.FunctionType)
		if !ok || len(cf.Params) != len(c.Params) {
			return false
		}
		for i := range c.Params {
			if c.Params[i].Label != cf.Params[i].Label {
				return false
			}
			if !specializes(c.Params[i].Type, cf.Params[i].Type, bindings) {
				return false
			}
		}
		return specializes(c.Codomain, cf.Codomain, bindings)

	case *types.BoundGenericType:
		cg, ok := concrete.(*types.BoundGenericType)
		if !ok || !specializes(c.Underlying, cg.Underlying, bindings) {
			return false
		}
		for k, v := range c.Bindings {
			cv, ok := cg.Bindings[k]
			if !ok || !specializes(v, cv, bindings) {
				return false
			}
		}
		return true

	case *types.Metatype:
		cm, ok := concrete.(*types.Metatype)
		return ok && specializes(c.Underlying, cm.Underlying, bindings)

	case *types.QualifiedType:
		if cq, ok := concrete.(*types.QualifiedType); ok {
			return c.Qualifiers == cq.Qualifiers && specializes(c.Inner, cq.Inner, bindings)
		}
		return specializes(c.Inner, concrete, bindings)

	case *types.ErrorType:
		return true

	default:
		return candidate.Equals(concrete)
	}
}
