package types

// Open replaces every in-scope placeholder of t with a fresh type
// variable. bindings maps already-resolved placeholder names (e.g. an
// enclosing generic's, already opened) to their fresh variables; Open
// extends it with t's own placeholders where t introduces any (FunctionType,
// NominalType).
func (ctx *CompilerContext) Open(t Type, bindings map[string]Type) Type {
	switch t := t.(type) {
	case *FunctionType:
		own := extend(bindings, nil)
		for _, p := range t.Placeholders {
			own[p] = ctx.NewTypeVariable()
		}
		params := make([]FuncParam, len(t.Params))
		for i, p := range t.Params {
			params[i] = FuncParam{Label: p.Label, Type: ctx.Open(p.Type, own)}
		}
		codomain := ctx.Open(t.Codomain, own)
		// The opened result is monomorphic: its placeholders have all been
		// replaced by fresh variables.
		return ctx.GetFunctionType(params, codomain, nil)

	case *NominalType:
		return ctx.openNominal(t, bindings)

	case *PlaceholderType:
		if v, ok := bindings[t.Name]; ok {
			return v
		}
		return t

	case *BoundGenericType:
		newBindings := make(map[string]Type, len(t.Bindings))
		for k, v := range t.Bindings {
			if ph, ok := v.(*PlaceholderType); ok {
				if fresh, ok := bindings[ph.Name]; ok {
					newBindings[k] = fresh
					continue
				}
			}
			newBindings[k] = v
		}
		return ctx.GetBoundGeneric(ctx.Open(t.Underlying, bindings), newBindings)

	case *TypeVariable:
		// Open question #3: identity. No BoundGenericType wrapping.
		return t

	case *Metatype:
		return ctx.GetMetatype(ctx.Open(t.Underlying, bindings))

	case *QualifiedType:
		return ctx.GetQualified(ctx.Open(t.Inner, bindings), t.Qualifiers)

	default:
		// ErrorType, BuiltinType, OpenedNominalType: no placeholders to open.
		return t
	}
}

// OpenFresh opens ft exactly like Open, but also returns the map from ft's
// own placeholder names to the fresh type variables substituted for them —
// the hook an explicit call-site specialization (`poly[T: Int](x)`) needs to
// unify a particular placeholder with a type the programmer named outright,
// rather than leaving it to ordinary inference.
func (ctx *CompilerContext) OpenFresh(ft *FunctionType) (*FunctionType, map[string]Type) {
	own := map[string]Type{}
	for _, p := range ft.Placeholders {
		own[p] = ctx.NewTypeVariable()
	}
	params := make([]FuncParam, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = FuncParam{Label: p.Label, Type: ctx.Open(p.Type, own)}
	}
	codomain := ctx.Open(ft.Codomain, own)
	return ctx.GetFunctionType(params, codomain, nil), own
}

func (ctx *CompilerContext) openNominal(n *NominalType, bindings map[string]Type) *OpenedNominalType {
	fresh := make(map[string]*TypeVariable, len(n.Placeholders))
	for _, p := range n.Placeholders {
		if v, ok := bindings[p]; ok {
			if tv, ok := v.(*TypeVariable); ok {
				fresh[p] = tv
				continue
			}
		}
		fresh[p] = ctx.NewTypeVariable()
	}
	return &OpenedNominalType{Underlying: n, FreshVars: fresh}
}

// Close substitutes placeholders by their concrete values from bindings,
// once inference has determined them. Nominal types are
// deliberately wrapped in a BoundGenericType rather than reified directly,
// so call sites retain the specialization arguments for post-dispatch
// method lookup.
func (ctx *CompilerContext) Close(t Type, bindings map[string]Type) Type {
	switch t := t.(type) {
	case *PlaceholderType:
		if v, ok := bindings[t.Name]; ok {
			return v
		}
		return t

	case *NominalType:
		bound := map[string]Type{}
		for _, p := range t.Placeholders {
			if v, ok := bindings[p]; ok {
				bound[p] = v
			}
		}
		if len(bound) == 0 {
			return t
		}
		return ctx.GetBoundGeneric(t, bound)

	case *OpenedNominalType:
		bound := make(map[string]Type, len(t.FreshVars))
		for p, v := range t.FreshVars {
			if sub, ok := bindings[p]; ok {
				bound[p] = sub
			} else {
				bound[p] = v
			}
		}
		return ctx.GetBoundGeneric(t.Underlying, bound)

	case *FunctionType:
		params := make([]FuncParam, len(t.Params))
		for i, p := range t.Params {
			params[i] = FuncParam{Label: p.Label, Type: ctx.Close(p.Type, bindings)}
		}
		return ctx.GetFunctionType(params, ctx.Close(t.Codomain, bindings), t.Placeholders)

	case *BoundGenericType:
		newBindings := make(map[string]Type, len(t.Bindings))
		for k, v := range t.Bindings {
			newBindings[k] = ctx.Close(v, bindings)
		}
		return ctx.GetBoundGeneric(ctx.Close(t.Underlying, bindings), newBindings)

	case *Metatype:
		return ctx.GetMetatype(ctx.Close(t.Underlying, bindings))

	case *QualifiedType:
		return ctx.GetQualified(ctx.Close(t.Inner, bindings), t.Qualifiers)

	default:
		return t
	}
}

func extend(base map[string]Type, add map[string]Type) map[string]Type {
	out := make(map[string]Type, len(base)+len(add))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range add {
		out[k] = v
	}
	return out
}

// GetUnboundPlaceholders returns the set of placeholder names still free in
// t.
func GetUnboundPlaceholders(t Type) map[string]bool {
	switch t := t.(type) {
	case *PlaceholderType:
		return map[string]bool{t.Name: true}

	case *BoundGenericType:
		return t.GetUnboundPlaceholders()

	case *FunctionType:
		free := map[string]bool{}
		for _, p := range t.Params {
			for k := range GetUnboundPlaceholders(p.Type) {
				free[k] = true
			}
		}
		for k := range GetUnboundPlaceholders(t.Codomain) {
			free[k] = true
		}
		for _, p := range t.Placeholders {
			delete(free, p)
		}
		return free

	case *Metatype:
		return GetUnboundPlaceholders(t.Underlying)

	case *QualifiedType:
		return GetUnboundPlaceholders(t.Inner)

	default:
		return map[string]bool{}
	}
}
