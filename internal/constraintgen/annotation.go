package constraintgen

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/types"
)

// resolveAnnotation converts syntax the parser produced into an interned
// semantic type. owner identifies the declaration a bare placeholder name
// belongs to (for PlaceholderType interning); placeholders names the
// type parameters introduced by the innermost enclosing generic
// declaration, so a bare `T` resolves to a placeholder rather than a scope
// lookup.
func (g *Generator) resolveAnnotation(ann ast.TypeAnnotation, scope *ast.Scope, owner interface{}, placeholders map[string]interface{}) types.Type {
	switch ann := ann.(type) {
	case *ast.NamedTypeAnnotation:
		return g.resolveNamed(ann, scope, owner, placeholders)

	case *ast.FuncTypeAnnotation:
		params := make([]types.FuncParam, len(ann.Params))
		for i, p := range ann.Params {
			params[i] = types.FuncParam{Label: p.Label, Type: g.resolveAnnotation(p.Annotation, scope, owner, placeholders)}
		}
		var codomain types.Type
		if ann.Codomain != nil {
			codomain = g.resolveAnnotation(ann.Codomain, scope, owner, placeholders)
		} else {
			codomain = g.ctx.GetBuiltinType(types.NothingName)
		}
		return g.ctx.GetFunctionType(params, codomain, nil)

	case *ast.QualifiedTypeAnnotation:
		inner := g.resolveAnnotation(ann.Inner, scope, owner, placeholders)
		q := types.ParseQualifierSet(ann.Qualifiers)
		if !g.ctx.IsValidQualifierSet(q) {
			g.sink.Add(diagnostic.New(diagnostic.QUAL001, ann.Pos,
				fmt.Sprintf("qualifier combination %q is not valid", q), nil).
				WithSuggestion(g.ctx.DescribeInvalidQualifierSet(q)))
		}
		return g.ctx.GetQualified(inner, q)

	default:
		return types.TheErrorType
	}
}

func (g *Generator) resolveNamed(ann *ast.NamedTypeAnnotation, scope *ast.Scope, owner interface{}, placeholders map[string]interface{}) types.Type {
	if phOwner, ok := placeholders[ann.Name]; ok {
		if len(ann.Specializations) != 0 {
			g.sink.Add(diagnostic.New(diagnostic.RES002, ann.Pos,
				fmt.Sprintf("type parameter %q cannot be specialized", ann.Name), nil))
		}
		return g.ctx.GetPlaceholder(ann.Name, phOwner)
	}

	syms := scope.Lookup(ann.Name)
	if len(syms) == 0 {
		g.sink.Add(diagnostic.New(diagnostic.RES002, ann.Pos,
			fmt.Sprintf("undefined type %q", ann.Name), nil))
		return types.TheErrorType
	}
	if len(syms) != 1 {
		g.sink.Add(diagnostic.New(diagnostic.RES002, ann.Pos,
			fmt.Sprintf("%q does not name a single type", ann.Name), nil))
		return types.TheErrorType
	}

	mt, ok := symbolSemType(syms[0]).(*types.Metatype)
	if !ok {
		g.sink.Add(diagnostic.New(diagnostic.RES002, ann.Pos,
			fmt.Sprintf("%q is not a type", ann.Name), nil))
		return types.TheErrorType
	}
	underlying := mt.Underlying

	if len(ann.Specializations) == 0 {
		return underlying
	}

	nt, ok := underlying.(*types.NominalType)
	if !ok {
		g.sink.Add(diagnostic.New(diagnostic.RES002, ann.Pos,
			fmt.Sprintf("%q is not generic", ann.Name), nil))
		return types.TheErrorType
	}
	if len(ann.Specializations) != len(nt.Placeholders) {
		g.sink.Add(diagnostic.New(diagnostic.RES002, ann.Pos,
			fmt.Sprintf("%q expects %d type argument(s), got %d", ann.Name, len(nt.Placeholders), len(ann.Specializations)), nil))
		return types.TheErrorType
	}
	bindings := make(map[string]types.Type, len(nt.Placeholders))
	for i, spec := range ann.Specializations {
		bindings[nt.Placeholders[i]] = g.resolveAnnotation(spec, scope, owner, placeholders)
	}
	return g.ctx.Close(nt, bindings)
}

// symbolSemType resolves a Symbol's semantic type, preferring its pre-bound
// Type (builtins, struct names) and falling back to its declaring node's
// TypeCell (functions, properties, parameters).
func symbolSemType(sym *ast.Symbol) types.Type {
	if sym.Type != nil {
		if t, ok := sym.Type.(types.Type); ok {
			return t
		}
	}
	if typed, ok := sym.Decl.(ast.Typed); ok {
		if t := typed.TypeSlot().Type(); t != nil {
			if tt, ok := t.(types.Type); ok {
				return tt
			}
		}
	}
	return types.TheErrorType
}
