package types

import "fmt"

// CompilerContext owns every interning table for one compilation.
// It is not safe for concurrent use — the core is single-threaded
// — and nothing here attempts to be.
type CompilerContext struct {
	nextVarID uint64

	builtins map[string]*BuiltinType

	nominalsByDecl map[interface{}]*NominalType
	functionBucket map[string][]*FunctionType
	boundGenBucket map[string][]*BoundGenericType
	qualBucket     map[string][]*QualifiedType
	metatypes      map[Type]*Metatype
	placeholders   map[placeholderKey]*PlaceholderType

	validQualifierSets []QualifierSet
}

type placeholderKey struct {
	name  string
	owner interface{}
}

// NewCompilerContext creates an empty context with the builtin types
// pre-interned and the default qualifier-combination table installed.
func NewCompilerContext() *CompilerContext {
	ctx := &CompilerContext{
		builtins:           make(map[string]*BuiltinType),
		nominalsByDecl:     make(map[interface{}]*NominalType),
		functionBucket:     make(map[string][]*FunctionType),
		boundGenBucket:     make(map[string][]*BoundGenericType),
		qualBucket:         make(map[string][]*QualifiedType),
		metatypes:          make(map[Type]*Metatype),
		placeholders:       make(map[placeholderKey]*PlaceholderType),
		validQualifierSets: DefaultQualifierSets(),
	}
	for _, name := range []string{BoolName, IntName, FloatName, StringName, AnythingName, NothingName} {
		ctx.builtins[name] = &BuiltinType{Name: name}
	}
	return ctx
}

// GetBuiltinType returns the canonical instance for a builtin name, or nil
// if name does not name a builtin.
func (ctx *CompilerContext) GetBuiltinType(name string) Type {
	if b, ok := ctx.builtins[name]; ok {
		return b
	}
	return nil
}

// SetBuiltinMemberScope attaches the (*ast.Scope, passed opaquely) holding
// a builtin type's operator methods, so Member constraints on builtin-typed
// expressions (e.g. `1 + 2`) can resolve `+` the same way they resolve a
// method on a user-declared nominal type.
func (ctx *CompilerContext) SetBuiltinMemberScope(name string, scope interface{}) {
	if b, ok := ctx.builtins[name]; ok {
		b.MemberScope = scope
	}
}

// GetErrorType returns the one ErrorType instance.
func (ctx *CompilerContext) GetErrorType() Type { return TheErrorType }

// NewTypeVariable allocates a fresh TypeVariable with a monotonically
// increasing id. Never interned.
func (ctx *CompilerContext) NewTypeVariable() *TypeVariable {
	ctx.nextVarID++
	return &TypeVariable{ID: ctx.nextVarID}
}

// GetPlaceholder returns the canonical PlaceholderType for (name, owner).
func (ctx *CompilerContext) GetPlaceholder(name string, owner interface{}) *PlaceholderType {
	key := placeholderKey{name: name, owner: owner}
	if p, ok := ctx.placeholders[key]; ok {
		return p
	}
	p := &PlaceholderType{Name: name, Owner: owner}
	ctx.placeholders[key] = p
	return p
}

// GetNominalType returns the canonical NominalType for declKey (typically a
// *ast.StructDecl pointer used only as an identity key), constructing it on
// first request.
func (ctx *CompilerContext) GetNominalType(declKey interface{}, name string, memberScope interface{}, placeholders []string) *NominalType {
	if n, ok := ctx.nominalsByDecl[declKey]; ok {
		return n
	}
	n := &NominalType{Name: name, Decl: declKey, MemberScope: memberScope, Placeholders: placeholders}
	ctx.nominalsByDecl[declKey] = n
	return n
}

// GetFunctionType returns the canonical FunctionType for the given
// signature, interning it by structural hash + equality.
func (ctx *CompilerContext) GetFunctionType(params []FuncParam, codomain Type, placeholders []string) *FunctionType {
	candidate := &FunctionType{Params: params, Codomain: codomain, Placeholders: placeholders}
	key := candidate.String()
	for _, existing := range ctx.functionBucket[key] {
		if existing.Equals(candidate) {
			return existing
		}
	}
	ctx.functionBucket[key] = append(ctx.functionBucket[key], candidate)
	return candidate
}

// GetBoundGeneric returns the canonical BoundGenericType for
// (underlying, bindings).
func (ctx *CompilerContext) GetBoundGeneric(underlying Type, bindings map[string]Type) *BoundGenericType {
	candidate := &BoundGenericType{Underlying: underlying, Bindings: bindings}
	key := candidate.String()
	for _, existing := range ctx.boundGenBucket[key] {
		if existing.Equals(candidate) {
			return existing
		}
	}
	ctx.boundGenBucket[key] = append(ctx.boundGenBucket[key], candidate)
	return candidate
}

// GetMetatype returns the canonical Metatype wrapping underlying.
func (ctx *CompilerContext) GetMetatype(underlying Type) *Metatype {
	if m, ok := ctx.metatypes[underlying]; ok {
		return m
	}
	m := &Metatype{Underlying: underlying}
	ctx.metatypes[underlying] = m
	return m
}

// GetQualified returns the canonical QualifiedType for (inner, qualifiers).
// A zero qualifier set is a no-op: it returns inner unwrapped, since an
// unqualified type and a type qualified with the empty set are the same
// thing.
func (ctx *CompilerContext) GetQualified(inner Type, q QualifierSet) Type {
	if q == 0 {
		return inner
	}
	candidate := &QualifiedType{Inner: inner, Qualifiers: q}
	key := candidate.String()
	for _, existing := range ctx.qualBucket[key] {
		if existing.Equals(candidate) {
			return existing
		}
	}
	ctx.qualBucket[key] = append(ctx.qualBucket[key], candidate)
	return candidate
}

// OpenNominalType wraps a NominalType in a fresh OpenedNominalType, one
// fresh TypeVariable per own placeholder. Never interned.
func (ctx *CompilerContext) OpenNominalType(n *NominalType) *OpenedNominalType {
	fresh := make(map[string]*TypeVariable, len(n.Placeholders))
	for _, p := range n.Placeholders {
		fresh[p] = ctx.NewTypeVariable()
	}
	return &OpenedNominalType{Underlying: n, FreshVars: fresh}
}

// String renders a qualifier-combination diagnostic aid; used by
// invalidQualifierCombination error messages.
func (q QualifierSet) describeInvalid(valid []QualifierSet) string {
	parts := make([]string, len(valid))
	for i, v := range valid {
		parts[i] = v.String()
	}
	return fmt.Sprintf("qualifier set %q is not one of the valid combinations: %v", q, parts)
}

// DescribeInvalidQualifierSet is exported for internal/diagnostic to build
// a suggestion string.
func (ctx *CompilerContext) DescribeInvalidQualifierSet(q QualifierSet) string {
	return q.describeInvalid(ctx.validQualifierSets)
}
