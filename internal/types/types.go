// Package types implements the canonical, hash-consed type representation:
// a closed sum of type variants, interned by a CompilerContext, with an
// open/close lifecycle for generics.
package types

import (
	"fmt"
	"strings"
)

// Type is the closed sum of type variants. All implementations live in this
// package; callers switch on the concrete type rather than calling virtual
// methods.
type Type interface {
	String() string
	// Equals is structural equality modulo interning: two interned,
	// non-variable types that Equals reports true for are required to be
	// pointer-identical. TypeVariable and
	// OpenedNominalType, which are never interned, fall back to true
	// structural comparison.
	Equals(other Type) bool
}

// ErrorType is the absorbing singleton placeholder for ill-typed nodes.
type ErrorType struct{}

func (*ErrorType) String() string    { return "<error>" }
func (*ErrorType) Equals(o Type) bool { _, ok := o.(*ErrorType); return ok }

// errorSingleton is the one ErrorType instance in existence; use
// types.TheErrorType, never &ErrorType{}.
var TheErrorType = &ErrorType{}

// TypeVariable is an unknown discovered during inference. It is the only
// variant the solver may bind a substitution for, and it is never interned
// — each NewTypeVariable call returns a fresh instance with a
// monotonically increasing id.
type TypeVariable struct {
	ID uint64
}

func (v *TypeVariable) String() string { return fmt.Sprintf("τ%d", v.ID) }
func (v *TypeVariable) Equals(o Type) bool {
	ov, ok := o.(*TypeVariable)
	return ok && ov.ID == v.ID
}

// PlaceholderType is a generic parameter (e.g. `T`) awaiting instantiation,
// scoped to the generic declaration that introduced it.
type PlaceholderType struct {
	Name  string
	Owner interface{} // declaring *ast.FunDecl or *ast.StructDecl; identity key
}

func (p *PlaceholderType) String() string { return p.Name }
func (p *PlaceholderType) Equals(o Type) bool {
	op, ok := o.(*PlaceholderType)
	return ok && op.Name == p.Name && op.Owner == p.Owner
}

// BuiltinType is one of the language's predefined base types.
type BuiltinType struct {
	Name string
	// MemberScope is the opaque (*ast.Scope) holding the builtin's operator
	// methods (Int.+, String.+, Bool.==, ...), populated after construction
	// by the binder via CompilerContext.SetBuiltinMemberScope — builtins are
	// interned before any scope exists, so this field starts nil.
	MemberScope interface{}
}

func (b *BuiltinType) String() string { return b.Name }
func (b *BuiltinType) Equals(o Type) bool {
	ob, ok := o.(*BuiltinType)
	return ok && ob.Name == b.Name
}

// Predefined builtin names. Obtain the canonical instances
// through CompilerContext.GetBuiltinType, not by constructing &BuiltinType
// literals, so identity comparison holds.
const (
	BoolName     = "Bool"
	IntName      = "Int"
	FloatName    = "Float"
	StringName   = "String"
	AnythingName = "Anything"
	NothingName  = "Nothing"
)

// NominalDecl is the narrow view of a declaring node NominalType needs: a
// name and a member scope to resolve Member constraints against. Satisfied
// by *ast.StructDecl without this package importing ast's full surface more
// than necessary.
type NominalDecl interface {
	MemberScopeKey() interface{} // identity key for interning (the *ast.StructDecl pointer)
	DeclName() string
}

// NominalType is a user-declared struct/interface/union. Decl
// is an opaque back-reference (typically *ast.StructDecl) the dispatcher and
// Member-constraint resolution use to look up member scopes; this package
// never dereferences it directly as an ast.StructDecl to avoid an import
// cycle with internal/ast, and instead goes through the MemberScope field
// populated at construction time.
type NominalType struct {
	Name         string
	Decl         interface{} // *ast.StructDecl, opaque here
	MemberScope  interface{} // *ast.Scope, opaque here
	Placeholders []string
}

func (n *NominalType) String() string {
	if len(n.Placeholders) == 0 {
		return n.Name
	}
	return fmt.Sprintf("%s[%s]", n.Name, strings.Join(n.Placeholders, ", "))
}
func (n *NominalType) Equals(o Type) bool {
	on, ok := o.(*NominalType)
	return ok && on.Decl == n.Decl
}

// FuncParam is one (label?, type) entry of a FunctionType.
type FuncParam struct {
	Label string // "" when unlabeled
	Type  Type
}

// FunctionType is a function or method signature. Methods
// are represented curried: `(Self) -> (params -> codomain)`.
type FunctionType struct {
	Params       []FuncParam
	Codomain     Type
	Placeholders []string
}

func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Label != "" {
			parts[i] = fmt.Sprintf("%s: %s", p.Label, p.Type)
		} else {
			parts[i] = p.Type.String()
		}
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Codomain)
}
func (f *FunctionType) Equals(o Type) bool {
	of, ok := o.(*FunctionType)
	if !ok || len(of.Params) != len(f.Params) || len(of.Placeholders) != len(f.Placeholders) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].Label != of.Params[i].Label || !f.Params[i].Type.Equals(of.Params[i].Type) {
			return false
		}
	}
	return f.Codomain.Equals(of.Codomain)
}

// BoundGenericType is a generic with a (possibly partial) placeholder
// substitution.
type BoundGenericType struct {
	Underlying Type // the generic NominalType (or, transiently, a TypeVariable during open)
	Bindings   map[string]Type
}

func (b *BoundGenericType) String() string {
	keys := sortedKeys(b.Bindings)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, b.Bindings[k])
	}
	return fmt.Sprintf("%s{%s}", b.Underlying, strings.Join(parts, ", "))
}
func (b *BoundGenericType) Equals(o Type) bool {
	ob, ok := o.(*BoundGenericType)
	if !ok || !b.Underlying.Equals(ob.Underlying) || len(b.Bindings) != len(ob.Bindings) {
		return false
	}
	for k, v := range b.Bindings {
		ov, ok := ob.Bindings[k]
		if !ok || !v.Equals(ov) {
			return false
		}
	}
	return true
}

// GetUnboundPlaceholders returns the placeholders of the underlying generic
// that b.Bindings has not yet filled.
func (b *BoundGenericType) GetUnboundPlaceholders() map[string]bool {
	free := map[string]bool{}
	if n, ok := b.Underlying.(*NominalType); ok {
		for _, p := range n.Placeholders {
			if _, bound := b.Bindings[p]; !bound {
				free[p] = true
			}
		}
	}
	return free
}

// OpenedNominalType is a nominal type mid-inference, awaiting closure.
// It is never interned: each open call must allocate a fresh one so its
// fresh-variable map is independent.
type OpenedNominalType struct {
	Underlying *NominalType
	FreshVars  map[string]*TypeVariable // placeholder name -> fresh variable
}

func (o *OpenedNominalType) String() string {
	return fmt.Sprintf("%s<opened>", o.Underlying.Name)
}
func (o *OpenedNominalType) Equals(other Type) bool {
	oo, ok := other.(*OpenedNominalType)
	return ok && oo.Underlying == o.Underlying && sameVarMap(o.FreshVars, oo.FreshVars)
}

func sameVarMap(a, b map[string]*TypeVariable) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || bv.ID != v.ID {
			return false
		}
	}
	return true
}

// Metatype is the type-of-a-type: the value that results
// from naming a type in a value position, and the callee type for
// constructor invocation.
type Metatype struct {
	Underlying Type
}

func (m *Metatype) String() string { return fmt.Sprintf("Metatype(%s)", m.Underlying) }
func (m *Metatype) Equals(o Type) bool {
	om, ok := o.(*Metatype)
	return ok && m.Underlying.Equals(om.Underlying)
}

// QualifiedType pairs an unqualified type with a qualifier set. It composes
// like any other Type: a FunctionType parameter, a PropDecl's annotation, or
// an lvalue/rvalue in a BindingStmt may all be QualifiedType values.
type QualifiedType struct {
	Inner      Type
	Qualifiers QualifierSet
}

func (q *QualifiedType) String() string {
	if q.Qualifiers == 0 {
		return q.Inner.String()
	}
	return fmt.Sprintf("%s %s", q.Qualifiers, q.Inner)
}
func (q *QualifiedType) Equals(o Type) bool {
	oq, ok := o.(*QualifiedType)
	return ok && oq.Qualifiers == q.Qualifiers && q.Inner.Equals(oq.Inner)
}

// Unqualify strips any QualifiedType wrapper, returning the inner type and
// the qualifier set (zero if t was not qualified).
func Unqualify(t Type) (Type, QualifierSet) {
	if q, ok := t.(*QualifiedType); ok {
		return q.Inner, q.Qualifiers
	}
	return t, 0
}

func sortedKeys(m map[string]Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
