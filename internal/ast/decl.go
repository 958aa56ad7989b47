package ast

import (
	"fmt"
	"strings"
)

// Decl is a top-level or member declaration.
type Decl interface {
	Node
	declNode()
}

// File is a single parsed source file: a flat list of top-level
// declarations. Module loading / multi-file linking is a driver concern,
// out of scope here.
type File struct {
	Decls []Decl
	Scope *Scope // file-level scope, built by the binder
	Pos   Pos
}

func (f *File) Position() Pos { return f.Pos }
func (f *File) String() string {
	parts := make([]string, len(f.Decls))
	for i, d := range f.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

// FunKind distinguishes the four flavors of function declaration.
type FunKind int

const (
	FunRegular FunKind = iota
	FunMethod
	FunConstructor
	FunDestructor
)

func (k FunKind) String() string {
	switch k {
	case FunMethod:
		return "method"
	case FunConstructor:
		return "constructor"
	case FunDestructor:
		return "destructor"
	default:
		return "func"
	}
}

// FunDecl is a function, method, constructor, or destructor declaration.
type FunDecl struct {
	Name       string
	Kind       FunKind
	Placeholders []string // generic type parameters introduced by this decl
	Params     []*ParamDecl
	Codomain   TypeAnnotation // nil => unannotated, defaults to Nothing
	Body       Expr           // nil for abstract declarations (interface methods)
	// Scope is the function's own scope: parameters plus locals introduced
	// in the body. ParentScope is the enclosing scope a constructor uses to
	// resolve `Self` (the owning StructDecl's name).
	Scope       *Scope
	ParentScope *Scope
	TypeCell
	Pos Pos
}

func (f *FunDecl) declNode()        {}
func (f *FunDecl) Position() Pos    { return f.Pos }
func (f *FunDecl) TypeSlot() *TypeCell { return &f.TypeCell }
func (f *FunDecl) String() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("%s %s(%s)", f.Kind, f.Name, strings.Join(names, ", "))
}

// ParamDecl is a function parameter, with an optional default value.
type ParamDecl struct {
	Label      string // external label; "" means positional-only
	Name       string
	Annotation TypeAnnotation // nil only for parser error recovery
	Default    Expr
	TypeCell
	Pos Pos
}

func (p *ParamDecl) declNode()         {}
func (p *ParamDecl) Position() Pos     { return p.Pos }
func (p *ParamDecl) TypeSlot() *TypeCell { return &p.TypeCell }
func (p *ParamDecl) String() string {
	if p.Annotation != nil {
		return fmt.Sprintf("%s: %s", p.Name, p.Annotation)
	}
	return p.Name
}

// PropDecl is a property (field/local variable) declaration, optionally
// annotated and optionally bound with one of copy/move/ref.
type PropDecl struct {
	Name       string
	Annotation TypeAnnotation // nil if the type must be inferred from Value
	HasBinding bool
	Op         BindingOp
	Value      Expr
	// Scope is where annotation type names resolve from: the struct's
	// member scope for a field, or the enclosing block scope for a local
	// binding's lvalue.
	Scope *Scope
	TypeCell
	Pos Pos
}

func (p *PropDecl) declNode()         {}
func (p *PropDecl) Position() Pos     { return p.Pos }
func (p *PropDecl) TypeSlot() *TypeCell { return &p.TypeCell }
func (p *PropDecl) String() string {
	if p.HasBinding {
		return fmt.Sprintf("%s %s %s", p.Name, p.Op, p.Value)
	}
	return p.Name
}

// StructKind distinguishes struct/interface/union nominal declarations.
type StructKind int

const (
	KindStruct StructKind = iota
	KindInterface
	KindUnion
)

func (k StructKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindUnion:
		return "union"
	default:
		return "struct"
	}
}

// StructDecl is a nominal type declaration: struct, interface, or union.
type StructDecl struct {
	Name         string
	StructKind   StructKind
	Placeholders []string
	Members      []Decl // FunDecl / PropDecl nested inside
	Scope        *Scope // the member scope: holds every member's Symbol
	ParentScope  *Scope // enclosing scope, where the declaration's own name lives
	Pos          Pos
}

func (s *StructDecl) declNode()     {}
func (s *StructDecl) Position() Pos { return s.Pos }
func (s *StructDecl) String() string {
	return fmt.Sprintf("%s %s", s.StructKind, s.Name)
}
