package ast

import (
	"fmt"
	"strings"
)

// TypeAnnotation is syntax: what the programmer wrote in a type position.
// The constraint generator reads these and asks internal/types' factories
// for the corresponding interned semantic type; TypeAnnotation values are
// never themselves used as semantic types.
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

// NamedTypeAnnotation is `Foo`, `Int`, or a generic instantiation like
// `Box[Int]` (Specializations keyed by the declaring generic's placeholder
// names where known, else by position via the numeric string "0", "1", ...).
type NamedTypeAnnotation struct {
	Name            string
	Specializations []TypeAnnotation
	Pos             Pos
}

func (n *NamedTypeAnnotation) typeAnnotationNode() {}
func (n *NamedTypeAnnotation) Position() Pos       { return n.Pos }
func (n *NamedTypeAnnotation) String() string {
	if len(n.Specializations) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Specializations))
	for i, s := range n.Specializations {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s[%s]", n.Name, strings.Join(parts, ", "))
}

// ParamTypeAnnotation is one (label?, type) entry of a FuncTypeAnnotation.
type ParamTypeAnnotation struct {
	Label      string // "" when unlabeled
	Annotation TypeAnnotation
}

// FuncTypeAnnotation is `(label: T, ...) -> U`.
type FuncTypeAnnotation struct {
	Params   []*ParamTypeAnnotation
	Codomain TypeAnnotation // nil means unannotated (defaults to Nothing)
	Pos      Pos
}

func (f *FuncTypeAnnotation) typeAnnotationNode() {}
func (f *FuncTypeAnnotation) Position() Pos       { return f.Pos }
func (f *FuncTypeAnnotation) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Label != "" {
			parts[i] = fmt.Sprintf("%s: %s", p.Label, p.Annotation)
		} else {
			parts[i] = p.Annotation.String()
		}
	}
	codomain := "Nothing"
	if f.Codomain != nil {
		codomain = f.Codomain.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), codomain)
}

// QualifiedTypeAnnotation wraps an annotation with an explicit qualifier
// set, e.g. `@mut @stk @ref Foo`. Qualifiers are free-form strings here;
// internal/types.ParseQualifierSet validates them against the legal
// combination table.
type QualifiedTypeAnnotation struct {
	Qualifiers []string
	Inner      TypeAnnotation
	Pos        Pos
}

func (q *QualifiedTypeAnnotation) typeAnnotationNode() {}
func (q *QualifiedTypeAnnotation) Position() Pos       { return q.Pos }
func (q *QualifiedTypeAnnotation) String() string {
	parts := make([]string, len(q.Qualifiers))
	for i, qf := range q.Qualifiers {
		parts[i] = "@" + qf
	}
	return fmt.Sprintf("%s %s", strings.Join(parts, " "), q.Inner)
}
