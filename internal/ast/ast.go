// Package ast defines the shared AST that the (ambient) lexer, parser and
// binder produce and that the semantic core consumes and mutates in place.
//
// Nodes are plain structs reached through pointers; there is no visitor
// class hierarchy. Passes switch on the concrete type (a tagged variant in
// spirit) instead of dispatching through virtual methods.
package ast

import "fmt"

// Pos is a source position: file name plus 1-based line and column.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Position() Pos
	String() string
}

// SemType is the narrow view the AST needs of a semantic type: just enough
// to print it. internal/types.Type satisfies this without internal/ast ever
// importing internal/types — the dependency runs the other way, keeping the
// core free to reach into the AST while the AST stays ignorant of it.
type SemType interface {
	String() string
}

// TypeCell is the interior-mutable type slot every expression and
// declaration node carries. The constraint generator writes a fresh
// TypeVariable into it; the dispatcher later overwrites that with the
// reified concrete type. Single-threaded, so a bare field suffices — no
// locking is needed.
type TypeCell struct {
	typ SemType
}

// Type returns the current contents of the cell, or nil if nothing has been
// assigned yet.
func (c *TypeCell) Type() SemType { return c.typ }

// SetType overwrites the cell. Called once by the generator and, for nodes
// that survive to reification, once more by the dispatcher.
func (c *TypeCell) SetType(t SemType) { c.typ = t }

// Typed is implemented by every node that carries a TypeCell.
type Typed interface {
	Node
	TypeSlot() *TypeCell
}

// Scope is a lexical scope: a set of overloadable symbol buckets plus a
// link to the enclosing scope. Built by the (ambient) binder; read by the
// constraint generator and the dispatcher.
type Scope struct {
	Parent  *Scope
	Symbols map[string][]*Symbol
	// Kind distinguishes a scope that belongs to a nominal type's member
	// list (used by Member-constraint resolution) from an ordinary lexical
	// scope (function body, block, file).
	Kind ScopeKind
}

// ScopeKind tags what a Scope delimits.
type ScopeKind int

const (
	ScopeFile ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeMembers
)

// NewScope creates an empty scope with the given parent (nil for the root).
func NewScope(parent *Scope, kind ScopeKind) *Scope {
	return &Scope{Parent: parent, Symbols: make(map[string][]*Symbol), Kind: kind}
}

// Define adds a symbol to the scope's bucket for its name.
func (s *Scope) Define(sym *Symbol) {
	s.Symbols[sym.Name] = append(s.Symbols[sym.Name], sym)
}

// Local returns the symbols declared directly in this scope under name,
// without walking to parents.
func (s *Scope) Local(name string) []*Symbol {
	return s.Symbols[name]
}

// Lookup walks from this scope to the root, returning the first non-empty
// bucket found. It does not merge buckets across scopes: shadowing, not
// accumulation, is the rule for ordinary lexical lookup. Overload sets that
// must be gathered across scopes do so explicitly via Parent, not through
// Lookup.
func (s *Scope) Lookup(name string) []*Symbol {
	for sc := s; sc != nil; sc = sc.Parent {
		if syms := sc.Symbols[name]; len(syms) > 0 {
			return syms
		}
	}
	return nil
}

// LookupOwner is Lookup, but also returns the scope the winning bucket was
// found in — callers (the dispatcher) that need to keep climbing from there,
// e.g. to gather an overload set across scopes, have a starting point.
func (s *Scope) LookupOwner(name string) (*Scope, []*Symbol) {
	for sc := s; sc != nil; sc = sc.Parent {
		if syms := sc.Symbols[name]; len(syms) > 0 {
			return sc, syms
		}
	}
	return nil, nil
}

// Symbol is a named declaration reachable from a Scope.
type Symbol struct {
	Name           string
	Scope          *Scope // the scope the symbol is defined IN
	IsOverloadable bool
	IsMethod       bool
	// Type is a pre-bound semantic type for symbols the core does not infer
	// itself (builtins). nil for ordinary declarations, whose type is
	// written by the constraint generator onto Decl's TypeCell instead.
	Type SemType
	// Decl is the declaring node (FunDecl, PropDecl, ParamDecl, StructDecl),
	// used by the dispatcher to read the node's TypeCell once reified and
	// by Member/Construction resolution to find nested scopes.
	Decl Node
}

// ResolvedType returns the symbol's best-known semantic type: its
// pre-bound Type if one was set at binding time (builtins, struct names),
// else whatever the declaring node's TypeCell currently holds. Callers that
// need a concrete internal/types.Type type-assert the SemType themselves;
// internal/ast stays ignorant of the types package.
func (sym *Symbol) ResolvedType() SemType {
	if sym.Type != nil {
		return sym.Type
	}
	if typed, ok := sym.Decl.(Typed); ok {
		return typed.TypeSlot().Type()
	}
	return nil
}

// BindingOp is one of the three binding operators, copy/move/ref.
type BindingOp int

const (
	OpCopy BindingOp = iota
	OpMove
	OpRef
)

func (o BindingOp) String() string {
	switch o {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpRef:
		return "ref"
	default:
		return "?op"
	}
}
