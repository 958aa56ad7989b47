// Package constraint defines the typing constraint language emitted by the
// constraint generator and consumed by the solver.
package constraint

import (
	"fmt"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/types"
)

// Anchor is the semantic tag attached to a constraint's source location,
// used purely for diagnostic attribution.
type Anchor int

const (
	AnchorAnnotation Anchor = iota
	AnchorCodomain
	AnchorRvalue
	AnchorCallArgument
	AnchorBinaryOperator
	AnchorIdentifier
	AnchorSelect
)

func (a Anchor) String() string {
	switch a {
	case AnchorAnnotation:
		return "annotation"
	case AnchorCodomain:
		return "codomain"
	case AnchorRvalue:
		return "rvalue"
	case AnchorCallArgument:
		return "call-argument"
	case AnchorBinaryOperator:
		return "binary-operator"
	case AnchorIdentifier:
		return "identifier"
	case AnchorSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Location is a reference to an AST node plus the semantic anchor that
// explains why a constraint was generated from it.
type Location struct {
	Node     ast.Node
	Anchor   Anchor
	ArgIndex int // meaningful only when Anchor == AnchorCallArgument
}

func (l Location) String() string {
	if l.Anchor == AnchorCallArgument {
		return fmt.Sprintf("%s (%s %d)", l.Node.Position(), l.Anchor, l.ArgIndex)
	}
	return fmt.Sprintf("%s (%s)", l.Node.Position(), l.Anchor)
}

// Kind tags which of the five constraint forms a Constraint is.
type Kind int

const (
	KindEquality Kind = iota
	KindConformance
	KindMember
	KindConstruction
	KindDisjunction
)

func (k Kind) String() string {
	switch k {
	case KindEquality:
		return "Equality"
	case KindConformance:
		return "Conformance"
	case KindMember:
		return "Member"
	case KindConstruction:
		return "Construction"
	case KindDisjunction:
		return "Disjunction"
	default:
		return "?"
	}
}

// Constraint is one typing obligation. Only the fields
// relevant to Kind are populated; it is a tagged union in spirit rather
// than in Go syntax, since Go has no sum types.
type Constraint struct {
	Kind Kind
	Loc  Location

	// Equality, Conformance: T must unify / conform to U.
	T, U types.Type

	// Conformance only: the binding operator governing this conformance, if
	// it arose from a BindingStmt. Zero value (OpCopy) with HasOp false
	// means "plain conformance", e.g. a parameter default or a return value,
	// which the solver checks via unification or the Anything/Nothing
	// subtype rule rather than the binding-operator table.
	Op    ast.BindingOp
	HasOp bool

	// Member: Owner must have a member Name of type unifiable with MemberType.
	Owner      types.Type
	Name       string
	MemberType types.Type

	// Construction: Callee must be a metatype of a nominal with a
	// constructor of type Fn.
	Callee types.Type
	Fn     types.Type

	// Disjunction: exactly one of Branches must be satisfiable.
	Branches []*Constraint
}

// Equality constructs an Equality(t, u) constraint.
func Equality(t, u types.Type, loc Location) *Constraint {
	return &Constraint{Kind: KindEquality, T: t, U: u, Loc: loc}
}

// Conformance constructs a Conformance(rvalue, lvalue) constraint — t must
// be compatible with u.
func Conformance(t, u types.Type, loc Location) *Constraint {
	return &Constraint{Kind: KindConformance, T: t, U: u, Loc: loc}
}

// ConformanceWithOp constructs a Conformance constraint carrying the
// binding operator that produced it, for the solver's operator-specific
// qualifier rules.
func ConformanceWithOp(t, u types.Type, op ast.BindingOp, loc Location) *Constraint {
	return &Constraint{Kind: KindConformance, T: t, U: u, Op: op, HasOp: true, Loc: loc}
}

// Member constructs a Member(owner, name, u) constraint.
func Member(owner types.Type, name string, memberType types.Type, loc Location) *Constraint {
	return &Constraint{Kind: KindMember, Owner: owner, Name: name, MemberType: memberType, Loc: loc}
}

// Construction constructs a Construction(callee, fn) constraint.
func Construction(callee, fn types.Type, loc Location) *Constraint {
	return &Constraint{Kind: KindConstruction, Callee: callee, Fn: fn, Loc: loc}
}

// Disjunction constructs a Disjunction constraint over branches, exactly
// one of which must be satisfiable. Branches are tried in the given order;
// ties are broken by that same source order.
func Disjunction(branches []*Constraint, loc Location) *Constraint {
	return &Constraint{Kind: KindDisjunction, Branches: branches, Loc: loc}
}

func (c *Constraint) String() string {
	switch c.Kind {
	case KindEquality:
		return fmt.Sprintf("%s == %s @ %s", c.T, c.U, c.Loc)
	case KindConformance:
		return fmt.Sprintf("%s <: %s @ %s", c.T, c.U, c.Loc)
	case KindMember:
		return fmt.Sprintf("%s.%s : %s @ %s", c.Owner, c.Name, c.MemberType, c.Loc)
	case KindConstruction:
		return fmt.Sprintf("construct(%s) : %s @ %s", c.Callee, c.Fn, c.Loc)
	case KindDisjunction:
		return fmt.Sprintf("Disjunction(%d branches) @ %s", len(c.Branches), c.Loc)
	default:
		return "?"
	}
}

// Set is an append-only accumulator of constraints built during generation
// and drained by the solver.
type Set struct {
	items []*Constraint
}

// NewSet creates an empty constraint set.
func NewSet() *Set { return &Set{} }

// Add appends a constraint.
func (s *Set) Add(c *Constraint) { s.items = append(s.items, c) }

// All returns every constraint added so far, in emission order.
func (s *Set) All() []*Constraint { return s.items }

// Len reports how many constraints have been added.
func (s *Set) Len() int { return len(s.items) }
