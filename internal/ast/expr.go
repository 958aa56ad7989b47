package ast

import (
	"fmt"
	"strings"
)

// Expr is any expression node. Every Expr is Typed: the generator assigns
// a fresh type variable (or a syntactically fixed type, for literals) to
// every expression node's TypeCell.
type Expr interface {
	Typed
	exprNode()
}

// LiteralKind enumerates the builtin literal forms.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
)

// Literal is a literal constant.
type Literal struct {
	Kind  LiteralKind
	Value string // literal source text, re-parsed by the generator's type
	TypeCell
	Pos Pos
}

func (l *Literal) exprNode()          {}
func (l *Literal) Position() Pos      { return l.Pos }
func (l *Literal) TypeSlot() *TypeCell { return &l.TypeCell }
func (l *Literal) String() string     { return l.Value }

// Ident is an identifier used in expression position. Scope is set by the
// binder at parse time; Symbol is populated by the dispatcher once a unique
// declaration has been chosen.
type Ident struct {
	Name            string
	Scope           *Scope
	Specializations map[string]TypeAnnotation // explicit `name[T: Int]` specialization, if any
	Symbol          *Symbol
	TypeCell
	Pos Pos
}

func (i *Ident) exprNode()          {}
func (i *Ident) Position() Pos      { return i.Pos }
func (i *Ident) TypeSlot() *TypeCell { return &i.TypeCell }
func (i *Ident) String() string     { return i.Name }

// BinaryExpr is `Left Op Right`, generated as a call to `Left.Op(Right)`.
// RewrittenCall is filled in by the dispatcher once it rewrites the node
// into an explicit Call(Select(...), ...) form; until then it is nil.
type BinaryExpr struct {
	Left  Expr
	Op    string
	Right Expr
	// OpIdent is a synthetic Ident standing for the operator method name,
	// so the dispatcher has a node to attach a Symbol to after rewriting.
	OpIdent *Ident
	RewrittenCall Expr
	TypeCell
	Pos Pos
}

func (b *BinaryExpr) exprNode()          {}
func (b *BinaryExpr) Position() Pos      { return b.Pos }
func (b *BinaryExpr) TypeSlot() *TypeCell { return &b.TypeCell }
func (b *BinaryExpr) String() string {
	if b.RewrittenCall != nil {
		return b.RewrittenCall.String()
	}
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Arg is one labeled or unlabeled call argument.
type Arg struct {
	Label string // "" if unlabeled
	Value Expr
}

// CallExpr is function application or constructor invocation
// (`Func(args...)`).
type CallExpr struct {
	Func Expr
	Args []*Arg
	TypeCell
	Pos Pos
}

func (c *CallExpr) exprNode()          {}
func (c *CallExpr) Position() Pos      { return c.Pos }
func (c *CallExpr) TypeSlot() *TypeCell { return &c.TypeCell }
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a.Label != "" {
			parts[i] = fmt.Sprintf("%s: %s", a.Label, a.Value)
		} else {
			parts[i] = a.Value.String()
		}
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(parts, ", "))
}

// SelectExpr is `Owner.Ownee` (or, with Owner == nil, an implicit static
// member access written bare as `Ownee`).
type SelectExpr struct {
	Owner  Expr // nil for an implicit-owner static access
	Ownee  string
	Symbol *Symbol // populated by the dispatcher, mirroring Ident.Symbol
	TypeCell
	Pos Pos
}

func (s *SelectExpr) exprNode()          {}
func (s *SelectExpr) Position() Pos      { return s.Pos }
func (s *SelectExpr) TypeSlot() *TypeCell { return &s.TypeCell }
func (s *SelectExpr) String() string {
	if s.Owner == nil {
		return fmt.Sprintf(".%s", s.Ownee)
	}
	return fmt.Sprintf("%s.%s", s.Owner, s.Ownee)
}

// SubscriptExpr is `Owner[Args...]`, generated analogously to CallExpr.
type SubscriptExpr struct {
	Owner Expr
	Args  []*Arg
	TypeCell
	Pos Pos
}

func (s *SubscriptExpr) exprNode()          {}
func (s *SubscriptExpr) Position() Pos      { return s.Pos }
func (s *SubscriptExpr) TypeSlot() *TypeCell { return &s.TypeCell }
func (s *SubscriptExpr) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.Value.String()
	}
	return fmt.Sprintf("%s[%s]", s.Owner, strings.Join(parts, ", "))
}

// Lambda is an anonymous function literal, generated analogously to
// FunDecl.
type Lambda struct {
	Params   []*ParamDecl
	Codomain TypeAnnotation
	Body     Expr
	Scope    *Scope
	TypeCell
	Pos Pos
}

func (l *Lambda) exprNode()          {}
func (l *Lambda) Position() Pos      { return l.Pos }
func (l *Lambda) TypeSlot() *TypeCell { return &l.TypeCell }
func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("fun(%s) { %s }", strings.Join(names, ", "), l.Body)
}

// IfExpr is a conditional expression. Else may be nil.
type IfExpr struct {
	Condition Expr
	Then      Expr
	Else      Expr
	TypeCell
	Pos Pos
}

func (i *IfExpr) exprNode()          {}
func (i *IfExpr) Position() Pos      { return i.Pos }
func (i *IfExpr) TypeSlot() *TypeCell { return &i.TypeCell }
func (i *IfExpr) String() string {
	if i.Else != nil {
		return fmt.Sprintf("(if %s then %s else %s)", i.Condition, i.Then, i.Else)
	}
	return fmt.Sprintf("(if %s then %s)", i.Condition, i.Then)
}

// BlockExpr is `{ stmt; stmt; tail }`: the body of a function, method, or
// lambda. Tail is the final expression with no trailing semicolon, if any;
// its type is the block's type. A block with no tail has type Nothing.
type BlockExpr struct {
	Stmts []Stmt
	Tail  Expr // nil if the block ends in a statement, not an expression
	TypeCell
	Pos Pos
}

func (b *BlockExpr) exprNode()          {}
func (b *BlockExpr) Position() Pos      { return b.Pos }
func (b *BlockExpr) TypeSlot() *TypeCell { return &b.TypeCell }
func (b *BlockExpr) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	if b.Tail != nil {
		parts = append(parts, b.Tail.String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// ErrorExpr stands in for a node the parser could not make sense of. The
// generator assigns it ErrorType directly without emitting constraints.
type ErrorExpr struct {
	Msg string
	TypeCell
	Pos Pos
}

func (e *ErrorExpr) exprNode()          {}
func (e *ErrorExpr) Position() Pos      { return e.Pos }
func (e *ErrorExpr) TypeSlot() *TypeCell { return &e.TypeCell }
func (e *ErrorExpr) String() string     { return fmt.Sprintf("<error: %s>", e.Msg) }
