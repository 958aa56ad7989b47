package binder

import (
	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/types"
)

var arithmeticOps = []string{"+", "-", "*", "/", "%"}
var comparisonOps = []string{"==", "!=", "<", ">", "<=", ">="}
var equalityOps = []string{"==", "!="}
var logicalOps = []string{"&&", "||"}

// buildBuiltinScope creates the root scope, defines the six predefined type
// names as Metatype-valued symbols, and wires each numeric/textual/boolean
// builtin's operator methods into a dedicated member scope via
// CompilerContext.SetBuiltinMemberScope — the table constraintgen's genBinary
// relies on to resolve `left + right` as a Member constraint on "+".
func (b *Binder) buildBuiltinScope() *ast.Scope {
	root := ast.NewScope(nil, ast.ScopeFile)

	for _, name := range []string{
		types.BoolName, types.IntName, types.FloatName, types.StringName,
		types.AnythingName, types.NothingName,
	} {
		bt := b.ctx.GetBuiltinType(name)
		root.Define(&ast.Symbol{Name: name, Scope: root, Type: b.ctx.GetMetatype(bt)})
	}

	b.wireNumericOps(types.IntName)
	b.wireNumericOps(types.FloatName)
	b.wireStringOps()
	b.wireBoolOps()

	return root
}

// wireNumericOps wires Int and Float identically: arithmetic closes over
// the same type, comparisons yield Bool.
func (b *Binder) wireNumericOps(name string) {
	self := b.ctx.GetBuiltinType(name)
	boolT := b.ctx.GetBuiltinType(types.BoolName)
	ms := ast.NewScope(nil, ast.ScopeMembers)
	for _, op := range arithmeticOps {
		ms.Define(b.operatorSymbol(op, self, self))
	}
	for _, op := range comparisonOps {
		ms.Define(b.operatorSymbol(op, self, boolT))
	}
	b.ctx.SetBuiltinMemberScope(name, ms)
}

func (b *Binder) wireStringOps() {
	self := b.ctx.GetBuiltinType(types.StringName)
	boolT := b.ctx.GetBuiltinType(types.BoolName)
	ms := ast.NewScope(nil, ast.ScopeMembers)
	ms.Define(b.operatorSymbol("+", self, self))
	for _, op := range equalityOps {
		ms.Define(b.operatorSymbol(op, self, boolT))
	}
	b.ctx.SetBuiltinMemberScope(types.StringName, ms)
}

func (b *Binder) wireBoolOps() {
	self := b.ctx.GetBuiltinType(types.BoolName)
	ms := ast.NewScope(nil, ast.ScopeMembers)
	for _, op := range logicalOps {
		ms.Define(b.operatorSymbol(op, self, self))
	}
	for _, op := range equalityOps {
		ms.Define(b.operatorSymbol(op, self, self))
	}
	b.ctx.SetBuiltinMemberScope(types.BoolName, ms)
}

// operatorSymbol builds the self-curried FunctionType `(self: owner) ->
// (owner) -> result` declareFun uses for every method, so a builtin
// operator unifies against a Call/Member chain exactly like a
// user-declared method would.
func (b *Binder) operatorSymbol(op string, owner, result types.Type) *ast.Symbol {
	inner := b.ctx.GetFunctionType([]types.FuncParam{{Type: owner}}, result, nil)
	whole := b.ctx.GetFunctionType([]types.FuncParam{{Label: "self", Type: owner}}, inner, nil)
	return &ast.Symbol{Name: op, Type: whole, IsOverloadable: true, IsMethod: true}
}
