package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
	"github.com/nodalang/semcore/internal/parser"
	"github.com/nodalang/semcore/internal/types"
)

func parseAndBind(t *testing.T, src string) (*ast.File, *Binder, *diagnostic.Sink) {
	t.Helper()
	sink := diagnostic.NewSink()
	p := parser.New(lexer.New(src, "test.sc"), sink)
	file := p.ParseFile("test.sc")
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.All())

	ctx := types.NewCompilerContext()
	b := New(ctx, sink)
	b.Bind(file)
	return file, b, sink
}

func TestBindTopLevelFunResolvesParamsInBody(t *testing.T) {
	file, _, sink := parseAndBind(t, `fun add(x: Int, y: Int) -> Int { x + y }`)
	require.False(t, sink.HasErrors(), "%v", sink.All())

	f := file.Decls[0].(*ast.FunDecl)
	require.NotNil(t, f.Scope)
	block := f.Body.(*ast.BlockExpr)
	bin := block.Tail.(*ast.BinaryExpr)

	left := bin.Left.(*ast.Ident)
	require.NotNil(t, left.Scope)
	syms := left.Scope.Lookup("x")
	require.Len(t, syms, 1)
	assert.Same(t, ast.Node(f.Params[0]), syms[0].Decl)
}

func TestBindStructDefinesSelfInMethod(t *testing.T) {
	file, _, sink := parseAndBind(t, `
		struct Point {
			x: @mut Int;
			fun magnitude() -> Int { self }
		}
	`)
	require.False(t, sink.HasErrors(), "%v", sink.All())

	s := file.Decls[0].(*ast.StructDecl)
	require.NotNil(t, s.Scope)
	method := s.Members[1].(*ast.FunDecl)
	require.NotNil(t, method.Scope)

	syms := method.Scope.Local("self")
	require.Len(t, syms, 1)
	assert.NotNil(t, syms[0].Type)
}

func TestBindLetShadowsOuterName(t *testing.T) {
	file, _, sink := parseAndBind(t, `
		fun f() -> Int {
			let x := copy 1;
			let x := copy 2;
			x
		}
	`)
	require.False(t, sink.HasErrors(), "%v", sink.All())

	f := file.Decls[0].(*ast.FunDecl)
	block := f.Body.(*ast.BlockExpr)
	tailIdent := block.Tail.(*ast.Ident)

	syms := tailIdent.Scope.Lookup("x")
	require.Len(t, syms, 1)
	second := block.Stmts[1].(*ast.BindingStmt)
	assert.Same(t, ast.Node(second.Lvalue), syms[0].Decl)
}

func TestBuildBuiltinScopeWiresIntOperators(t *testing.T) {
	ctx := types.NewCompilerContext()
	sink := diagnostic.NewSink()
	b := New(ctx, sink)
	root := b.buildBuiltinScope()

	syms := root.Local(types.IntName)
	require.Len(t, syms, 1)
	_, ok := syms[0].Type.(*types.Metatype)
	assert.True(t, ok)

	intType := ctx.GetBuiltinType(types.IntName)
	bt, ok := intType.(*types.BuiltinType)
	require.True(t, ok)
	ms, ok := bt.MemberScope.(*ast.Scope)
	require.True(t, ok)

	plus := ms.Local("+")
	require.Len(t, plus, 1)
	ft, ok := plus[0].Type.(*types.FunctionType)
	require.True(t, ok)
	assert.Len(t, ft.Params, 1)
	assert.Equal(t, "self", ft.Params[0].Label)

	eq := ms.Local("==")
	require.Len(t, eq, 1)
}

func TestBindDuplicateTopLevelNameRaisesRES003(t *testing.T) {
	_, _, sink := parseAndBind(t, `
		struct Dup { x: Int; }
		struct Dup { y: Int; }
	`)
	found := false
	for _, r := range sink.All() {
		if r.Code == diagnostic.RES003 {
			found = true
		}
	}
	assert.True(t, found, "expected RES003 for duplicate top-level struct name")
}
