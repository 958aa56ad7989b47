package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalang/semcore/internal/ast"
	"github.com/nodalang/semcore/internal/binder"
	"github.com/nodalang/semcore/internal/diagnostic"
	"github.com/nodalang/semcore/internal/lexer"
	"github.com/nodalang/semcore/internal/parser"
	"github.com/nodalang/semcore/internal/types"
)

func check(t *testing.T, src string) (*ast.File, *Result) {
	t.Helper()
	sink := diagnostic.NewSink()
	p := parser.New(lexer.New(src, "test.sc"), sink)
	file := p.ParseFile("test.sc")
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.All())

	ctx := types.NewCompilerContext()
	b := binder.New(ctx, sink)
	b.Bind(file)
	require.False(t, sink.HasErrors(), "bind errors: %v", sink.All())

	res := TypeCheck(file, ctx, Options{})
	return file, res
}

func declType(t *testing.T, d ast.Typed) types.Type {
	t.Helper()
	st := d.TypeSlot().Type()
	require.NotNil(t, st)
	tt, ok := st.(types.Type)
	require.True(t, ok)
	return tt
}

// Scenario 1: overloaded monomorphic function dispatches per call site.
func TestOverloadedMonomorphicFunction(t *testing.T) {
	file, res := check(t, `
		fun mono(x: Int) -> Int { x }
		fun mono(x: Bool) -> Bool { x }
		fun useInt() -> Int { let a := copy mono(x: 0); a }
		fun useBool() -> Bool { let b := copy mono(x: true); b }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	useInt := file.Decls[2].(*ast.FunDecl)
	blockI := useInt.Body.(*ast.BlockExpr)
	bindI := blockI.Stmts[0].(*ast.BindingStmt)
	callI := bindI.Lvalue.Value.(*ast.CallExpr)
	ident := callI.Func.(*ast.Ident)
	require.NotNil(t, ident.Symbol)
	fd := ident.Symbol.Decl.(*ast.FunDecl)
	assert.Equal(t, ast.FunRegular, fd.Kind)
	codomain := declType(t, fd).(*types.FunctionType).Codomain
	bt, ok := codomain.(*types.BuiltinType)
	require.True(t, ok)
	assert.Equal(t, types.IntName, bt.Name)

	aType := declType(t, bindI.Lvalue)
	assert.Equal(t, types.IntName, aType.(*types.BuiltinType).Name)

	useBool := file.Decls[3].(*ast.FunDecl)
	blockB := useBool.Body.(*ast.BlockExpr)
	bindB := blockB.Stmts[0].(*ast.BindingStmt)
	bType := declType(t, bindB.Lvalue)
	assert.Equal(t, types.BoolName, bType.(*types.BuiltinType).Name)
}

// Scenario 2: polymorphic identity function, instantiated at two call
// sites (one of them nested), each resolving to its own concrete type.
func TestPolymorphicFunction(t *testing.T) {
	file, res := check(t, `
		fun poly[T](x: T) -> T { x }
		fun useA() -> Int { let a := copy poly(x: 0); a }
		fun useB() -> Bool { let b := copy poly(x: copy poly(x: true)); b }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	useA := file.Decls[1].(*ast.FunDecl)
	bindA := useA.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	aType := declType(t, bindA.Lvalue)
	assert.Equal(t, types.IntName, aType.(*types.BuiltinType).Name)

	useB := file.Decls[2].(*ast.FunDecl)
	bindB := useB.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	bType := declType(t, bindB.Lvalue)
	assert.Equal(t, types.BoolName, bType.(*types.BuiltinType).Name)
}

// Scenario 3: two independent placeholders, each bound from a different
// argument; the codomain tracks whichever placeholder it names.
func TestLinearInference(t *testing.T) {
	file, res := check(t, `
		fun poly[T, U](x: T, y: U) -> T { x }
		fun useIntFirst() -> Int { let a := copy poly(x: 0, y: true); a }
		fun useBoolFirst() -> Bool { let b := copy poly(x: true, y: 0); b }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	useIntFirst := file.Decls[1].(*ast.FunDecl)
	bindA := useIntFirst.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	assert.Equal(t, types.IntName, declType(t, bindA.Lvalue).(*types.BuiltinType).Name)

	useBoolFirst := file.Decls[2].(*ast.FunDecl)
	bindB := useBoolFirst.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	assert.Equal(t, types.BoolName, declType(t, bindB.Lvalue).(*types.BuiltinType).Name)
}

// Scenario 4: a generic constructor closes over the argument's concrete
// type, producing a BoundGenericType for each distinct instantiation.
func TestGenericConstructor(t *testing.T) {
	file, res := check(t, `
		struct Box[T] {
			value: @mut @stk @val T;
			fun new(value: T) -> Box[T] { self }
		}
		fun useInt() -> Int { let b := copy Box(value: 0); 0 }
		fun useString() -> Int { let b := copy Box(value: "hi"); 0 }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	useInt := file.Decls[1].(*ast.FunDecl)
	bindI := useInt.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	bgI, ok := declType(t, bindI.Lvalue).(*types.BoundGenericType)
	require.True(t, ok, "expected BoundGenericType, got %T", declType(t, bindI.Lvalue))
	nomI := bgI.Underlying.(*types.NominalType)
	assert.Equal(t, "Box", nomI.Name)
	tArgI, _ := types.Unqualify(bgI.Bindings["T"])
	assert.Equal(t, types.IntName, tArgI.(*types.BuiltinType).Name)

	useStr := file.Decls[2].(*ast.FunDecl)
	bindS := useStr.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	bgS, ok := declType(t, bindS.Lvalue).(*types.BoundGenericType)
	require.True(t, ok)
	tArgS, _ := types.Unqualify(bgS.Bindings["T"])
	assert.Equal(t, types.StringName, tArgS.(*types.BuiltinType).Name)
}

// Scenario 5: a binary expression is dispatched to the builtin operator
// method and rewritten into explicit call form.
func TestBinaryOperatorDispatch(t *testing.T) {
	file, res := check(t, `
		fun useInt() -> Int { let a := copy 1 + 2; a }
		fun useString() -> String { let s := copy "a" + "b"; s }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	useInt := file.Decls[0].(*ast.FunDecl)
	bindI := useInt.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	binI := bindI.Lvalue.Value.(*ast.BinaryExpr)
	require.NotNil(t, binI.RewrittenCall)
	require.NotNil(t, binI.OpIdent.Symbol)
	assert.Equal(t, types.IntName, declType(t, bindI.Lvalue).(*types.BuiltinType).Name)

	useStr := file.Decls[1].(*ast.FunDecl)
	bindS := useStr.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	binS := bindS.Lvalue.Value.(*ast.BinaryExpr)
	require.NotNil(t, binS.RewrittenCall)
	assert.Equal(t, types.StringName, declType(t, bindS.Lvalue).(*types.BuiltinType).Name)
}

// Scenario 6: an ill-typed binding raises one diagnostic, the lvalue still
// reifies to the annotated type, and compilation continues rather than
// aborting.
func TestIllTypedDiagnosticContinuesCompilation(t *testing.T) {
	file, res := check(t, `
		fun f() -> Int {
			let x: Int := copy true;
			0
		}
	`)
	require.False(t, res.OK)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diagnostic.SLV001, res.Diagnostics[0].Code)

	f := file.Decls[0].(*ast.FunDecl)
	bind := f.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	xType := declType(t, bind.Lvalue)
	assert.Equal(t, types.IntName, xType.(*types.BuiltinType).Name)
}

// An explicit specialization at the call site (`poly[T: Bool](...)`) pins
// the placeholder outright rather than leaving it to argument inference.
func TestExplicitSpecializationPinsPlaceholder(t *testing.T) {
	file, res := check(t, `
		fun poly[T](x: T) -> T { x }
		fun useExplicit() -> Bool { let a := copy poly[T: Bool](x: true); a }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	fn := file.Decls[1].(*ast.FunDecl)
	bind := fn.Body.(*ast.BlockExpr).Stmts[0].(*ast.BindingStmt)
	aType := declType(t, bind.Lvalue)
	assert.Equal(t, types.BoolName, aType.(*types.BuiltinType).Name)
}

func TestUndefinedSymbolRaisesDiagnosticAndErrorType(t *testing.T) {
	file, res := check(t, `
		fun f() -> Int { missing }
	`)
	require.False(t, res.OK)
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == diagnostic.RES001 {
			found = true
		}
	}
	assert.True(t, found, "expected RES001 undefinedSymbol, got %v", res.Diagnostics)

	f := file.Decls[0].(*ast.FunDecl)
	tail := f.Body.(*ast.BlockExpr).Tail.(*ast.Ident)
	_, isErr := declType(t, tail).(*types.ErrorType)
	assert.True(t, isErr)
}

// A parameter default that conforms to the annotated type type-checks
// clean and the default expression itself dispatches like any other.
func TestParamDefaultConformsToAnnotation(t *testing.T) {
	file, res := check(t, `
		fun f(x: Int := 0) -> Int { x }
	`)
	require.True(t, res.OK, "%v", res.Diagnostics)

	f := file.Decls[0].(*ast.FunDecl)
	def := f.Params[0].Default
	assert.Equal(t, types.IntName, declType(t, def).(*types.BuiltinType).Name)
}

// A parameter default that does not conform to the annotation raises a
// diagnostic rather than type-checking silently (spec.md §4.2's Conformance
// on parameter defaults).
func TestParamDefaultMismatchRaisesDiagnostic(t *testing.T) {
	_, res := check(t, `
		fun f(x: Int := true) -> Int { x }
	`)
	require.False(t, res.OK)
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == diagnostic.SLV001 {
			found = true
		}
	}
	assert.True(t, found, "expected SLV001 mismatch, got %v", res.Diagnostics)
}
